package web

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// pageInfo holds the attributes read from an HTML document.
type pageInfo struct {
	Title       string
	Description string
	Language    string
	Links       []string
}

// parsePage reads the title, meta description, document language and
// absolute link targets from an HTML body. Links are resolved against base,
// honouring a <base href> element, and returned without fragments.
func parsePage(body []byte, base *url.URL) (pageInfo, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return pageInfo{}, err
	}

	var (
		info  pageInfo
		hrefs []string
	)
	seen := make(map[string]bool)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Html:
				if info.Language == "" {
					info.Language = strings.TrimSpace(attr(n, "lang"))
				}
			case atom.Title:
				if info.Title == "" {
					info.Title = strings.Join(strings.Fields(textOf(n)), " ")
				}
			case atom.Meta:
				if strings.EqualFold(attr(n, "name"), "description") && info.Description == "" {
					info.Description = strings.TrimSpace(attr(n, "content"))
				}
			case atom.Base:
				if href := attr(n, "href"); href != "" {
					if u, err := base.Parse(href); err == nil {
						base = u
					}
				}
			case atom.A:
				if href := strings.TrimSpace(attr(n, "href")); href != "" {
					hrefs = append(hrefs, href)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, href := range hrefs {
		link, ok := resolveLink(base, href)
		if !ok || seen[link] {
			continue
		}
		seen[link] = true
		info.Links = append(info.Links, link)
	}

	return info, nil
}

// resolveLink makes href absolute and drops anything that is not http(s).
func resolveLink(base *url.URL, href string) (string, bool) {
	u, err := base.Parse(href)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return stripFragment(u), true
}

// stripFragment returns u as a string without its fragment.
func stripFragment(u *url.URL) string {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	return c.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
