package normalisers

import (
	"net/url"
	"path"
	"strings"
)

// TitleFromURI derives a readable title from the last path segment of uri,
// with the extension removed and underscores and dashes turned into spaces.
// Returns the host when the path is empty.
func TitleFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}

	name := path.Base(strings.TrimSuffix(u.Path, "/"))
	if name == "." || name == "/" || name == "" {
		return u.Host
	}
	if ext := path.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}
