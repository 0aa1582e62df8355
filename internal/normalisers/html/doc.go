// Package html provides a Normaliser for HTML pages.
// It strips tags, scripts and styles and decodes entities. The crawler uses
// it when readability extraction yields nothing.
package html
