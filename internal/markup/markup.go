// Package markup implements the HTML plumbing behind content editing:
// stable identifiers for editable regions, plain-text introduction
// extraction, and the region-preserving merge used when a shared template
// is republished over existing content.
//
// Parsing is lenient (golang.org/x/net/html); markup that yields no
// editable regions is treated as region-free rather than rejected.
package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attributes carried by editable region markers.
const (
	// AttrEditable marks an element as an editable region.
	AttrEditable = "data-editable"
	// AttrRegionID is the stable identifier correlating the same conceptual
	// region across template regenerations.
	AttrRegionID = "data-region-id"
	// AttrRegionIndex is the ordinal of the region within the document.
	AttrRegionIndex = "data-region-index"
)

// IntroductionLimit caps extracted introductions, in runes.
const IntroductionLimit = 512

// parseFragment parses s as body content and returns its top-level nodes.
func parseFragment(s string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	return html.ParseFragment(strings.NewReader(s), ctx)
}

// renderNodes serializes nodes back to HTML.
func renderNodes(nodes []*html.Node) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		if err := html.Render(&sb, n); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// walk visits n and its descendants in document order. Returning false from
// fn stops the walk.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// collectRegions gathers elements carrying a non-empty region id, in
// document order. Duplicate ids resolve to the first occurrence.
func collectRegions(nodes []*html.Node) (map[string]*html.Node, []string) {
	regions := make(map[string]*html.Node)
	var order []string
	for _, root := range nodes {
		walk(root, func(n *html.Node) bool {
			if n.Type != html.ElementNode {
				return true
			}
			id, ok := getAttr(n, AttrRegionID)
			if !ok || id == "" {
				return true
			}
			if _, seen := regions[id]; !seen {
				regions[id] = n
				order = append(order, id)
			}
			return true
		})
	}
	return regions, order
}
