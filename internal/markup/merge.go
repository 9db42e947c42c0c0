package markup

import "golang.org/x/net/html"

// MergeRegions merges user-authored content into a freshly published
// template body. Both arguments are body fragments; the result adopts the
// template's structure wholesale while every region of the template that has
// a counterpart (same region id) in oldBody gets that counterpart's inner
// content. Regions new to the template keep their default content.
//
// Identity is the region id attribute alone, never position or similarity.
// Duplicate ids within a tree resolve to the first occurrence. When oldBody
// cannot be parsed or carries no regions, the result is the pure template
// content.
func MergeRegions(oldBody, newTemplateBody string) string {
	newNodes, err := parseFragment(newTemplateBody)
	if err != nil {
		return newTemplateBody
	}

	oldNodes, err := parseFragment(oldBody)
	if err != nil {
		oldNodes = nil
	}
	oldRegions, _ := collectRegions(oldNodes)

	if len(oldRegions) > 0 {
		newRegions, order := collectRegions(newNodes)
		for _, id := range order {
			oldRegion, ok := oldRegions[id]
			if !ok {
				continue
			}
			dst := newRegions[id]
			// a region nested inside an already-replaced one was detached
			// together with the template's default content; its old content
			// arrived wholesale with the ancestor's children
			if !attached(dst, newNodes) {
				continue
			}
			replaceChildren(dst, oldRegion)
		}
	}

	merged, err := renderNodes(newNodes)
	if err != nil {
		return newTemplateBody
	}
	return merged
}

// attached reports whether n still hangs off one of the fragment roots.
func attached(n *html.Node, roots []*html.Node) bool {
	for n.Parent != nil {
		n = n.Parent
	}
	for _, root := range roots {
		if n == root {
			return true
		}
	}
	return false
}

// replaceChildren swaps dst's children for src's. The source tree is
// consumed; its children are detached and re-homed under dst.
func replaceChildren(dst, src *html.Node) {
	for dst.FirstChild != nil {
		dst.RemoveChild(dst.FirstChild)
	}

	var children []*html.Node
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	for _, c := range children {
		src.RemoveChild(c)
		dst.AppendChild(c)
	}
}
