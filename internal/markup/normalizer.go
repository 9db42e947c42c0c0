package markup

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// Normalizer prepares body markup at save time: it guarantees stable region
// identifiers and derives plain-text introductions.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// EnsureEditableMarkers returns body with every editable element carrying a
// stable region id and an ordering index. Elements are considered editable
// when they carry the editable marker attribute or already have a region id.
// Ids assigned here survive subsequent saves, so the same conceptual region
// keeps its identity across template regenerations.
func (nz *Normalizer) EnsureEditableMarkers(body string) (string, error) {
	nodes, err := parseFragment(body)
	if err != nil {
		return "", err
	}

	idx := 0
	for _, root := range nodes {
		walk(root, func(n *html.Node) bool {
			if n.Type != html.ElementNode {
				return true
			}
			_, editable := getAttr(n, AttrEditable)
			id, hasID := getAttr(n, AttrRegionID)
			if !editable && !hasID {
				return true
			}
			if id == "" {
				setAttr(n, AttrRegionID, uuid.NewString())
			}
			setAttr(n, AttrRegionIndex, strconv.Itoa(idx))
			idx++
			return true
		})
	}

	return renderNodes(nodes)
}

// ExtractIntroduction returns the text of the first non-empty block of body,
// truncated to IntroductionLimit runes. Markup that cannot be parsed or
// contains no text yields an empty string.
func (nz *Normalizer) ExtractIntroduction(body string) string {
	nodes, err := parseFragment(body)
	if err != nil {
		return ""
	}

	var intro string
	for _, root := range nodes {
		if !walk(root, func(n *html.Node) bool {
			if n.Type != html.ElementNode || !isBlock(n.Data) {
				return true
			}
			if text := strings.TrimSpace(textContent(n)); text != "" {
				intro = text
				return false
			}
			return true
		}) {
			break
		}
	}

	// fragment may be bare text without any block element
	if intro == "" {
		var sb strings.Builder
		for _, root := range nodes {
			sb.WriteString(textContent(root))
		}
		intro = strings.TrimSpace(sb.String())
	}

	return Truncate(intro, IntroductionLimit)
}

// Truncate shortens s to at most limit runes.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "blockquote":
		return true
	}
	return false
}

// textContent flattens all text nodes under n, collapsing runs of whitespace.
func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}
