package publish

import (
	"html"
	"strings"

	"github.com/pagesmith/pagesmith/internal/server/models"
)

// RenderPage wraps a version's merged body in a complete HTML document.
// The body is stored as markup and inlined as-is; title and banner are
// plain text and get escaped.
func RenderPage(v *models.ContentVersion) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(v.Title) + "</title>\n")
	if v.Introduction != "" {
		b.WriteString("<meta name=\"description\" content=\"" + html.EscapeString(v.Introduction) + "\">\n")
	}
	if v.HeaderScript != "" {
		b.WriteString(v.HeaderScript)
		b.WriteString("\n")
	}
	b.WriteString("</head>\n<body>\n")
	if v.BannerImage != "" {
		b.WriteString("<img class=\"banner\" src=\"" + html.EscapeString(v.BannerImage) + "\" alt=\"\">\n")
	}
	b.WriteString(v.Body)
	b.WriteString("\n")
	if v.FooterScript != "" {
		b.WriteString(v.FooterScript)
		b.WriteString("\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
