package viewmodel

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Descriptions are typed as free-form notes, so single newlines are kept as
// line breaks and bare URLs become links.
var (
	descriptionMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	descriptionPolicy = newDescriptionPolicy()
)

func newDescriptionPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// RenderDescription converts a plant description written in markdown to
// sanitized HTML. A nil or blank description renders as "".
func RenderDescription(desc *string) string {
	if desc == nil || strings.TrimSpace(*desc) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := descriptionMarkdown.Convert([]byte(*desc), &buf); err != nil {
		return descriptionPolicy.Sanitize(*desc)
	}

	return descriptionPolicy.Sanitize(buf.String())
}
