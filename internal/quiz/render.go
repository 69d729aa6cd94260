package quiz

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderMarkdown turns question text into HTML. Raw HTML in the source is
// dropped, so teacher input cannot inject markup into student pages.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	r := html.NewRenderer(html.RendererOptions{Flags: html.SkipHTML | html.HrefTargetBlank})
	return string(markdown.ToHTML([]byte(src), p, r))
}
