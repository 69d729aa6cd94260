package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("What is **2 + 2**?")
	assert.Contains(t, out, "<strong>2 + 2</strong>")

	out = RenderMarkdown("Click <script>alert(1)</script> here")
	assert.NotContains(t, out, "<script>")

	assert.Equal(t, "", RenderMarkdown(""))
}
