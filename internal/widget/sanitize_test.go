package widget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/tags-widget/internal/widget"
)

func TestCheckInputData(t *testing.T) {
	cases := map[string]string{
		"<script>":       "&lt;script&gt;",
		"  hi  ":         "hi",
		"":               "",
		"   ":            "",
		"a & b":          "a &amp; b",
		`"quoted"`:       "&quot;quoted&quot;",
		"it's":           "it&#039;s",
		"&lt;":           "&amp;lt;",
		"\t<a href='x'>": "&lt;a href=&#039;x&#039;&gt;",
	}
	for in, want := range cases {
		assert.Equal(t, want, widget.CheckInputData(in), "input %q", in)
	}
}

func TestCheckInputData_TrimsBrowserWhitespace(t *testing.T) {
	assert.Equal(t, "hi", widget.CheckInputData("\ufeffhi\ufeff"))
	assert.Equal(t, "hi", widget.CheckInputData("\u00a0\u3000hi\u2028\u2029"))
	assert.Equal(t, "hi", widget.CheckInputData("\v\fhi\r\n"))
	assert.Equal(t, "\u0085hi\u0085", widget.CheckInputData("\u0085hi\u0085"))

	assert.False(t, widget.ValidTag(widget.CheckInputData("\ufeff")))
	assert.True(t, widget.ValidTag(widget.CheckInputData("\u0085")))
}

func TestValidTag(t *testing.T) {
	assert.False(t, widget.ValidTag(""))
	assert.True(t, widget.ValidTag("a"))
	assert.True(t, widget.ValidTag("abcdefghijklmnopqrs"))
	assert.False(t, widget.ValidTag("abcdefghijklmnopqrst"))
	// Astral characters count as two UTF-16 units.
	assert.True(t, widget.ValidTag("😀😀😀😀😀😀😀😀😀"))
	assert.False(t, widget.ValidTag("😀😀😀😀😀😀😀😀😀😀"))
}
