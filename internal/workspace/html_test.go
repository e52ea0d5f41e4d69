package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlattenHTML(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		text   string
		images []string
	}{
		{"plain", "  just   text ", "just text", nil},
		{"breaks", "line one<br>line two<br/>line three", "line one\nline two\nline three", nil},
		{"blocks", "<div>a</div><div>b</div>", "a\nb", nil},
		{"link", `see <a href="https://x.test">the map</a> here`, "see [the map](https://x.test) here", nil},
		{"nbsp", "a&nbsp;&nbsp;b", "a b", nil},
		{"blank lines", "<p>a</p><p></p><p></p><p></p><p>b</p>", "a\n\nb", nil},
		{"images", `<p>logo:</p><img src="https://cdn.test/1.png"><img src="https://cdn.test/2.png">`, "logo:", []string{"https://cdn.test/1.png", "https://cdn.test/2.png"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FlattenHTML(tc.in)
			assert.Equal(t, tc.text, got.Text)
			assert.Equal(t, tc.images, got.Images)
		})
	}
}
