package sanitize_test

import (
	"strings"
	"testing"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/sanitize"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain tags", "  <b>medical</b>\n leave <script>alert(1)</script>", "medical leave"},
		{"entities in text", "Tom &amp; Jerry", "Tom & Jerry"},
		{"blank", "   ", ""},
		{"literal less-than", "a < b", "a < b"},
		{"encoded script", "&lt;script&gt;alert(1)&lt;/script&gt;fever", "fever"},
		{"encoded img onerror", "sick &lt;img src=x onerror=alert(2)&gt; day", "sick day"},
		{"double encoded", "&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;ok", "ok"},
		{"double encoded img", "&amp;lt;img src=x onerror=alert(2)&amp;gt;", ""},
		{"numeric entities", "&#60;b&#62;bold&#60;/b&#62;", "bold"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitize.Text(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, strings.ToLower(got), "<script")
			assert.NotContains(t, strings.ToLower(got), "<img")
		})
	}
}

func TestText_DeeplyEncodedNeverYieldsTags(t *testing.T) {
	in := "<img src=x onerror=alert(1)>"
	for range 12 {
		in = strings.ReplaceAll(in, "&", "&amp;")
		in = strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(in)
	}

	got := sanitize.Text(in)

	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, ">")
}

func TestTextPtr(t *testing.T) {
	blank := "  <i></i> "
	encoded := "&lt;b&gt;&lt;/b&gt;"
	assert.Nil(t, sanitize.TextPtr(nil))
	assert.Nil(t, sanitize.TextPtr(&blank))
	assert.Nil(t, sanitize.TextPtr(&encoded))

	v := "fever"
	assert.Equal(t, "fever", *sanitize.TextPtr(&v))
}
