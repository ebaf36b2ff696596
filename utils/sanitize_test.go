package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_KeepsUGCMarkup(t *testing.T) {
	out := Sanitize(`<p>hello <strong>world</strong></p><script>alert(1)</script>`)
	assert.Contains(t, out, "<strong>world</strong>")
	assert.NotContains(t, out, "script")
}

func TestStripHTML(t *testing.T) {
	out := StripHTML(`<b>bold</b> title <img src=x onerror=alert(1)>`)
	assert.False(t, strings.ContainsAny(out, "<>"))
	assert.Contains(t, out, "bold")
}

func TestUniqueUint(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, UniqueUint([]uint{3, 1, 3, 2, 1}))
	assert.Empty(t, UniqueUint(nil))
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"go", "web"}, UniqueStrings([]string{"go", "web", "go"}))
}
