package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldUseBrowser(t *testing.T) {
	longEnough := strings.Repeat("responsibilities ", 40)
	assert.False(t, ShouldUseBrowser(longEnough))

	assert.True(t, ShouldUseBrowser(""))
	assert.True(t, ShouldUseBrowser("Loading..."))

	// Whitespace does not count toward the threshold.
	padded := "   \n\t  " + strings.Repeat("x", MinContentLength-1) + "   \n"
	assert.True(t, ShouldUseBrowser(padded))

	exact := strings.Repeat("x", MinContentLength)
	assert.False(t, ShouldUseBrowser(exact))
}
