package promptstyle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplySystem(t *testing.T) {
	assert.Equal(t, "", ApplySystem("   ", "json"))

	out := ApplySystem("You are a content quality analyst.", "json")
	assert.True(t, strings.HasPrefix(out, marker))
	assert.Contains(t, out, "single JSON object")
	assert.True(t, strings.HasSuffix(out, "You are a content quality analyst."))

	assert.Equal(t, out, ApplySystem(out, "json"), "applying twice must not nest the block")
	assert.Contains(t, ApplySystem("Write posts.", "text"), "without preamble")
}
