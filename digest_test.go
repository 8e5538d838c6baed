package hubfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTreeDigestStableAcrossEquivalentShapes(t *testing.T) {
	a := map[string]any{"content": []any{map[string]any{"type": "Text"}}}
	b := []any{map[string]any{"type": "Text"}}
	assert.Equal(t, TreeDigest(a), TreeDigest(b))
	assert.NotEmpty(t, TreeDigest(a))
}

func TestTreeDigestDistinguishesContent(t *testing.T) {
	a := []any{map[string]any{"type": "Text"}}
	b := []any{map[string]any{"type": "Button"}}
	assert.NotEqual(t, TreeDigest(a), TreeDigest(b))
}
