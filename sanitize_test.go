package hubfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSubtree() map[string]any {
	return map[string]any{
		"type": "Columns",
		"id":   "editor-node-1",
		"props": map[string]any{
			"_id":     "prop-tracking",
			"columns": float64(2),
		},
		"slots": map[string]any{
			"left": []any{
				map[string]any{
					"type":      "Text",
					"puckId":    "zzz",
					"editorKey": "k1",
					"props":     map[string]any{"text": "hello"},
				},
			},
		},
		"zones": map[string]any{
			"footer": []any{
				map[string]any{"type": "Button", "id": "btn-7"},
			},
		},
	}
}

func hasEphemeralKey(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if _, eph := ephemeralKeys[k]; eph {
				return true
			}
			if hasEphemeralKey(val) {
				return true
			}
		}
	case []any:
		for _, el := range t {
			if hasEphemeralKey(el) {
				return true
			}
		}
	}
	return false
}

func TestSanitizeStripsEphemeralKeysAtEveryDepth(t *testing.T) {
	out := Sanitize(sampleSubtree())
	assert.False(t, hasEphemeralKey(out))

	m := out.(map[string]any)
	assert.Equal(t, "Columns", m["type"])
	assert.Equal(t, float64(2), m["props"].(map[string]any)["columns"])

	left := m["slots"].(map[string]any)["left"].([]any)
	require.Len(t, left, 1)
	assert.Equal(t, "hello", left[0].(map[string]any)["props"].(map[string]any)["text"])

	footer := m["zones"].(map[string]any)["footer"].([]any)
	require.Len(t, footer, 1)
	assert.Equal(t, "Button", footer[0].(map[string]any)["type"])
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	input := sampleSubtree()
	snapshot, ok := DeepCopy(input)
	require.True(t, ok)

	_ = Sanitize(input)

	assert.Equal(t, snapshot, any(input))
}

func TestSanitizePreservesNullArrayElements(t *testing.T) {
	out := Sanitize([]any{nil, "keep", map[string]any{"id": "x", "type": "Text"}})
	list := out.([]any)
	require.Len(t, list, 3)
	assert.Nil(t, list[0])
	assert.Equal(t, "keep", list[1])
	assert.Equal(t, map[string]any{"type": "Text"}, list[2])
}

func TestSanitizeLeavesScalarsAlone(t *testing.T) {
	assert.Equal(t, "plain", Sanitize("plain"))
	assert.Equal(t, float64(3), Sanitize(float64(3)))
	assert.Nil(t, Sanitize(nil))
}
