package hubfolio

import (
	"encoding/json"
)

// Tree is the canonical shape of a page document: a root object carrying a
// "props" mapping and an ordered "content" list of nodes. Nested nodes may
// hold children under named buckets inside "slots" or "zones".
type Tree = map[string]any

const (
	KeyProps   = "props"
	KeyContent = "content"
	KeyType    = "type"
	KeySlots   = "slots"
	KeyZones   = "zones"
)

// HomeSegment is the reserved leaf segment addressing an app's landing page.
const HomeSegment = "home"

// EmptyTree returns a fresh, structurally valid root with no content.
func EmptyTree() Tree {
	return Tree{
		KeyProps:   map[string]any{},
		KeyContent: []any{},
	}
}

// DeepCopy clones a JSON-representable value via a serialize round trip.
// The boolean is false when the value cannot survive the round trip.
func DeepCopy(v any) (any, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, false
	}
	return out, true
}
