package hubfolio

import (
	"encoding/json"
	"strconv"

	"github.com/zeebo/xxh3"
)

// TreeDigest returns a stable 64-bit digest of a tree after normalization.
// Map keys marshal in sorted order, so two trees with the same content
// always share a digest. Used as the ETag of published snapshots.
func TreeDigest(v any) string {
	b, err := json.Marshal(Normalize(v))
	if err != nil {
		return ""
	}
	return strconv.FormatUint(xxh3.Hash(b), 16)
}
