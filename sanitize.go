package hubfolio

// ephemeralKeys are editor bookkeeping identifiers. They track selection and
// drag state inside the visual editor and carry no durable content meaning,
// so a subtree copied into another owner's document must not retain them.
var ephemeralKeys = map[string]struct{}{
	"id":        {},
	"_id":       {},
	"puckId":    {},
	"editorKey": {},
}

// Sanitize strips every ephemeral identifier from v at every depth and
// returns the cleaned value. Slot and zone groups are treated as maps of
// named child lists and each bucket is cleaned recursively. All other keys,
// nested props included, survive intact. The input is never mutated.
func Sanitize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if _, skip := ephemeralKeys[k]; skip {
				continue
			}
			if k == KeySlots || k == KeyZones {
				if buckets, ok := val.(map[string]any); ok {
					cleaned := make(map[string]any, len(buckets))
					for name, bucket := range buckets {
						cleaned[name] = Sanitize(bucket)
					}
					out[k] = cleaned
					continue
				}
			}
			out[k] = Sanitize(val)
		}
		return out
	case []any:
		// Element-wise map. Cleaning a value never erases it entirely, so a
		// null that was present in the input is content and stays in place.
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = Sanitize(el)
		}
		return out
	default:
		return v
	}
}
