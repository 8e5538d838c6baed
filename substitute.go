package hubfolio

import (
	"regexp"
)

// Placeholder tokens look like {{key}}. Whitespace inside the braces is
// tolerated; key characters follow the variable key charset.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// Substitute walks an arbitrary nested document value and replaces every
// placeholder token whose key is present in vars with that variable's value.
// Tokens bound to absent keys stay literal. The walk is pure: it returns a
// new structure and never touches the input, and it never fails on
// unexpected shapes.
func Substitute(v any, vars map[string]string) any {
	if len(vars) == 0 {
		out, ok := DeepCopy(v)
		if !ok {
			return v
		}
		return out
	}
	return substitute(v, vars)
}

func substitute(v any, vars map[string]string) any {
	switch t := v.(type) {
	case string:
		return placeholderPattern.ReplaceAllStringFunc(t, func(token string) string {
			key := placeholderPattern.FindStringSubmatch(token)[1]
			if value, ok := vars[key]; ok {
				return value
			}
			return token
		})
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = substitute(val, vars)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = substitute(el, vars)
		}
		return out
	default:
		return v
	}
}
