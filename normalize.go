package hubfolio

// Normalize coerces any stored or client-supplied payload into the canonical
// root shape. It accepts, in order of detection: a root object exposing a
// top-level content list, a bare array (taken as the content list), a single
// opaque object (wrapped as a one-element content list), and anything else
// (degraded to the empty root). It never fails and never aliases the input;
// the result is built from a deep copy.
func Normalize(input any) Tree {
	v, ok := DeepCopy(input)
	if !ok {
		return EmptyTree()
	}

	switch t := v.(type) {
	case map[string]any:
		if _, has := t[KeyContent]; has {
			return normalizeRoot(t)
		}
		root := EmptyTree()
		root[KeyContent] = []any{normalizeNode(t)}
		return root
	case []any:
		root := EmptyTree()
		root[KeyContent] = normalizeContent(t)
		return root
	default:
		return EmptyTree()
	}
}

func normalizeRoot(m map[string]any) Tree {
	content, ok := m[KeyContent].([]any)
	if !ok {
		content = []any{}
	}
	m[KeyContent] = normalizeContent(content)

	if _, ok := m[KeyProps].(map[string]any); !ok {
		m[KeyProps] = map[string]any{}
	}

	// Legacy documents keep zone buckets at the root. Each bucket is an
	// ordered node list of its own.
	if zones, ok := m[KeyZones].(map[string]any); ok {
		for name, bucket := range zones {
			if list, ok := bucket.([]any); ok {
				zones[name] = normalizeContent(list)
			}
		}
	}

	return m
}

func normalizeContent(list []any) []any {
	out := make([]any, 0, len(list))
	for _, el := range list {
		if node, ok := el.(map[string]any); ok {
			out = append(out, normalizeNode(node))
			continue
		}
		// Non-object entries carry no structure; they pass through
		// untouched so nothing an author saved is ever dropped.
		out = append(out, el)
	}
	return out
}

// normalizeNode guarantees every node has a type tag. An empty type renders
// as a fallback container downstream.
func normalizeNode(node map[string]any) map[string]any {
	if _, ok := node[KeyType].(string); !ok {
		node[KeyType] = ""
	}
	for _, group := range []string{KeySlots, KeyZones} {
		buckets, ok := node[group].(map[string]any)
		if !ok {
			continue
		}
		for name, bucket := range buckets {
			if list, ok := bucket.([]any); ok {
				buckets[name] = normalizeContent(list)
			}
		}
	}
	return node
}
