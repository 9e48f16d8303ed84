package domain

// Snapshot values arrive through different serializers (JSON, structpb),
// so numbers may surface as int64 or float64 depending on the backend.
// These coercions keep reconciliation tolerant of either shape.

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}
