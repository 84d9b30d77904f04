package xmldom

// EvaluateString extracts a string from an Evaluate result: for a
// node-set result it returns the first node's Value(), for a string
// result the string directly, and "" for anything else.
func EvaluateString(result any) string {
	switch v := result.(type) {
	case []*Node:
		if len(v) == 0 {
			return ""
		}
		return v[0].Value()
	case string:
		return v
	default:
		return ""
	}
}
