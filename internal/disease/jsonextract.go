package disease

// ExtractJSONObject returns the first balanced {...} object substring in
// text. The vision model wraps its JSON in prose or code fences often
// enough that a greedy regex is not safe; a brace-balance scan that honors
// string literals and escapes handles nested braces in descriptions.
func ExtractJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if start == -1 {
			if r == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if escaped {
			escaped = false
			continue
		}

		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}

	return "", false
}
