package capability

import (
	"fmt"
	"strings"
)

// parseAttributes scans a tag's raw attribute text into a key/value map.
// Values may be double- or single-quoted; the quote style is tracked per
// attribute so a single-quoted value can carry embedded double quotes (the
// data attribute holds a JSON payload that needs them). Returns an error if
// the text cannot be scanned as well-formed attributes; callers skip the
// tag silently in that case.
func parseAttributes(raw string) (map[string]string, error) {
	attrs := make(map[string]string)
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "/")

	i := 0
	for i < len(s) {
		// Skip whitespace between attributes.
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}

		// Attribute name, up to '='.
		start := i
		for i < len(s) && s[i] != '=' && !isSpace(s[i]) {
			i++
		}
		name := s[start:i]
		if name == "" {
			return nil, fmt.Errorf("empty attribute name at offset %d", start)
		}

		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) || s[i] != '=' {
			return nil, fmt.Errorf("attribute %q has no value", name)
		}
		i++ // consume '='
		for i < len(s) && isSpace(s[i]) {
			i++
		}

		if i >= len(s) || (s[i] != '"' && s[i] != '\'') {
			return nil, fmt.Errorf("attribute %q value is not quoted", name)
		}
		quote := s[i]
		i++
		vstart := i
		for i < len(s) && s[i] != quote {
			i++
		}
		if i >= len(s) {
			return nil, fmt.Errorf("attribute %q value is not terminated", name)
		}
		attrs[name] = s[vstart:i]
		i++ // consume closing quote
	}
	return attrs, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
