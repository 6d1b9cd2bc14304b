package capability

import "encoding/json"

// Parameter normalization. Pure and total: every input produces a result.
// Malformed JSON in the data attribute degrades to plain content rather
// than failing, so the invocation still reaches the dispatcher, which can
// report a more specific diagnostic if required parameters are missing.

// contentAliases are attribute names promotable to content at dispatch
// time, in precedence order.
var contentAliases = []string{"content", "expression", "query", "data"}

// normalizeParams applies the data-attribute rules to a freshly scanned
// attribute map. A data value that parses as a JSON object has its keys
// merged into params (overwriting same-named attributes) and data itself
// removed. A data value that does not parse becomes the content string
// verbatim, unless explicit tag content already exists.
func normalizeParams(params map[string]string, content string) (map[string]string, string) {
	raw, ok := params["data"]
	if !ok {
		return params, content
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		delete(params, "data")
		for k, v := range obj {
			params[k] = stringifyJSONValue(v)
		}
		return params, content
	}

	delete(params, "data")
	if content == "" {
		content = raw
	}
	return params, content
}

// stringifyJSONValue flattens a decoded JSON value to the string form a
// handler expects. Strings pass through; everything else is re-encoded
// compactly.
func stringifyJSONValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// EffectiveContent resolves the content a handler (or a required-parameter
// check) should observe: explicit tag content wins, otherwise the first
// populated content alias attribute, in precedence order. Params are left
// untouched.
func EffectiveContent(params map[string]string, content string) string {
	if content != "" {
		return content
	}
	for _, alias := range contentAliases {
		if v, ok := params[alias]; ok && v != "" {
			return v
		}
	}
	return ""
}
