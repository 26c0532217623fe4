package converter

import (
	"encoding/json"
	"strings"
)

const headingMarker = "###"

// Text locations inside a panel's properties blob, tried in order.
var textPaths = [][]string{
	{"settings", "settings", "text", "configuration", "text"},
	{"settings", "text", "configuration", "text"},
}

// ExtractText returns the free-text content of a text panel's properties blob
// with every "###" removed. Undecodable blobs and missing paths yield "".
func ExtractText(properties string) string {
	text, ok := lookupText(properties)
	if !ok {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(text, headingMarker, ""))
}

func lookupText(properties string) (string, bool) {
	if properties == "" {
		return "", false
	}

	var root map[string]any
	if err := json.Unmarshal([]byte(properties), &root); err != nil {
		return "", false
	}

	for _, path := range textPaths {
		if text, ok := stringAt(root, path); ok {
			return text, true
		}
	}
	return "", false
}

func stringAt(node map[string]any, path []string) (string, bool) {
	for i, key := range path {
		value, ok := node[key]
		if !ok {
			return "", false
		}
		if i == len(path)-1 {
			s, ok := value.(string)
			return s, ok
		}
		if node, ok = value.(map[string]any); !ok {
			return "", false
		}
	}
	return "", false
}
