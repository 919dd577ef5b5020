package runtime

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	openFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*\\n?")
	closeFence = regexp.MustCompile("\\n?```\\s*$")
)

// cleanJSON strips Markdown code fences and keeps the outermost object, so
// that chatty model output still decodes.
func cleanJSON(content string) string {
	c := strings.TrimSpace(content)
	c = openFence.ReplaceAllString(c, "")
	c = closeFence.ReplaceAllString(c, "")
	c = strings.TrimSpace(c)

	start := strings.Index(c, "{")
	end := strings.LastIndex(c, "}")
	if start >= 0 && end > start {
		return c[start : end+1]
	}
	return c
}

// decodeModelJSON decodes model output into v after cleaning it.
func decodeModelJSON(content string, v any) error {
	if err := json.Unmarshal([]byte(cleanJSON(content)), v); err != nil {
		return fmt.Errorf("malformed model JSON: %w", err)
	}
	return nil
}

// ensureString renders a loosely typed JSON value as text. Objects and
// arrays become indented JSON.
func ensureString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]any, []any:
		out, err := json.MarshalIndent(val, "", "  ")
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(out)
	default:
		return fmt.Sprint(val)
	}
}
