package service

import (
	"fmt"
	"strings"
)

// NormalizeModelOutput turns raw model output into text ready for JSON
// decoding. Fenced output (```json ... ```) loses every backtick and the
// leading language tag. It never fails.
func NormalizeModelOutput(raw any) string {
	var text string
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		text = v
	case []byte:
		text = string(v)
	case fmt.Stringer:
		text = v.String()
	default:
		text = fmt.Sprint(v)
	}

	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimSpace(strings.ReplaceAll(text, "`", ""))
	if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
		text = text[4:]
	}
	return strings.TrimSpace(text)
}
