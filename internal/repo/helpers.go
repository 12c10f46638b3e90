package repo

import (
	"encoding/json"
	"strings"
)

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// jsonString quotes a value exactly the way encoding/json serialized it into
// the column, so LIKE patterns match whole names.
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
