package datalode

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// formatTime serializes timestamps the way the platform expects.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func setParam(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setTimeParam(q url.Values, key string, t time.Time) {
	if !t.IsZero() {
		q.Set(key, formatTime(t))
	}
}

func setIntParam(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}

// camelize converts snake_case sort keys to the camelCase the wire
// expects. Input without underscores passes through unchanged.
func camelize(s string) string {
	if s == "" || !strings.Contains(s, "_") {
		return s
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
