package params

import (
	"bufio"
	"strings"
)

// Recognized parameter keys.
const (
	KeyPaths      = "paths"
	KeySort       = "sort"
	KeySortOrder  = "sortOrder"
	KeyExcludeCol = "excludeCol"
	KeyFileType   = "fileType"
	KeyShowStats  = "showStats"
)

// Keys returns the recognized keys in validation order.
func Keys() []string {
	return []string{KeyPaths, KeySort, KeySortOrder, KeyExcludeCol, KeyFileType, KeyShowStats}
}

func isArrayKey(key string) bool {
	return key == KeyPaths || key == KeyExcludeCol
}

func isKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Raw holds loosely typed parameter values keyed by parameter name.
// Values come from a text block (strings and []string) or from a YAML
// mapping (any shape).
type Raw map[string]any

// Parse extracts the recognized keys of a text block. Array keys are split
// on commas. Empty values, unknown keys and lines without a colon are
// ignored.
func Parse(text string) Raw {
	raw := Raw{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		key, value := splitLine(scanner.Text())
		if !isKnownKey(key) {
			continue
		}
		if isArrayKey(key) {
			if items := splitList(value); len(items) > 0 {
				raw[key] = items
			}
			continue
		}
		if value != "" {
			raw[key] = value
		}
	}
	return raw
}

// splitLine splits on the first colon. A line without one yields an empty key.
func splitLine(line string) (key, value string) {
	k, v, ok := strings.Cut(line, ":")
	if !ok {
		return "", ""
	}
	return strings.TrimSpace(k), strings.TrimSpace(v)
}

func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// Merge overlays layers from left to right. A later layer replaces a key
// only when its value is non-empty.
func Merge(layers ...Raw) Raw {
	out := Raw{}
	for _, layer := range layers {
		for key, value := range layer {
			if !isKnownKey(key) || isEmpty(value) {
				continue
			}
			out[key] = value
		}
	}
	return out
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}
