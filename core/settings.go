package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Settings is the resolved view over an integration's raw settings. When a
// key repeats, the last entry carrying a non-blank value wins. Blank values
// are treated as if the key had not been supplied.
type Settings struct {
	entries []Setting
}

func NewSettings(raw []Setting) Settings {
	entries := make([]Setting, 0, len(raw))
	for _, item := range raw {
		key := strings.TrimSpace(item.Key)
		if key == "" {
			continue
		}
		entries = append(entries, Setting{Key: key, Value: item.Value})
	}
	return Settings{entries: entries}
}

func (s Settings) Get(key string) (any, bool) {
	key = strings.TrimSpace(key)
	var (
		value any
		found bool
	)
	for _, entry := range s.entries {
		if entry.Key != key || isBlankValue(entry.Value) {
			continue
		}
		value = entry.Value
		found = true
	}
	return value, found
}

func (s Settings) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys lists keys with a present value in first-appearance order.
func (s Settings) Keys() []string {
	seen := map[string]struct{}{}
	keys := make([]string, 0, len(s.entries))
	for _, entry := range s.entries {
		if _, ok := seen[entry.Key]; ok {
			continue
		}
		if !s.Has(entry.Key) {
			continue
		}
		seen[entry.Key] = struct{}{}
		keys = append(keys, entry.Key)
	}
	return keys
}

// Missing returns the required keys that have no present value.
func (s Settings) Missing(required []string) []string {
	missing := make([]string, 0)
	for _, key := range required {
		if !s.Has(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

func (s Settings) String(key string) string {
	value, ok := s.Get(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(scalarString(value))
}

// Map reads a nested mapping setting. JSON encoded object strings are
// accepted as well.
func (s Settings) Map(key string) map[string]any {
	value, ok := s.Get(key)
	if !ok {
		return map[string]any{}
	}
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case map[string]string:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = v
		}
		return out
	case string:
		decoded := map[string]any{}
		if err := json.Unmarshal([]byte(typed), &decoded); err == nil {
			return decoded
		}
	}
	return map[string]any{}
}

// Redacted renders the settings for log lines without exposing values.
func (s Settings) Redacted() string {
	return fmt.Sprintf("settings%v", s.Keys())
}

func isBlankValue(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case map[string]any:
		return len(typed) == 0
	case map[string]string:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	case []string:
		return len(typed) == 0
	default:
		return false
	}
}

func scalarString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case json.Number:
		return typed.String()
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return fmt.Sprint(typed)
	}
}

func ReadString(values map[string]any, key string) string {
	if len(values) == 0 {
		return ""
	}
	value, ok := values[key]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(scalarString(value))
}
