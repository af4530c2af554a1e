package common

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-relay/core"
)

type durationUnit struct {
	count int64
	name  string
}

var durationUnits = []durationUnit{
	{count: 60, name: "seconds"},
	{count: 60, name: "minutes"},
	{count: 24, name: "hours"},
	{count: 1000, name: "days"},
}

// HumanizeSeconds renders a duration largest unit first. Units above the
// largest non-empty one are omitted, smaller zero units are kept.
func HumanizeSeconds(seconds int64) string {
	parts := make([]string, 0, len(durationUnits))
	remaining := seconds
	for _, unit := range durationUnits {
		if remaining <= 0 {
			break
		}
		n := remaining % unit.count
		remaining /= unit.count
		parts = append(parts, fmt.Sprintf("%d %s", n, unit.name))
	}
	if len(parts) == 0 {
		return "Error/Unknown"
	}
	slices.Reverse(parts)
	return strings.Join(parts, ", ")
}

// TestPercentage rounds the ratio to two decimals before scaling, then
// truncates.
func TestPercentage(quantity int64, total int64) int {
	if total == 0 {
		return 0
	}
	ratio := math.Round(float64(quantity)/float64(total)*100) / 100
	return int(ratio * 100)
}

// Humanize turns an identifier like "no_result" into "No result".
func Humanize(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if value == "" {
		return ""
	}
	value = strings.ToLower(value)
	first, size := utf8.DecodeRuneInString(value)
	return string(unicode.ToUpper(first)) + value[size:]
}

// RunInfo renders "Run #id" with the run description in parentheses when set.
func RunInfo(payload core.Payload) string {
	info := "Run #" + payload.RunString("id")
	if description := strings.TrimSpace(payload.RunString("description")); description != "" {
		info += " (" + description + ")"
	}
	return info
}

func EnvironmentName(payload core.Payload) string {
	return payload.RunString("environment.name")
}
