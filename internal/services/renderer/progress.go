package renderer

import (
	"regexp"
	"strconv"
)

// Progress lines come in two shapes, matched independently: an explicit
// percentage token ("Rendering 42%") and a current/total fraction
// ("Rendered frames 120/480"). Values derived while the process is still
// running are capped at 99; 100 is reserved for the confirmed-success
// transition.
var (
	percentPattern  = regexp.MustCompile(`(\d{1,3})(?:\.\d+)?\s*%`)
	fractionPattern = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)
)

// maxStreamedPercent is the ceiling for progress parsed from output lines.
const maxStreamedPercent = 99

// ParseProgress extracts a progress percentage from one output line.
// The second return reports whether the line carried a progress token.
func ParseProgress(line string) (int, bool) {
	if match := percentPattern.FindStringSubmatch(line); match != nil {
		value, err := strconv.Atoi(match[1])
		if err == nil {
			return clampPercent(value), true
		}
	}
	if match := fractionPattern.FindStringSubmatch(line); match != nil {
		current, errCurrent := strconv.Atoi(match[1])
		total, errTotal := strconv.Atoi(match[2])
		if errCurrent == nil && errTotal == nil && total > 0 && current >= 0 {
			return clampPercent(current * 100 / total), true
		}
	}
	return 0, false
}

func clampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > maxStreamedPercent {
		return maxStreamedPercent
	}
	return value
}
