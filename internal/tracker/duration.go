package tracker

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultDurationSeconds is used when a duration text cannot be parsed.
const DefaultDurationSeconds = 60

// SecondsPerRep is the heuristic time allotted to one repetition.
const SecondsPerRep = 5

// MaxDurationSeconds caps a parsed duration at one day.
const MaxDurationSeconds = 24 * 60 * 60

var (
	setsPrefixRe  = regexp.MustCompile(`^\s*(\d+)\s*sets?\b\s*(?:x\s*)?`)
	timesPrefixRe = regexp.MustCompile(`^\s*(\d+)\s*x\s*(\d+)`)
	valueUnitRe   = regexp.MustCompile(`(\d+)\s*([a-z]+)`)
	bareNumberRe  = regexp.MustCompile(`^\s*(\d+)\s*$`)
)

// ParseDuration estimates how many seconds a free-text duration describes.
//
// Accepted shapes include "90 seconds", "5 minutes", "2 mins/side",
// "10 reps", "3 sets x 30 seconds", "3x10 reps" and a bare "120" (seconds).
// A "/side" suffix doubles the result and a leading set count multiplies it.
// Text without a recognizable unit yields defaultSeconds.
func ParseDuration(text string, defaultSeconds int) int {
	s := strings.ToLower(strings.TrimSpace(text))
	multiplier := 1

	if i := strings.Index(s, "/side"); i >= 0 {
		s = s[:i] + s[i+len("/side"):]
		multiplier *= 2
	}

	if m := setsPrefixRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			n = MaxDurationSeconds
		}
		multiplier = capSeconds(multiplier * capSeconds(n))
		s = s[len(m[0]):]
	} else if m := timesPrefixRe.FindStringSubmatchIndex(s); m != nil {
		// "3x10 reps": three sets of "10 reps".
		n, err := strconv.Atoi(s[m[2]:m[3]])
		if err != nil {
			n = MaxDurationSeconds
		}
		multiplier = capSeconds(multiplier * capSeconds(n))
		s = s[m[4]:]
	}

	total := 0
	if m := bareNumberRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			n = MaxDurationSeconds
		}
		total = capSeconds(n)
	} else {
		for _, m := range valueUnitRe.FindAllStringSubmatch(s, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				n = MaxDurationSeconds
			}
			total = capSeconds(total + capSeconds(n)*unitSeconds(m[2]))
		}
	}

	total = capSeconds(capSeconds(total) * capSeconds(multiplier))
	if total <= 0 {
		return defaultSeconds
	}
	return total
}

// capSeconds clamps n to MaxDurationSeconds. Operands are capped before
// multiplying so the product stays far from int overflow.
func capSeconds(n int) int {
	if n > MaxDurationSeconds {
		return MaxDurationSeconds
	}
	return n
}

func unitSeconds(unit string) int {
	switch {
	case strings.Contains(unit, "min"):
		return 60
	case strings.Contains(unit, "sec"), unit == "s":
		return 1
	case strings.Contains(unit, "rep"):
		return SecondsPerRep
	default:
		return 0
	}
}
