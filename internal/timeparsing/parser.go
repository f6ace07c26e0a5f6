// Package timeparsing provides layered due-date parsing.
//
// Inputs pass through four layers, first match wins:
//  1. Compact duration (+6h, -1d, +2w)
//  2. Spanish keywords (hoy, mañana, próxima semana)
//  3. Absolute timestamp (RFC3339, date-only)
//  4. Natural language ("tomorrow", "next friday")
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// compactDurationRe matches compact duration patterns: [+-]?(\d+)([hdwmy])
var compactDurationRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

// nlParser recognizes English phrases like "tomorrow" and "next monday".
// Spanish keywords are handled by the keyword layer below; the model is
// prompted to emit due dates in natural form, which may be either.
var nlParser = func() *when.Parser {
	p := when.New(nil)
	p.Add(en.All...)
	p.Add(common.All...)
	return p
}()

// spanishKeywords maps the due-date words the original assistant accepted.
var spanishKeywords = map[string]func(time.Time) time.Time{
	"hoy":            func(now time.Time) time.Time { return now },
	"mañana":         func(now time.Time) time.Time { return now.AddDate(0, 0, 1) },
	"manana":         func(now time.Time) time.Time { return now.AddDate(0, 0, 1) },
	"próxima semana": func(now time.Time) time.Time { return now.AddDate(0, 0, 7) },
	"proxima semana": func(now time.Time) time.Time { return now.AddDate(0, 0, 7) },
	"próximo mes":    func(now time.Time) time.Time { return now.AddDate(0, 1, 0) },
	"proximo mes":    func(now time.Time) time.Time { return now.AddDate(0, 1, 0) },
}

// Parse resolves a due-date expression against the given reference time.
// Returns an error when no layer recognizes the input.
func Parse(s string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty due date")
	}

	if t, err := ParseCompactDuration(trimmed, now); err == nil {
		return t, nil
	}

	if fn, ok := spanishKeywords[strings.ToLower(trimmed)]; ok {
		return fn(now), nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}

	if r, err := nlParser.Parse(trimmed, now); err == nil && r != nil {
		return r.Time, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized due date: %q", s)
}

// ParseCompactDuration parses compact duration syntax relative to now.
//
// Format: [+-]?(\d+)([hdwmy]), e.g. "+6h", "-1d", "2w". No sign means
// positive.
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	matches := compactDurationRe.FindStringSubmatch(s)
	if matches == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}

	amount, err := strconv.Atoi(matches[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration amount: %q", matches[2])
	}
	if matches[1] == "-" {
		amount = -amount
	}

	switch matches[3] {
	case "h":
		return now.Add(time.Duration(amount) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, amount), nil
	case "w":
		return now.AddDate(0, 0, amount*7), nil
	case "m":
		return now.AddDate(0, amount, 0), nil
	case "y":
		return now.AddDate(amount, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("unknown duration unit: %q", matches[3])
}

// IsCompactDuration reports whether s matches compact duration syntax.
func IsCompactDuration(s string) bool {
	return compactDurationRe.MatchString(s)
}
