package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/regimen/internal/domain"
)

// MinVersion is the oldest protocol file version the catalog accepts.
const MinVersion = "1.0.0"

// ValidationError describes one problem with a protocol definition.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a protocol for the fields the tracker depends on and
// returns every problem found joined into one error, or nil.
func Validate(p *domain.Protocol) error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if p.Name == "" {
		add("name", "protocol name is required")
	} else if strings.Contains(p.Name, "/") {
		add("name", "protocol name %q must not contain '/'", p.Name)
	}
	if p.Version != "" {
		if _, ok := parseVersion(p.Version); !ok {
			add("version", "invalid version format %q", p.Version)
		} else if CompareVersions(p.Version, MinVersion) < 0 {
			add("version", "version %s is below minimum %s", p.Version, MinVersion)
		}
	}
	if len(p.Sessions) == 0 {
		add("sessions", "at least one session is required")
	}

	seenSessions := make(map[string]bool)
	for i, s := range p.Sessions {
		field := fmt.Sprintf("sessions[%d]", i)
		switch {
		case s.Name == "":
			add(field+".name", "session name is required")
		case strings.Contains(s.Name, "/"):
			add(field+".name", "session name %q must not contain '/'", s.Name)
		case seenSessions[s.Name]:
			add(field+".name", "duplicate session %q", s.Name)
		}
		seenSessions[s.Name] = true

		if len(s.Items) == 0 {
			add(field+".items", "session %q has no items", s.Name)
		}
		seenKeys := make(map[string]bool)
		for j, it := range s.Items {
			itemField := fmt.Sprintf("%s.items[%d]", field, j)
			if it.Name == "" {
				add(itemField+".name", "missing required field: name")
			}
			if it.DurationText == "" {
				add(itemField+".duration", "missing required field: duration")
			}
			if it.Key == "" {
				continue
			}
			if seenKeys[it.Key] {
				add(itemField+".key", "duplicate item key %q", it.Key)
			}
			seenKeys[it.Key] = true
		}
	}
	return errors.Join(errs...)
}

// ValidationErrors collects the individual problems wrapped in err.
func ValidationErrors(err error) []ValidationError {
	switch x := err.(type) {
	case nil:
		return nil
	case ValidationError:
		return []ValidationError{x}
	case interface{ Unwrap() []error }:
		var out []ValidationError
		for _, e := range x.Unwrap() {
			out = append(out, ValidationErrors(e)...)
		}
		return out
	case interface{ Unwrap() error }:
		return ValidationErrors(x.Unwrap())
	}
	return nil
}

func parseVersion(v string) ([3]int, bool) {
	var out [3]int
	parts := strings.Split(strings.TrimSpace(v), ".")
	if len(parts) != 3 {
		return out, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return out, false
		}
		out[i] = n
	}
	return out, true
}

// CompareVersions orders two major.minor.patch strings. Unparseable
// versions sort before everything else.
func CompareVersions(a, b string) int {
	va, okA := parseVersion(a)
	vb, okB := parseVersion(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	}
	for i := range va {
		if va[i] != vb[i] {
			if va[i] < vb[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
