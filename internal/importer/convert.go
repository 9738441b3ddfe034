package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/regimen/internal/domain"
)

// Resolver maps session types to their ordered items.
type Resolver interface {
	Session(t domain.SessionType) ([]domain.Item, error)
}

// DaySet is one converted (date, session type) completion set.
type DaySet struct {
	Date        string
	SessionType domain.SessionType
	Keys        []string
}

// legacySessions maps the old single-word session names.
var legacySessions = map[string]domain.SessionType{
	"lllt":    "lllt/daily",
	"morning": "mobility/morning",
	"lunch":   "mobility/lunch",
	"pre_bed": "mobility/pre-bed",
	"prebed":  "mobility/pre-bed",
	"pre-bed": "mobility/pre-bed",
}

// SessionTypeFor resolves a legacy session name. Full "<protocol>/<session>"
// names pass through unchanged.
func SessionTypeFor(name string) (domain.SessionType, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if st := domain.SessionType(n); st.Valid() {
		return st, true
	}
	st, ok := legacySessions[strings.ReplaceAll(n, " ", "_")]
	return st, ok
}

// Convert turns a validated progress file into completion sets.
// Call ValidateProgress first; Convert assumes entries are well typed.
// Positions index the session's current item order; names are matched by
// key. Entries that match no item are kept as slugs.
func Convert(pf ProgressFile, r Resolver) ([]DaySet, error) {
	var out []DaySet
	for date, sessions := range pf {
		for name, entries := range sessions {
			st, ok := SessionTypeFor(name)
			if !ok {
				return nil, fmt.Errorf("%s: unknown session %q", date, name)
			}
			items, err := r.Session(st)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", date, err)
			}

			set := make(map[string]bool)
			for _, e := range entries {
				key, err := resolveEntry(e, items)
				if err != nil {
					return nil, fmt.Errorf("%s.%s: %w", date, name, err)
				}
				set[key] = true
			}
			keys := make([]string, 0, len(set))
			for k := range set {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			out = append(out, DaySet{Date: date, SessionType: st, Keys: keys})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].SessionType < out[j].SessionType
	})
	return out, nil
}

func resolveEntry(e any, items []domain.Item) (string, error) {
	switch v := e.(type) {
	case float64:
		idx := int(v)
		if idx < 0 || idx >= len(items) {
			return "", fmt.Errorf("position %d out of range (%d items)", idx, len(items))
		}
		return items[idx].Key, nil
	case string:
		if it, ok := domain.FindItem(items, v); ok {
			return it.Key, nil
		}
		return domain.ItemKey(v), nil
	default:
		return "", fmt.Errorf("unsupported entry type %T", e)
	}
}
