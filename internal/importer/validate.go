package importer

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/regimen/internal/domain"
)

// ValidateProgress checks dates and entry types before conversion.
// Returns a slice of all validation errors found.
func ValidateProgress(pf ProgressFile) []error {
	var errs []error

	dates := make([]string, 0, len(pf))
	for d := range pf {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, date := range dates {
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid date format (expected YYYY-MM-DD)", date))
			continue
		}
		for session, entries := range pf[date] {
			if session == "" {
				errs = append(errs, fmt.Errorf("%s: empty session name", date))
			}
			for i, e := range entries {
				switch v := e.(type) {
				case string:
					if v == "" {
						errs = append(errs, fmt.Errorf("%s.%s[%d]: empty entry", date, session, i))
					}
				case float64:
					if v < 0 || v != float64(int(v)) {
						errs = append(errs, fmt.Errorf("%s.%s[%d]: invalid position %v", date, session, i, v))
					}
				default:
					errs = append(errs, fmt.Errorf("%s.%s[%d]: unsupported entry type %T", date, session, i, e))
				}
			}
		}
	}
	return errs
}
