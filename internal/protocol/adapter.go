package protocol

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/regimen/internal/domain"
)

// fileProtocol is the on-disk YAML shape of a protocol.
type fileProtocol struct {
	Name        string        `yaml:"name"`
	Title       string        `yaml:"title"`
	Version     string        `yaml:"version"`
	Description string        `yaml:"description"`
	Sessions    []fileSession `yaml:"sessions"`
}

type fileSession struct {
	Name  string           `yaml:"name"`
	Title string           `yaml:"title"`
	Notes []string         `yaml:"notes"`
	Items []map[string]any `yaml:"items"`
}

// itemFieldAliases maps every accepted spelling of an item field, after
// normalizeFieldName, to the canonical field.
var itemFieldAliases = map[string]string{
	"key":              "key",
	"id":               "key",
	"name":             "name",
	"exercise":         "name",
	"treatment":        "name",
	"duration":         "duration",
	"setsreps":         "duration",
	"setsrepsduration": "duration",
	"time":             "duration",
	"equipment":        "equipment",
	"notes":            "notes",
	"keynotes":         "notes",
	"intensity":        "intensity",
	"steps":            "steps",
}

func normalizeFieldName(k string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(k) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeItem turns one loosely keyed item record into a domain.Item.
// Unknown fields are ignored. When several spellings map to the same field
// the first non-empty one in sorted key order wins.
func normalizeItem(raw map[string]any) domain.Item {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make(map[string]any, len(raw))
	for _, k := range keys {
		v := raw[k]
		canon, ok := itemFieldAliases[normalizeFieldName(k)]
		if !ok {
			continue
		}
		if existing, dup := fields[canon]; dup && scalarString(existing) != "" {
			continue
		}
		fields[canon] = v
	}

	it := domain.Item{
		Key:          scalarString(fields["key"]),
		Name:         scalarString(fields["name"]),
		DurationText: scalarString(fields["duration"]),
		Equipment:    scalarString(fields["equipment"]),
		Notes:        scalarString(fields["notes"]),
		Intensity:    scalarString(fields["intensity"]),
		Steps:        stringList(fields["steps"]),
	}
	if it.Key == "" {
		it.Key = domain.ItemKey(it.Name)
	}
	return it
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case int, int64, float64, bool:
		return fmt.Sprint(x)
	default:
		return ""
	}
}

// stringList accepts a YAML sequence or a single " / " separated string.
func stringList(v any) []string {
	switch x := v.(type) {
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s := scalarString(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(x, "/") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func (fp fileProtocol) toDomain() *domain.Protocol {
	p := &domain.Protocol{
		Name:        strings.TrimSpace(fp.Name),
		Title:       domain.CoalesceStr(fp.Title, fp.Name),
		Description: fp.Description,
		Version:     fp.Version,
	}
	for _, fs := range fp.Sessions {
		s := domain.ProtocolSession{
			Name:  strings.TrimSpace(fs.Name),
			Title: domain.CoalesceStr(fs.Title, fs.Name),
			Notes: fs.Notes,
		}
		for _, raw := range fs.Items {
			s.Items = append(s.Items, normalizeItem(raw))
		}
		p.Sessions = append(p.Sessions, s)
	}
	return p
}
