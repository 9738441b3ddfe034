package domain

import "strings"

// Item is one treatment or exercise entry a session asks the user to complete.
// Key is the stable identity used for completion bookkeeping.
type Item struct {
	Key          string
	Name         string
	DurationText string
	Equipment    string
	Notes        string
	Intensity    string
	Steps        []string
}

// DisplayEquipment returns the equipment label, or "None" when unset.
func (i Item) DisplayEquipment() string {
	if strings.TrimSpace(i.Equipment) == "" {
		return "None"
	}
	return i.Equipment
}

// IsRepBased reports whether the duration text describes repetitions.
func (i Item) IsRepBased() bool {
	return strings.Contains(strings.ToLower(i.DurationText), "rep")
}

// ItemKey derives a stable identity from a display name:
// lowercase, alphanumerics kept, everything else collapsed to '-'.
func ItemKey(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// FindItem returns the item with the given key.
func FindItem(items []Item, key string) (Item, bool) {
	for _, it := range items {
		if it.Key == key {
			return it, true
		}
	}
	return Item{}, false
}
