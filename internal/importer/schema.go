package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ProgressFile is the legacy progress store: calendar date -> session name ->
// completed entries. Entries are item names, item keys or list positions.
type ProgressFile map[string]map[string][]any

// LoadProgressFile reads and decodes a legacy progress JSON file.
func LoadProgressFile(path string) (ProgressFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading progress file: %w", err)
	}
	return ParseProgress(data)
}

func ParseProgress(data []byte) (ProgressFile, error) {
	var pf ProgressFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing progress JSON: %w", err)
	}
	if pf == nil {
		pf = ProgressFile{}
	}
	return pf, nil
}
