package protocol

import (
	"testing"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_OK(t *testing.T) {
	for _, p := range MustLoadBuiltin().List() {
		assert.NoError(t, Validate(p), p.Name)
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	p := &domain.Protocol{
		Version: "1.x",
		Sessions: []domain.ProtocolSession{
			{Name: "am", Items: []domain.Item{
				{Key: "a", Name: "A"},
				{Key: "a", Name: "A again", DurationText: "1 min"},
			}},
			{Name: "am"},
		},
	}

	err := Validate(p)
	require.Error(t, err)

	fields := make([]string, 0)
	for _, ve := range ValidationErrors(err) {
		fields = append(fields, ve.Field)
	}
	assert.ElementsMatch(t, []string{
		"name",
		"version",
		"sessions[0].items[0].duration",
		"sessions[0].items[1].key",
		"sessions[1].name",
		"sessions[1].items",
	}, fields)
}

func TestValidate_NoSessions(t *testing.T) {
	err := Validate(&domain.Protocol{Name: "empty"})
	errs := ValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "sessions", errs[0].Field)
}

func TestValidate_VersionBelowMinimum(t *testing.T) {
	p := &domain.Protocol{
		Name:    "old",
		Version: "0.9.0",
		Sessions: []domain.ProtocolSession{
			{Name: "s", Items: []domain.Item{{Key: "x", Name: "X", DurationText: "1 min"}}},
		},
	}
	errs := ValidationErrors(Validate(p))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "below minimum")
}

func TestParse_WrapsValidationErrors(t *testing.T) {
	_, err := Parse([]byte("name: broken\nsessions:\n  - name: s\n    items:\n      - name: No Duration\n"))
	require.Error(t, err)
	errs := ValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "sessions[0].items[0].duration", errs[0].Field)
}

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, 0, CompareVersions("1.0.0", "1.0.0"))
	assert.Equal(t, -1, CompareVersions("1.0.9", "1.1.0"))
	assert.Equal(t, 1, CompareVersions("2.0.0", "1.9.9"))
	assert.Equal(t, -1, CompareVersions("bad", "1.0.0"))
}

func TestNormalizeItem(t *testing.T) {
	it := normalizeItem(map[string]any{
		"Exercise":           "Wall Angels",
		"Sets/Reps/Duration": "3x10 reps",
		"Key Notes":          "Keep lower back flat.",
		"Equipment":          "Wall",
		"Phase":              "Foundation",
	})
	assert.Equal(t, domain.Item{
		Key:          "wall-angels",
		Name:         "Wall Angels",
		DurationText: "3x10 reps",
		Equipment:    "Wall",
		Notes:        "Keep lower back flat.",
	}, it)

	it = normalizeItem(map[string]any{"name": "Crown", "duration": 120, "steps": "Position / Move / Cover", "key": "crown-x"})
	assert.Equal(t, "crown-x", it.Key)
	assert.Equal(t, "120", it.DurationText)
	assert.Equal(t, []string{"Position", "Move", "Cover"}, it.Steps)
}
