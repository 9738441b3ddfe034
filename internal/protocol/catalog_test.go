package protocol

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Builtin(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	names := make([]string, 0)
	for _, p := range c.List() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"lllt", "mobility-advanced", "mobility-intermediate", "mobility"}, names)

	items, err := c.Session("lllt/daily")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "crown-treatment", items[0].Key)
	assert.Equal(t, "120", items[0].DurationText)
	assert.Equal(t, "High", items[0].Intensity)
	assert.Equal(t, []string{"Position device at crown", "Move in circular motion", "Cover entire area"}, items[0].Steps)
}

func TestLoad_LegacyColumnNames(t *testing.T) {
	c := MustLoadBuiltin()

	items, err := c.Session("mobility/morning")
	require.NoError(t, err)
	require.Len(t, items, 4)

	first := items[0]
	assert.Equal(t, "dynamic-cat-cow", first.Key)
	assert.Equal(t, "Dynamic Cat-Cow", first.Name)
	assert.Equal(t, "2 mins", first.DurationText)
	assert.Equal(t, "None", first.Equipment)
	assert.Contains(t, first.Notes, "Mobilize the entire spine")

	assert.Equal(t, "90-90-hip-switch", items[2].Key)
}

func TestCatalog_SessionTypes(t *testing.T) {
	c := MustLoadBuiltin()

	types := c.SessionTypes()
	assert.Contains(t, types, domain.SessionType("lllt/daily"))
	assert.Contains(t, types, domain.SessionType("mobility/pre-bed"))
	assert.Contains(t, types, domain.SessionType("mobility-advanced/lunch"))
	assert.Len(t, types, 10)
}

func TestCatalog_Errors(t *testing.T) {
	c := MustLoadBuiltin()

	_, err := c.Get("yoga")
	assert.ErrorIs(t, err, ErrUnknownProtocol)

	_, err = c.Session("mobility/dinner")
	assert.ErrorIs(t, err, ErrUnknownSession)

	_, err = c.Session("yoga/morning")
	assert.ErrorIs(t, err, ErrUnknownProtocol)
}

func TestCatalog_Resolve(t *testing.T) {
	c := MustLoadBuiltin()

	st, err := c.Resolve("lllt")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionType("lllt/daily"), st)

	st, err = c.Resolve("mobility/lunch")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionType("mobility/lunch"), st)

	_, err = c.Resolve("mobility")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestLoad_DirectoryOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	custom := `
name: lllt
version: 1.1.0
sessions:
  - name: daily
    items:
      - Treatment: Crown Treatment
        time: 60
`
	extra := `
name: breathing
sessions:
  - name: evening
    items:
      - name: Box Breathing
        duration: 4 mins
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lllt.yaml"), []byte(custom), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "breathing.yml"), []byte(extra), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	c, err := Load(dir)
	require.NoError(t, err)

	items, err := c.Session("lllt/daily")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "60", items[0].DurationText)

	st, err := c.Resolve("breathing")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionType("breathing/evening"), st)
	assert.Len(t, c.List(), 5)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("name: [unterminated"))
	assert.Error(t, err)
}
