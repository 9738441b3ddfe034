package importer

import (
	"testing"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_NamesPositionsAndKeys(t *testing.T) {
	pf, err := ParseProgress([]byte(`{
		"2025-01-02": {
			"lllt": ["Crown Treatment", 2],
			"Morning": ["dynamic-leg-swings", "Retired Stretch"]
		},
		"2025-01-01": {"pre_bed": [0, 0]}
	}`))
	require.NoError(t, err)
	require.Empty(t, ValidateProgress(pf))

	sets, err := Convert(pf, protocol.MustLoadBuiltin())
	require.NoError(t, err)

	assert.Equal(t, []DaySet{
		{Date: "2025-01-01", SessionType: "mobility/pre-bed", Keys: []string{"nordic-curl-negatives"}},
		{Date: "2025-01-02", SessionType: "lllt/daily", Keys: []string{"crown-treatment", "occipital-treatment"}},
		{Date: "2025-01-02", SessionType: "mobility/morning", Keys: []string{"dynamic-leg-swings", "retired-stretch"}},
	}, sets)
}

func TestConvert_Errors(t *testing.T) {
	cat := protocol.MustLoadBuiltin()

	_, err := Convert(ProgressFile{"2025-01-01": {"dinner": {"x"}}}, cat)
	assert.ErrorContains(t, err, "unknown session")

	_, err = Convert(ProgressFile{"2025-01-01": {"lllt": {float64(7)}}}, cat)
	assert.ErrorContains(t, err, "out of range")
}

func TestSessionTypeFor(t *testing.T) {
	st, ok := SessionTypeFor("Pre Bed")
	assert.True(t, ok)
	assert.Equal(t, domain.SessionType("mobility/pre-bed"), st)

	st, ok = SessionTypeFor("mobility-advanced/lunch")
	assert.True(t, ok)
	assert.Equal(t, domain.SessionType("mobility-advanced/lunch"), st)

	_, ok = SessionTypeFor("supper")
	assert.False(t, ok)
}
