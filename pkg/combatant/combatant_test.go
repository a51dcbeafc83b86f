package combatant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot(t *testing.T, name string) *Snapshot {
	t.Helper()
	s, err := New(name, "", false)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	s, err := New("  Mareanie ", " Black Sludge", false)
	require.NoError(t, err)

	assert.Equal(t, "Mareanie", s.Name)
	assert.Equal(t, "Black Sludge", s.Item)
	assert.Equal(t, 100, s.HPMin)
	assert.Equal(t, 100, s.HPMax)
	assert.Equal(t, MajorNone, s.MajorStatus)
	assert.Equal(t, MinorNone, s.MinorStatus)
	assert.Len(t, s.Stats, len(StatKeys))
	for _, k := range StatKeys {
		assert.Zero(t, s.Stats[k], "stat %s", k)
	}

	_, err = New("   ", "", false)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestSnapshot_SetStatClamps(t *testing.T) {
	s := newSnapshot(t, "Toxapex")

	for v := -20; v <= 20; v++ {
		require.True(t, s.SetStat(StatATK, v))
		got, ok := s.Stat(StatATK)
		require.True(t, ok)
		assert.Equal(t, max(-6, min(6, v)), got, "input %d", v)
	}
}

func TestSnapshot_SetStatUnknownKey(t *testing.T) {
	s := newSnapshot(t, "Toxapex")

	assert.False(t, s.SetStat("CRIT", 2))
	_, ok := s.Stat("CRIT")
	assert.False(t, ok)
	assert.NotContains(t, s.Stats, StatKey("CRIT"))
}

func TestSnapshot_AdjustStat(t *testing.T) {
	s := newSnapshot(t, "Gyarados")

	require.True(t, s.AdjustStat(StatSPE, 2))
	require.True(t, s.AdjustStat(StatSPE, 5))
	got, _ := s.Stat(StatSPE)
	assert.Equal(t, 6, got)

	require.True(t, s.AdjustStat(StatSPE, -13))
	got, _ = s.Stat(StatSPE)
	assert.Equal(t, -6, got)
}

func TestSnapshot_SetHPRange(t *testing.T) {
	tests := []struct {
		name    string
		a, b    int
		wantMin int
		wantMax int
	}{
		{name: "in range", a: 20, b: 60, wantMin: 20, wantMax: 60},
		{name: "inverted is swapped", a: 80, b: 30, wantMin: 30, wantMax: 80},
		{name: "clamped low", a: -10, b: 50, wantMin: 0, wantMax: 50},
		{name: "clamped high", a: 90, b: 150, wantMin: 90, wantMax: 100},
		{name: "both out and inverted", a: 300, b: -5, wantMin: 0, wantMax: 100},
		{name: "equal bounds", a: 45, b: 45, wantMin: 45, wantMax: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSnapshot(t, "Blissey")
			s.SetHPRange(tt.a, tt.b)
			assert.Equal(t, tt.wantMin, s.HPMin)
			assert.Equal(t, tt.wantMax, s.HPMax)
			assert.LessOrEqual(t, s.HPMin, s.HPMax)
		})
	}
}

func TestSnapshot_AdjustHP(t *testing.T) {
	s := newSnapshot(t, "Blissey")
	s.SetHPRange(40, 60)

	s.AdjustHP(-50, -10)
	assert.Equal(t, 0, s.HPMin)
	assert.Equal(t, 50, s.HPMax)

	// max drops below min: swap keeps the invariant
	s.AdjustHP(30, -40)
	assert.Equal(t, 10, s.HPMin)
	assert.Equal(t, 30, s.HPMax)
}

func TestSnapshot_CloneIsIndependent(t *testing.T) {
	original := newSnapshot(t, "Scizor")
	original.SetStat(StatATK, 2)
	original.SetMajorStatus(MajorBurn)

	clone := original.Clone()
	original.SetStat(StatATK, -3)
	original.SetHPRange(10, 20)
	original.SetMajorStatus(MajorSleep)

	got, _ := clone.Stat(StatATK)
	assert.Equal(t, 2, got)
	assert.Equal(t, 100, clone.HPMin)
	assert.Equal(t, MajorBurn, clone.MajorStatus)

	var nilSnapshot *Snapshot
	assert.Nil(t, nilSnapshot.Clone())
}

func TestSnapshot_Resets(t *testing.T) {
	s := newSnapshot(t, "Garchomp")
	s.SetStat(StatDEF, 3)
	s.SetMajorStatus(MajorParalysis)
	s.SetMinorStatus(MinorConfused)
	s.SetHPRange(5, 15)

	s.ResetStats()
	s.ResetStatus()
	s.ResetHP()

	got, _ := s.Stat(StatDEF)
	assert.Zero(t, got)
	assert.Equal(t, MajorNone, s.MajorStatus)
	assert.Equal(t, MinorNone, s.MinorStatus)
	assert.Equal(t, 100, s.HPMin)
	assert.Equal(t, 100, s.HPMax)
}

func TestSnapshot_NormalizeAfterDecode(t *testing.T) {
	raw := `{"name":"Ditto","item":null,"is_mega":false,"hp_min":120,"hp_max":-4,
		"major_status":"","stats":{"ATK":9,"SPE":-8,"BOGUS":1}}`

	var s Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	s.Normalize()

	assert.Equal(t, "", s.Item)
	assert.Equal(t, 0, s.HPMin)
	assert.Equal(t, 100, s.HPMax)
	assert.Equal(t, MajorNone, s.MajorStatus)
	assert.Equal(t, MinorNone, s.MinorStatus)
	assert.Equal(t, 6, s.Stats[StatATK])
	assert.Equal(t, -6, s.Stats[StatSPE])
	assert.Equal(t, 0, s.Stats[StatEVA])
	assert.NotContains(t, s.Stats, StatKey("BOGUS"))
}

func TestSnapshot_String(t *testing.T) {
	s, err := New("Charizard", "Charizardite X", true)
	require.NoError(t, err)
	s.SetHPRange(30, 50)
	s.SetMajorStatus(MajorBurn)
	s.SetStat(StatATK, 1)

	assert.Equal(t, "Charizard (Mega) @ Charizardite X hp=30-50% Burn ATK+1", s.String())
}

func TestParseStatus(t *testing.T) {
	major, ok := ParseMajorStatus("BADLY_POISONED")
	require.True(t, ok)
	assert.Equal(t, MajorBadlyPoisoned, major)

	major, ok = ParseMajorStatus("")
	require.True(t, ok)
	assert.Equal(t, MajorNone, major)

	_, ok = ParseMajorStatus("Frostbite")
	assert.False(t, ok)

	minor, ok := ParseMinorStatus("infatuation")
	require.True(t, ok)
	assert.Equal(t, MinorInfatuation, minor)

	for _, editorOnly := range []string{"Curse", "Leech Seed", "Substitute", "Entry Hazard"} {
		_, ok := ParseMinorStatus(editorOnly)
		assert.False(t, ok, "%s should not be a minor status", editorOnly)
	}

	assert.True(t, MajorSleep.Valid())
	assert.False(t, MajorStatus("Sleepy").Valid())
	assert.True(t, MinorConfused.Valid())
	assert.False(t, MinorStatus("Curse").Valid())
}
