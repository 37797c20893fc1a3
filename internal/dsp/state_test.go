package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_StatusBits(t *testing.T) {
	var s SpaState
	s = s.Merge(Temperature{Value: 98, StatusA: 0x3f, StatusB: 0xf0})

	require.NotNil(t, s.CurrentTemp)
	assert.Equal(t, 98, *s.CurrentTemp)

	assert.True(t, s.Heating)
	assert.True(t, s.AuxHi)
	assert.True(t, s.JetsLo)
	assert.True(t, s.JetsHi)
	assert.True(t, s.Filtering)
	assert.True(t, s.SetMode)
	assert.False(t, s.AM) // bit 7 clear

	assert.True(t, s.LightOn)
	assert.True(t, s.Jets2Hi)
	assert.True(t, s.Jets2Lo)
	assert.True(t, s.AuxLo)

	require.NotNil(t, s.LastStatusA)
	assert.Equal(t, byte(0x3f), *s.LastStatusA)
}

func TestMerge_ReservedBitsUnmapped(t *testing.T) {
	var s SpaState
	// Status A bit 6 and status B bits 0-3 have no known meaning; they must
	// not bleed into any flag.
	s = s.Merge(TimeOfDay{Text: "8:45", StatusA: 0x40, StatusB: 0x0f})

	assert.Equal(t, SpaState{LastStatusA: s.LastStatusA}, s)
	require.NotNil(t, s.LastStatusA)
	assert.Equal(t, byte(0x40), *s.LastStatusA)
}

func TestMerge_StickyAcrossBlank(t *testing.T) {
	var s SpaState
	s = s.Merge(Temperature{Value: 97, StatusA: 0x04}) // jetsLo
	require.True(t, s.JetsLo)

	s = s.Merge(Blank{})
	assert.True(t, s.JetsLo, "blank frame must not clear sticky flags")

	s = s.Merge(Unknown{Text: "LO"}) // mode word, no status bytes
	assert.True(t, s.JetsLo, "status-less unknown must not clear sticky flags")

	s = s.Merge(TimeOfDay{Text: "9:00", StatusA: 0x00})
	assert.False(t, s.JetsLo, "a present status byte does clear the flag")
}

func TestMerge_TempOnlyFromTemperature(t *testing.T) {
	var s SpaState
	s = s.Merge(TimeOfDay{Text: "8:45", StatusA: 0x01})
	assert.Nil(t, s.CurrentTemp)

	s = s.Merge(Temperature{Value: 101, StatusA: 0x01})
	require.NotNil(t, s.CurrentTemp)
	assert.Equal(t, 101, *s.CurrentTemp)

	s = s.Merge(Blank{})
	require.NotNil(t, s.CurrentTemp, "blank must not drop the last temperature")
}

func TestMerge_UnknownWithStatus(t *testing.T) {
	var s SpaState
	s = s.Merge(Unknown{HasStatus: true, StatusA: 0x10, StatusB: 0x10})
	assert.True(t, s.Filtering)
	assert.True(t, s.LightOn)
}

func TestFinalAM(t *testing.T) {
	var s SpaState
	assert.False(t, s.FinalAM(), "no status byte seen yet")

	s = s.Merge(TimeOfDay{Text: "8:45AM", StatusA: 0x82})
	assert.True(t, s.FinalAM())

	// Later status-less frames keep the answer.
	s = s.Merge(Blank{})
	assert.True(t, s.FinalAM())

	s = s.Merge(TimeOfDay{Text: "12:45", StatusA: 0x02})
	assert.False(t, s.FinalAM())
}
