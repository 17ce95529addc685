package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjcdawkins/harmonics/internal/pitch"
)

func TestCatalogPresets(t *testing.T) {
	c, err := NewCatalog(pitch.DefaultReference)
	require.NoError(t, err)
	assert.Equal(t, PresetNames(), c.Names())
	assert.Len(t, c.Instruments(), 4)

	inst, err := c.Lookup("cello")
	require.NoError(t, err)
	assert.Equal(t, "cello", inst.Name())

	_, err = c.Lookup("banjo")
	assert.ErrorIs(t, err, ErrUnknownInstrument)
}

func TestCatalogCustom(t *testing.T) {
	custom, err := LoadCUE("testdata/custom.cue", 440)
	require.NoError(t, err)

	c, err := NewCatalog(440, custom...)
	require.NoError(t, err)
	assert.Equal(t, []string{"violin", "viola", "cello", "double bass", "five-string violin", "viola d'amore"}, c.Names())

	inst, err := c.Lookup("viola d'amore")
	require.NoError(t, err)
	assert.Equal(t, 7, inst.NumStrings())
}

func TestCatalogRejectsShadowing(t *testing.T) {
	fake, err := New("violin", 440, StringSpec{Tuning: pitch.MustParse("G3"), Length: 300})
	require.NoError(t, err)

	_, err = NewCatalog(440, fake)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
	assert.Contains(t, err.Error(), "already defined")
}

func TestCatalogRejectsReferenceMismatch(t *testing.T) {
	inst, err := New("fiddle", 415, StringSpec{Tuning: pitch.MustParse("G3"), Length: 300})
	require.NoError(t, err)

	_, err = NewCatalog(440, inst)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestCatalogReference(t *testing.T) {
	c, err := NewCatalog(442)
	require.NoError(t, err)
	assert.Equal(t, 442.0, c.Reference())
	inst, err := c.Lookup("violin")
	require.NoError(t, err)
	assert.InDelta(t, 442.0, inst.StringAt(2).OpenFrequency(), 1e-9)
}
