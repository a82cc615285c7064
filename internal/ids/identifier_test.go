package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPacksAndUnpacks(t *testing.T) {
	id, err := New(7, 42)
	require.NoError(t, err)
	assert.Equal(t, uint16(7), id.LabelOrdinal())
	assert.Equal(t, uint64(42), id.LocalOrdinal())
	assert.Equal(t, "7.42", id.String())
}

func TestNewRejectsOutOfRangeLocalOrdinal(t *testing.T) {
	_, err := New(1, MaxLocalOrdinal+1)
	require.ErrorIs(t, err, ErrLocalOrdinalOutOfRange)
}

func TestMaxLocalOrdinalAccepted(t *testing.T) {
	id, err := New(1, MaxLocalOrdinal)
	require.NoError(t, err)
	assert.Equal(t, MaxLocalOrdinal, id.LocalOrdinal())
}

func TestTotalOrderingByRawValue(t *testing.T) {
	a, _ := New(1, 5)
	b, _ := New(1, 6)
	c, _ := New(2, 0)
	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
}

func TestFromRawRoundTrips(t *testing.T) {
	id, _ := New(3, 100)
	got := FromRaw(id.Raw())
	assert.Equal(t, id, got)
	assert.True(t, got.IsValid())
}
