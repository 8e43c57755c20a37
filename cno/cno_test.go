package cno

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nilfs2/gonilfs2/nilfs2"
)

func TestParseRangeLaws(t *testing.T) {
	start, end, err := ParseRange("7")
	require.NoError(t, err)
	require.Equal(t, uint64(7), start)
	require.Equal(t, uint64(7), end)

	start, end, err = ParseRange("..9")
	require.NoError(t, err)
	require.Equal(t, nilfs2.CnoMin, start)
	require.Equal(t, uint64(9), end)

	start, end, err = ParseRange("3..")
	require.NoError(t, err)
	require.Equal(t, uint64(3), start)
	require.Equal(t, nilfs2.CnoMax, end)

	start, end, err = ParseRange("3..9")
	require.NoError(t, err)
	require.Equal(t, uint64(3), start)
	require.Equal(t, uint64(9), end)
}

func TestParseRangeNoOrderingCheck(t *testing.T) {
	start, end, err := ParseRange("7..3")
	require.NoError(t, err)
	require.Equal(t, uint64(7), start)
	require.Equal(t, uint64(3), end)
}

func TestParseNegativeReturnsMax(t *testing.T) {
	v, err := Parse("-5")
	require.NoError(t, err)
	require.Equal(t, nilfs2.CnoMax, v)
}

func TestParseMalformedDistinguishableFromMax(t *testing.T) {
	_, err := Parse("not-a-number")
	require.ErrorIs(t, err, ErrMalformed)

	v, err := Parse("-5")
	require.NoError(t, err)
	require.Equal(t, nilfs2.CnoMax, v)
}
