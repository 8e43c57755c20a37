package ioctlclient

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFakeClientChangeCpMode(t *testing.T) {
	c := NewFakeClient()
	c.CpModes[5] = CpModeCp

	require.NoError(t, c.ChangeCpMode(5, CpModeSnapshot))
	require.Equal(t, CpModeSnapshot, c.CpModes[5])

	err := c.ChangeCpMode(99, CpModeSnapshot)
	require.ErrorIs(t, err, ErrNoCheckpoint)
}

func TestFakeClientGetSuInfoPadsWithZero(t *testing.T) {
	c := NewFakeClient()
	c.SuInfos = []SuInfo{{LastMod: 1, Nblocks: 2}, {LastMod: 3, Nblocks: 4}}

	out := make([]SuInfo, 4)
	n, err := c.GetSuInfo(0, out)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, uint32(2), out[0].Nblocks)
	require.Equal(t, uint32(4), out[1].Nblocks)
	require.Equal(t, SuInfo{}, out[2])
	require.Equal(t, SuInfo{}, out[3])
}

func TestFakeClientSatisfiesClient(t *testing.T) {
	var _ Client = NewFakeClient()
}
