package nilfs2_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nilfs2/gonilfs2/nilfs2"
)

func TestComputeLayoutScenarioOne(t *testing.T) {
	opts := nilfs2.Options{
		BlockSize:        4096,
		BlocksPerSegment: 2048,
		ReservedPercent:  5,
		DeviceSize:       256 << 20,
		Ctime:            0,
	}
	layout, err := nilfs2.ComputeLayout(opts)
	require.NoError(t, err)
	require.Equal(t, int64(32), layout.Nsegments)
	require.Equal(t, int64(1), layout.FirstDataBlock)
}

func TestComputeLayoutRejectsUndersizedSegment(t *testing.T) {
	opts := nilfs2.Options{
		BlockSize:        1024,
		BlocksPerSegment: 8,
		ReservedPercent:  5,
		DeviceSize:       8 << 20,
	}
	_, err := nilfs2.ComputeLayout(opts)
	require.Error(t, err)
}

func TestComputeLayoutRejectsNonPowerOfTwoBlockSize(t *testing.T) {
	opts := nilfs2.Options{
		BlockSize:        4000,
		BlocksPerSegment: 2048,
		ReservedPercent:  5,
		DeviceSize:       256 << 20,
	}
	_, err := nilfs2.ComputeLayout(opts)
	require.Error(t, err)
}

func TestComputeLayoutReservationFloor(t *testing.T) {
	opts := nilfs2.Options{
		BlockSize:        4096,
		BlocksPerSegment: 2048,
		ReservedPercent:  1,
		DeviceSize:       256 << 20,
	}
	layout, err := nilfs2.ComputeLayout(opts)
	require.NoError(t, err)
	require.GreaterOrEqual(t, layout.ReservedSegments, int64(1))
	require.LessOrEqual(t, layout.ReservedSegments+2, layout.Nsegments)
}

func TestComputeLayoutRejectsDeviceTooSmall(t *testing.T) {
	opts := nilfs2.Options{
		BlockSize:        4096,
		BlocksPerSegment: 2048,
		ReservedPercent:  5,
		DeviceSize:       1 << 20,
	}
	_, err := nilfs2.ComputeLayout(opts)
	require.Error(t, err)
}
