package nilfs2_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nilfs2/gonilfs2/nilfs2"
)

func TestDeviceSizeRegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "nilfs2-device-size-*")
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.Truncate(1<<20))

	size, err := nilfs2.DeviceSize(f.Name())
	require.NoError(t, err)
	require.Equal(t, int64(1<<20), size)
}

func TestDeviceSizeMissingPath(t *testing.T) {
	_, err := nilfs2.DeviceSize("/nonexistent/path/for/nilfs2/tests")
	require.Error(t, err)
}
