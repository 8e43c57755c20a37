package mountopts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSplitsFlagsAndResidual(t *testing.T) {
	flags, residual := Parse("ro,sync,noatime")
	require.Equal(t, MSRdonly, flags)
	require.Equal(t, "sync,noatime", residual)
}

func TestParseEmpty(t *testing.T) {
	flags, residual := Parse("")
	require.Equal(t, uint64(0), flags)
	require.Equal(t, "", residual)
}

func TestWithGcpidAndFindGcpid(t *testing.T) {
	extra := WithGcpid("sync", 4242)
	pid, ok := FindGcpid(extra)
	require.True(t, ok)
	require.Equal(t, 4242, pid)

	extra2 := WithGcpid(extra, 99)
	pid2, ok := FindGcpid(extra2)
	require.True(t, ok)
	require.Equal(t, 99, pid2)
	require.NotContains(t, extra2, "4242")
}

func TestRemoveGcpid(t *testing.T) {
	extra := RemoveGcpid("sync,gcpid=123,noatime")
	require.Equal(t, "sync,noatime", extra)
}
