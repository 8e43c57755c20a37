package mounttab

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSixFieldLines(t *testing.T) {
	data := "/dev/sda1 / ext4 rw,relatime 0 1\n/dev/sdb1 /mnt/data nilfs2 rw,gcpid=123 0 2\n"
	entries, err := Parse(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "/dev/sda1", entries[0].Device)
	require.Equal(t, "/mnt/data", entries[1].MountPoint)
	require.Equal(t, "nilfs2", entries[1].FSType)
}

func TestParseSkipsMalformedLines(t *testing.T) {
	data := "not enough fields\n/dev/sdb1 /mnt/data nilfs2 rw 0 2\n"
	entries, err := Parse(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestIsMounted(t *testing.T) {
	entries := []Entry{{Device: "/dev/sdb1", MountPoint: "/mnt/data"}}
	require.True(t, IsMounted(entries, "/dev/sdb1"))
	require.False(t, IsMounted(entries, "/dev/sdc1"))
}
