package nilfs2

import (
	"fmt"
	"time"

	"github.com/nilfs2/gonilfs2/backend"
	"github.com/nilfs2/gonilfs2/util/timestamp"
)

func ambientCtime() time.Time {
	return timestamp.GetTime()
}

// Result summarizes a successful format, for callers that want to report
// progress (mkfs's non-quiet mode).
type Result struct {
	Layout *Layout
	Ctime  time.Time
}

// Create validates opts, computes the initial layout, assembles the
// initial segment, runs the checksum pass, and writes the result to
// store. It does not check the mount table or determine device size —
// callers (cmd/mkfs) do that first via CheckNotMounted/DeviceSize, since
// those require a path string the backend.Storage abstraction has
// already discarded. Grounded on filesystem/ext4/ext4.go's Create()
// control flow: validate inputs, compute layout, populate, write.
func Create(store backend.Storage, opts Options) (*Result, error) {
	if opts.DeviceSize <= 0 {
		return nil, fmt.Errorf("nilfs2: device size must be positive")
	}

	f, err := Assemble(opts)
	if err != nil {
		return nil, err
	}
	if err := f.Finalize(); err != nil {
		return nil, fmt.Errorf("nilfs2: finalize: %w", err)
	}
	if err := f.Write(store); err != nil {
		return nil, err
	}

	return &Result{Layout: f.Layout, Ctime: time.Unix(int64(f.ctime), 0).UTC()}, nil
}
