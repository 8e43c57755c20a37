package ioctlclient

// FakeClient is an in-memory Client double for tests, mirroring
// backend.Storage's test-double pattern.
type FakeClient struct {
	CpModes map[uint64]CpMode
	Cps     CpStat
	SuInfos []SuInfo

	ChangeCpModeErr error
	GetCpStatErr    error
	GetSuInfoErr    error
}

// NewFakeClient returns a FakeClient with empty state.
func NewFakeClient() *FakeClient {
	return &FakeClient{CpModes: make(map[uint64]CpMode)}
}

func (c *FakeClient) ChangeCpMode(cno uint64, mode CpMode) error {
	if c.ChangeCpModeErr != nil {
		return c.ChangeCpModeErr
	}
	if _, ok := c.CpModes[cno]; !ok {
		return ErrNoCheckpoint
	}
	c.CpModes[cno] = mode
	return nil
}

func (c *FakeClient) GetCpStat() (CpStat, error) {
	return c.Cps, c.GetCpStatErr
}

func (c *FakeClient) GetSuInfo(segnum uint64, out []SuInfo) (int, error) {
	if c.GetSuInfoErr != nil {
		return 0, c.GetSuInfoErr
	}
	n := 0
	for i := range out {
		idx := segnum + uint64(i)
		if idx >= uint64(len(c.SuInfos)) {
			out[i] = SuInfo{}
		} else {
			out[i] = c.SuInfos[idx]
		}
		n++
	}
	return n, nil
}

func (c *FakeClient) Nsegments() (uint64, error) {
	return uint64(len(c.SuInfos)), nil
}

func (c *FakeClient) Close() error { return nil }
