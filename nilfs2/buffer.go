package nilfs2

import "fmt"

// bufferPool is a sparse, block-indexed, in-memory mirror of every disk
// block the formatter will write. Blocks are lazily materialized on first
// touch, mirroring mkfs.c's disk_buffer/map_disk_buffer: the caller never
// deals with raw file offsets, only block numbers.
type bufferPool struct {
	blockSize  int64
	totalBlocks int64
	blocks     map[int64][]byte
}

func newBufferPool(blockSize, totalBlocks int64) *bufferPool {
	return &bufferPool{
		blockSize:   blockSize,
		totalBlocks: totalBlocks,
		blocks:      make(map[int64][]byte),
	}
}

// get returns the buffer for blocknr, allocating and zero-filling it on
// first access.
func (p *bufferPool) get(blocknr int64) ([]byte, error) {
	if blocknr < 0 || blocknr >= p.totalBlocks {
		return nil, fmt.Errorf("nilfs2: block %d out of bounds (total %d)", blocknr, p.totalBlocks)
	}
	b, ok := p.blocks[blocknr]
	if !ok {
		b = make([]byte, p.blockSize)
		p.blocks[blocknr] = b
	}
	return b, nil
}

// sortedBlockNumbers returns every materialized block number, ascending.
func (p *bufferPool) sortedBlockNumbers() []int64 {
	nums := make([]int64, 0, len(p.blocks))
	for k := range p.blocks {
		nums = append(nums, k)
	}
	// insertion sort is fine: the pool holds at most a few hundred blocks
	for i := 1; i < len(nums); i++ {
		for j := i; j > 0 && nums[j-1] > nums[j]; j-- {
			nums[j-1], nums[j] = nums[j], nums[j-1]
		}
	}
	return nums
}
