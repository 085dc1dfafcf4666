package memory

import (
	"fmt"
	"sync"

	"github.com/vuk-go/vuk/device"
)

// PoolConfig configures the GPU memory allocator, mirroring the
// teacher's AllocatorConfig.
type PoolConfig struct {
	BlockSize          uint64 // default 64MB, power of 2
	MinAllocationSize  uint64 // default 256B, power of 2
	DedicatedThreshold uint64 // default 32MB
	MaxBlocksPerHeap   int    // default 8
}

// DefaultPoolConfig returns the teacher's defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		BlockSize:          64 << 20,
		MinAllocationSize:  256,
		DedicatedThreshold: 32 << 20,
		MaxBlocksPerHeap:   8,
	}
}

// MemoryType mirrors one entry of VkPhysicalDeviceMemoryProperties.
type MemoryType struct {
	DeviceLocal  bool
	HostVisible  bool
	HostCoherent bool
	HostCached   bool
	HeapIndex    uint32
}

// DeviceMemoryProperties is the queried memory layout of a physical
// device, supplied by the caller (vkdevice.New) after
// vkGetPhysicalDeviceMemoryProperties.
type DeviceMemoryProperties struct {
	MemoryTypes []MemoryType
	HeapSizes   []uint64
}

type poolBlock struct {
	memory uint64 // VkDeviceMemory
	buddy  *BuddyAllocator
}

// Pool manages allocations for a single Vulkan memory type.
type Pool struct {
	memoryTypeIndex uint32
	blockSize       uint64
	minAllocSize    uint64
	maxBlocks       int
	blocks          []*poolBlock
}

// Block is a bound region of VkDeviceMemory returned by Allocator.Alloc.
type Block struct {
	Memory          uint64
	Offset          uint64
	Size            uint64
	MemoryTypeIndex uint32
	Dedicated       bool
	MappedPtr       []byte

	buddyBlock *BuddyBlock
}

// AllocFunc performs the underlying vkAllocateMemory call for size
// bytes of memTypeIndex, returning the raw VkDeviceMemory handle.
type AllocFunc func(size uint64, memTypeIndex uint32) (uint64, error)

// FreeFunc performs vkFreeMemory.
type FreeFunc func(memory uint64)

// Allocator is the GPU memory allocator backing vkdevice's
// device.Resource implementation: small/medium requests suballocate
// from a per-memory-type buddy pool, large requests get a dedicated
// VkDeviceMemory (spec.md C4).
type Allocator struct {
	mu sync.Mutex

	config PoolConfig
	props  DeviceMemoryProperties
	alloc  AllocFunc
	free   FreeFunc

	pools     []*Pool
	dedicated map[uint64]*Block
}

// NewAllocator builds an Allocator over props using allocFn/freeFn to
// perform the actual Vulkan calls.
func NewAllocator(props DeviceMemoryProperties, config PoolConfig, allocFn AllocFunc, freeFn FreeFunc) (*Allocator, error) {
	if !isPowerOfTwo(config.BlockSize) || !isPowerOfTwo(config.MinAllocationSize) {
		return nil, fmt.Errorf("memory: BlockSize and MinAllocationSize must be powers of 2")
	}
	if config.MinAllocationSize > config.BlockSize {
		return nil, fmt.Errorf("memory: MinAllocationSize (%d) > BlockSize (%d)", config.MinAllocationSize, config.BlockSize)
	}

	pools := make([]*Pool, len(props.MemoryTypes))
	for i := range props.MemoryTypes {
		pools[i] = &Pool{
			memoryTypeIndex: uint32(i),
			blockSize:       config.BlockSize,
			minAllocSize:    config.MinAllocationSize,
			maxBlocks:       config.MaxBlocksPerHeap,
		}
	}

	return &Allocator{
		config:    config,
		props:     props,
		alloc:     allocFn,
		free:      freeFn,
		pools:     pools,
		dedicated: make(map[uint64]*Block),
	}, nil
}

// Alloc reserves size bytes suitable for usage, returning a bound
// Block. Allocations at or above DedicatedThreshold bypass pooling.
func (a *Allocator) Alloc(size uint64, usage device.MemoryUsage, typeBits uint32) (*Block, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	memTypeIndex, ok := a.selectMemoryType(usage, typeBits)
	if !ok {
		return nil, fmt.Errorf("memory: no memory type satisfies usage %v (typeBits %#x)", usage, typeBits)
	}

	if size%a.config.MinAllocationSize != 0 {
		size = ((size / a.config.MinAllocationSize) + 1) * a.config.MinAllocationSize
	}

	if size >= a.config.DedicatedThreshold {
		return a.allocDedicated(size, memTypeIndex)
	}
	return a.allocPooled(size, memTypeIndex)
}

func (a *Allocator) allocDedicated(size uint64, memTypeIndex uint32) (*Block, error) {
	mem, err := a.alloc(size, memTypeIndex)
	if err != nil {
		return nil, err
	}
	block := &Block{Memory: mem, Size: size, MemoryTypeIndex: memTypeIndex, Dedicated: true}
	a.dedicated[mem] = block
	return block, nil
}

func (a *Allocator) allocPooled(size uint64, memTypeIndex uint32) (*Block, error) {
	pool := a.pools[memTypeIndex]

	for _, pb := range pool.blocks {
		if bb, err := pb.buddy.Alloc(size); err == nil {
			return &Block{Memory: pb.memory, Offset: bb.Offset, Size: bb.Size, MemoryTypeIndex: memTypeIndex, buddyBlock: &bb}, nil
		}
	}

	if len(pool.blocks) >= pool.maxBlocks {
		return a.allocDedicated(size, memTypeIndex)
	}

	mem, err := a.alloc(pool.blockSize, memTypeIndex)
	if err != nil {
		return nil, err
	}
	buddy, err := NewBuddyAllocator(pool.blockSize, pool.minAllocSize)
	if err != nil {
		a.free(mem)
		return nil, err
	}
	pb := &poolBlock{memory: mem, buddy: buddy}
	pool.blocks = append(pool.blocks, pb)

	bb, err := buddy.Alloc(size)
	if err != nil {
		return nil, err
	}
	return &Block{Memory: mem, Offset: bb.Offset, Size: bb.Size, MemoryTypeIndex: memTypeIndex, buddyBlock: &bb}, nil
}

// Free releases block.
func (a *Allocator) Free(block *Block) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if block.Dedicated {
		if _, ok := a.dedicated[block.Memory]; !ok {
			return fmt.Errorf("memory: unknown dedicated block")
		}
		a.free(block.Memory)
		delete(a.dedicated, block.Memory)
		return nil
	}

	pool := a.pools[block.MemoryTypeIndex]
	for _, pb := range pool.blocks {
		if pb.memory != block.Memory {
			continue
		}
		return pb.buddy.Free(*block.buddyBlock)
	}
	return fmt.Errorf("memory: unknown pooled block")
}

// selectMemoryType picks a memory type index matching typeBits (the
// VkMemoryRequirements mask) and the property flags implied by usage,
// preferring device-local and falling back to host-visible when usage
// demands host access.
func (a *Allocator) selectMemoryType(usage device.MemoryUsage, typeBits uint32) (uint32, bool) {
	wantHostVisible := usage != device.MemoryUsageGPUOnly

	for i, mt := range a.props.MemoryTypes {
		if typeBits&(1<<uint32(i)) == 0 {
			continue
		}
		if wantHostVisible && !mt.HostVisible {
			continue
		}
		if !wantHostVisible && !mt.DeviceLocal {
			continue
		}
		return uint32(i), true
	}

	// Relaxed fallback: any type matching typeBits.
	for i := range a.props.MemoryTypes {
		if typeBits&(1<<uint32(i)) != 0 {
			return uint32(i), true
		}
	}
	return 0, false
}

// Destroy releases every outstanding allocation. Call before destroying
// the Vulkan device.
func (a *Allocator) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for mem := range a.dedicated {
		a.free(mem)
	}
	a.dedicated = make(map[uint64]*Block)

	for _, pool := range a.pools {
		for _, pb := range pool.blocks {
			a.free(pb.memory)
		}
		pool.blocks = nil
	}
}
