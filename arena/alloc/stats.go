package alloc

// Stats is a snapshot of allocator counters, for testing and instrumentation.
type Stats struct {
	AllocCalls     int   // Total Allocate() calls
	FreeCalls      int   // Total Deallocate() calls
	BytesAllocated int64 // Total payload bytes handed out
	BytesFreed     int64 // Total payload bytes returned

	SplitCount       int // Free blocks split during allocation
	CoalesceForward  int // Forward merges during deallocation
	CoalesceBackward int // Backward merges during deallocation

	ArenasMapped   int   // Arenas acquired from the OS
	ArenasReleased int   // Arenas returned to the OS
	GrowBytes      int64 // Total region bytes mapped

	// Live state, computed at snapshot time.
	LiveArenas int   // Arenas currently registered
	LiveBlocks int   // Blocks across all live arenas
	FreeBlocks int   // Blocks on the free list
	FreeBytes  int64 // Payload capacity on the free list
}

// Stats returns a snapshot of the allocator's counters plus its live state.
func (al *Allocator) Stats() Stats {
	al.mu.Lock()
	defer al.mu.Unlock()

	s := al.stats
	s.LiveArenas = len(al.arenas)
	for _, ar := range al.arenas {
		s.LiveBlocks += int(ar.BlockCount())
	}
	al.walkFree(func(_ Ref, size uint32) {
		s.FreeBlocks++
		s.FreeBytes += int64(size)
	})
	return s
}
