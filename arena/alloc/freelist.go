package alloc

import (
	"fmt"

	"github.com/joshuapare/arenakit/internal/format"
)

// The free list is intrusive: each free block's header holds the Ref of its
// successor, and the allocator keeps only the head. Insertion is at the head,
// so list order reflects insertion history, not address order. The list
// threads free blocks of every registered arena.

// pushFree puts ref at the head of the free list. The block's header must
// already carry the free flag.
func (al *Allocator) pushFree(ref Ref) {
	data := al.arenas[ref.ArenaID()].Bytes()
	off := format.HeaderOf(ref.Offset())
	format.PutU64(data, off+format.HdrNextOffset, uint64(al.freeHead))
	al.freeHead = ref
}

// unlink removes the list node after prev (or the head when prev is NilRef),
// splicing in next.
func (al *Allocator) unlink(prev Ref, next uint64) {
	if prev == NilRef {
		al.freeHead = Ref(next)
		return
	}
	data := al.arenas[prev.ArenaID()].Bytes()
	format.PutU64(data, format.HeaderOf(prev.Offset())+format.HdrNextOffset, next)
}

// removeRef unlinks ref wherever it sits. The list is singly linked, so
// removing an arbitrary node (a coalesced neighbor) needs a walk.
func (al *Allocator) removeRef(ref Ref) bool {
	var prev Ref
	for cur := al.freeHead; cur != NilRef; {
		ar, ok := al.arenas[cur.ArenaID()]
		if !ok {
			return false
		}
		next := format.ReadU64(ar.Bytes(), format.HeaderOf(cur.Offset())+format.HdrNextOffset)
		if cur == ref {
			al.unlink(prev, next)
			return true
		}
		prev = cur
		cur = Ref(next)
	}
	return false
}

// findFit traverses the list in insertion order and returns the first block
// whose payload capacity satisfies need, plus its predecessor for unlinking.
// First fit: the earliest visited qualifying block wins. A list node that no
// longer decodes as a free block is reported as corruption rather than
// treated as the end of the list.
func (al *Allocator) findFit(need uint32) (ref, prev Ref, err error) {
	for cur := al.freeHead; cur != NilRef; {
		ar, ok := al.arenas[cur.ArenaID()]
		if !ok {
			return NilRef, NilRef, fmt.Errorf("%w: free list references unknown arena %d",
				ErrCorrupt, cur.ArenaID())
		}
		hdr, err := format.ReadHeader(ar.Bytes(), format.HeaderOf(cur.Offset()))
		if err != nil {
			return NilRef, NilRef, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if hdr.Size >= need {
			return cur, prev, nil
		}
		prev = cur
		cur = Ref(hdr.Next)
	}
	return NilRef, NilRef, nil
}

// walkFree visits every free block in list order.
func (al *Allocator) walkFree(fn func(ref Ref, size uint32)) {
	for cur := al.freeHead; cur != NilRef; {
		ar, ok := al.arenas[cur.ArenaID()]
		if !ok {
			return
		}
		hdr, err := format.ReadHeader(ar.Bytes(), format.HeaderOf(cur.Offset()))
		if err != nil {
			return
		}
		fn(cur, hdr.Size)
		cur = Ref(hdr.Next)
	}
}
