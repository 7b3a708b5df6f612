package core

// slot maps a logical index to the element's current dense position.
type slot struct {
	dense      uint32
	generation uint32
	occupied   bool
}

// Packed is a generation-checked allocator that stores elements of one
// type in a dense, gap-free slice. Add and Remove are O(1); removal swaps
// the victim with the last element so iteration stays cache-friendly.
// Handles issued by Add remain valid across every internal move until the
// element is removed, after which they are rejected by a generation check.
//
// Packed is not safe for concurrent use.
type Packed[T any] struct {
	dense   []T
	handles []Handle // handle of the element at each dense position
	slots   []slot
	free    []uint32
}

// Add appends an element and returns its handle. It always succeeds.
func (p *Packed[T]) Add(value T) Handle {
	var index uint32
	if n := len(p.free); n > 0 {
		index = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		index = uint32(len(p.slots))
		p.slots = append(p.slots, slot{})
	}

	s := &p.slots[index]
	s.dense = uint32(len(p.dense))
	s.occupied = true

	h := Handle{Index: index, Generation: s.generation}
	p.dense = append(p.dense, value)
	p.handles = append(p.handles, h)
	return h
}

// Remove deletes the element referenced by h. It returns false if h is
// stale or out of range. The last dense element is swapped into the freed
// position, the removed slot's generation is bumped, and its logical index
// goes back on the free list.
func (p *Packed[T]) Remove(h Handle) bool {
	if !p.valid(h) {
		return false
	}

	at := p.slots[h.Index].dense
	last := uint32(len(p.dense) - 1)
	if at != last {
		p.dense[at] = p.dense[last]
		p.handles[at] = p.handles[last]
		p.slots[p.handles[at].Index].dense = at
	}

	var zero T
	p.dense[last] = zero
	p.dense = p.dense[:last]
	p.handles = p.handles[:last]

	s := &p.slots[h.Index]
	s.occupied = false
	s.generation++
	p.free = append(p.free, h.Index)
	return true
}

// Get returns a pointer to the element referenced by h, or nil if h is
// stale or out of range. The pointer is only good until the next
// structural mutation.
func (p *Packed[T]) Get(h Handle) *T {
	if !p.valid(h) {
		return nil
	}
	return &p.dense[p.slots[h.Index].dense]
}

// IndexOf returns the dense position of the element referenced by h.
func (p *Packed[T]) IndexOf(h Handle) (int, bool) {
	if !p.valid(h) {
		return 0, false
	}
	return int(p.slots[h.Index].dense), true
}

// HandleAt returns the handle of the element at dense position i, or Nil
// if i is out of range.
func (p *Packed[T]) HandleAt(i int) Handle {
	if i < 0 || i >= len(p.handles) {
		return Nil
	}
	return p.handles[i]
}

// Swap exchanges the dense positions of the two referenced elements.
// Both handles stay valid. Returns false if either handle is stale.
func (p *Packed[T]) Swap(a, b Handle) bool {
	if !p.valid(a) || !p.valid(b) {
		return false
	}
	if a == b {
		return true
	}

	ia := p.slots[a.Index].dense
	ib := p.slots[b.Index].dense
	p.dense[ia], p.dense[ib] = p.dense[ib], p.dense[ia]
	p.handles[ia], p.handles[ib] = p.handles[ib], p.handles[ia]
	p.slots[a.Index].dense = ib
	p.slots[b.Index].dense = ia
	return true
}

// Len returns the number of live elements.
func (p *Packed[T]) Len() int {
	return len(p.dense)
}

// Data returns the dense backing slice. The view is only good until the
// next Add, Remove, or Swap.
func (p *Packed[T]) Data() []T {
	return p.dense
}

func (p *Packed[T]) valid(h Handle) bool {
	if p == nil || h.Index == nilIndex || int(h.Index) >= len(p.slots) {
		return false
	}
	s := p.slots[h.Index]
	return s.occupied && s.generation == h.Generation
}
