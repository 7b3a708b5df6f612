package core

import "strconv"

// Handle is a stable reference to an element owned by a Packed allocator.
// It stays valid across internal storage moves and becomes permanently
// invalid once the element it refers to is removed.
type Handle struct {
	Index      uint32
	Generation uint32
}

const nilIndex = ^uint32(0)

// Nil is the null handle. It never resolves to an element and doubles as
// the "no parent" marker in the transform hierarchy.
var Nil = Handle{Index: nilIndex}

// IsNil reports whether h is the null handle.
func (h Handle) IsNil() bool {
	return h.Index == nilIndex
}

func (h Handle) String() string {
	if h.IsNil() {
		return "handle(nil)"
	}
	return "handle(" + strconv.FormatUint(uint64(h.Index), 10) + ":" + strconv.FormatUint(uint64(h.Generation), 10) + ")"
}
