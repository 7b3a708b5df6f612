package core

import (
	"errors"
	"sort"

	"github.com/milk9111/scenekit/maths"
)

// ErrHierarchyCycle is returned by Update when following parent links
// never reaches a root. The re-sort is aborted and world matrices keep
// their previous values.
var ErrHierarchyCycle = errors.New("core: transform hierarchy contains a cycle")

// TransformManager maintains a forest of affine transforms. Local
// matrices live in a Packed allocator; the parent and world columns are
// kept index-aligned with the allocator's dense storage through every
// swap it performs. World matrices are recomputed by Update, which is the
// per-frame commit point for all structural changes.
//
// TransformManager is not safe for concurrent use.
type TransformManager struct {
	locals Packed[maths.Mat4]
	parent []Handle
	world  []maths.Mat4
	dirty  bool
}

func NewTransformManager() *TransformManager {
	return &TransformManager{}
}

// Create allocates a transform with the given local matrix and no parent.
func (tm *TransformManager) Create(local maths.Mat4) Handle {
	h := tm.locals.Add(local)
	if n := tm.locals.Len(); n > len(tm.parent) {
		tm.parent = append(tm.parent, Nil)
		tm.world = append(tm.world, maths.Identity())
	}
	tm.parent[tm.locals.Len()-1] = Nil
	tm.dirty = true
	return h
}

// Destroy removes a transform. Handles to it become permanently invalid;
// handles referencing it as a parent degrade to root behavior on the next
// Update. Returns false if h is stale.
//
// The allocator will relocate its last dense element into the freed
// position, so the parent and world columns have to perform the same swap
// first to keep describing the right logical transforms.
func (tm *TransformManager) Destroy(h Handle) bool {
	tm.dirty = true

	last := tm.locals.Len() - 1
	if index, ok := tm.locals.IndexOf(h); ok && index < last {
		tm.parent[index], tm.parent[last] = tm.parent[last], tm.parent[index]
		tm.world[index], tm.world[last] = tm.world[last], tm.world[index]
	}

	if !tm.locals.Remove(h) {
		return false
	}
	tm.parent = tm.parent[:last]
	tm.world = tm.world[:last]
	return true
}

// Local returns a pointer to the transform's local matrix, or nil if h is
// stale.
func (tm *TransformManager) Local(h Handle) *maths.Mat4 {
	return tm.locals.Get(h)
}

// SetLocal replaces the transform's local matrix. Returns false if h is
// stale. The change is visible in world matrices after the next Update.
func (tm *TransformManager) SetLocal(h Handle, m maths.Mat4) bool {
	t := tm.locals.Get(h)
	if t == nil {
		return false
	}
	*t = m
	return true
}

// SetParent attaches h under parent. Passing Nil detaches it. The parent
// handle is recorded as-is: it is not validated and no cycle check runs
// here; cycles surface as ErrHierarchyCycle from Update.
func (tm *TransformManager) SetParent(h, parent Handle) bool {
	tm.dirty = true
	index, ok := tm.locals.IndexOf(h)
	if !ok {
		return false
	}
	tm.parent[index] = parent
	return true
}

// Parent returns the recorded parent of h, or Nil if h is stale.
func (tm *TransformManager) Parent(h Handle) Handle {
	index, ok := tm.locals.IndexOf(h)
	if !ok {
		return Nil
	}
	return tm.parent[index]
}

// World returns a pointer to the transform's world matrix, or nil if h is
// stale. The value is only current as of the most recent Update.
func (tm *TransformManager) World(h Handle) *maths.Mat4 {
	index, ok := tm.locals.IndexOf(h)
	if !ok {
		return nil
	}
	return &tm.world[index]
}

// Len returns the number of live transforms.
func (tm *TransformManager) Len() int {
	return tm.locals.Len()
}

// Update commits structural changes and recomputes all world matrices.
// When the hierarchy changed since the last call, dense storage is first
// re-sorted so every transform appears after all of its ancestors; a
// single linear pass then computes world[i] = local[i] * world[parent].
// A transform whose parent handle is stale is treated as a root.
func (tm *TransformManager) Update() error {
	if tm.dirty {
		if err := tm.sortTransforms(); err != nil {
			return err
		}
		tm.dirty = false
	}

	locals := tm.locals.Data()
	for i := range locals {
		tm.world[i] = locals[i]
		if p, ok := tm.locals.IndexOf(tm.parent[i]); ok {
			tm.world[i] = tm.world[i].Mul(tm.world[p])
		}
	}
	return nil
}

type transformOrder struct {
	handle Handle
	parent Handle
	level  int
}

// sortTransforms reorders dense storage by hierarchy depth so parents
// always precede their children. The depth walk is bounded by the element
// count; exceeding it means the parent links form a cycle.
func (tm *TransformManager) sortTransforms() error {
	count := tm.locals.Len()
	ordered := make([]transformOrder, count)
	for i := 0; i < count; i++ {
		ordered[i] = transformOrder{handle: tm.locals.HandleAt(i), parent: tm.parent[i]}

		parent := tm.parent[i]
		for {
			index, ok := tm.locals.IndexOf(parent)
			if !ok {
				break
			}
			ordered[i].level++
			if ordered[i].level > count {
				return ErrHierarchyCycle
			}
			parent = tm.parent[index]
		}
	}

	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].level < ordered[b].level
	})

	for i := 0; i < count; i++ {
		tm.locals.Swap(tm.locals.HandleAt(i), ordered[i].handle)
		tm.parent[i] = ordered[i].parent
	}
	return nil
}
