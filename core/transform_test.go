package core

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/scenekit/maths"
)

const eps = 1e-5

func nearVec3(a, b maths.Vec3) bool {
	return math.Abs(float64(a.X-b.X)) < eps &&
		math.Abs(float64(a.Y-b.Y)) < eps &&
		math.Abs(float64(a.Z-b.Z)) < eps
}

func translate(x, y, z float32) maths.Mat4 {
	return maths.Translation(maths.V3(x, y, z))
}

func TestChainPropagation(t *testing.T) {
	tm := NewTransformManager()

	a := tm.Create(translate(1, 0, 0))
	b := tm.Create(translate(0, 1, 0))
	c := tm.Create(translate(0, 0, 1))
	tm.SetParent(b, a)
	tm.SetParent(c, b)

	if err := tm.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	cases := []struct {
		name string
		h    Handle
		want maths.Vec3
	}{
		{"root", a, maths.V3(1, 0, 0)},
		{"child", b, maths.V3(1, 1, 0)},
		{"grandchild", c, maths.V3(1, 1, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := tm.World(tc.h)
			if w == nil {
				t.Fatal("World returned nil for live transform")
			}
			if !nearVec3(w.Translation(), tc.want) {
				t.Fatalf("world translation = %v, want %v", w.Translation(), tc.want)
			}
		})
	}
}

func TestChildrenCreatedBeforeParents(t *testing.T) {
	// creation order deliberately inverted relative to hierarchy depth to
	// force the re-sort to move things around
	tm := NewTransformManager()
	c := tm.Create(translate(0, 0, 1))
	b := tm.Create(translate(0, 1, 0))
	a := tm.Create(translate(1, 0, 0))
	tm.SetParent(c, b)
	tm.SetParent(b, a)

	if err := tm.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := tm.World(c).Translation(); !nearVec3(got, maths.V3(1, 1, 1)) {
		t.Fatalf("grandchild world = %v, want (1,1,1)", got)
	}
}

func TestSetParentAppliesOnNextUpdate(t *testing.T) {
	tm := NewTransformManager()
	a := tm.Create(translate(5, 0, 0))
	b := tm.Create(translate(1, 0, 0))
	if err := tm.Update(); err != nil {
		t.Fatal(err)
	}

	before := tm.World(b).Translation()
	tm.SetParent(b, a)
	if got := tm.World(b).Translation(); !nearVec3(got, before) {
		t.Fatalf("SetParent changed world matrix before Update: %v", got)
	}

	if err := tm.Update(); err != nil {
		t.Fatal(err)
	}
	if got := tm.World(b).Translation(); !nearVec3(got, maths.V3(6, 0, 0)) {
		t.Fatalf("world after Update = %v, want (6,0,0)", got)
	}
}

func TestDestroyKeepsColumnsAligned(t *testing.T) {
	cases := []struct {
		name    string
		destroy int // index into creation order
	}{
		{"first", 0},
		{"middle", 2},
		{"last", 4},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tm := NewTransformManager()
			root := tm.Create(translate(10, 0, 0))
			handles := make([]Handle, 0, 5)
			for i := 0; i < 5; i++ {
				h := tm.Create(translate(float32(i), 0, 0))
				tm.SetParent(h, root)
				handles = append(handles, h)
			}

			if !tm.Destroy(handles[c.destroy]) {
				t.Fatal("Destroy failed for live transform")
			}
			if tm.World(handles[c.destroy]) != nil {
				t.Fatal("destroyed handle still resolves a world matrix")
			}

			if err := tm.Update(); err != nil {
				t.Fatalf("Update failed: %v", err)
			}
			for i, h := range handles {
				if i == c.destroy {
					continue
				}
				want := maths.V3(10+float32(i), 0, 0)
				if got := tm.World(h).Translation(); !nearVec3(got, want) {
					t.Fatalf("survivor %d world = %v, want %v", i, got, want)
				}
				if tm.Parent(h) != root {
					t.Fatalf("survivor %d lost its parent after destroy", i)
				}
			}
		})
	}
}

func TestDanglingParentFallsBackToLocal(t *testing.T) {
	tm := NewTransformManager()
	parent := tm.Create(translate(7, 0, 0))
	child := tm.Create(translate(1, 2, 3))
	tm.SetParent(child, parent)
	if err := tm.Update(); err != nil {
		t.Fatal(err)
	}

	if !tm.Destroy(parent) {
		t.Fatal("Destroy failed")
	}
	if err := tm.Update(); err != nil {
		t.Fatalf("Update should tolerate dangling parents: %v", err)
	}
	if got := tm.World(child).Translation(); !nearVec3(got, maths.V3(1, 2, 3)) {
		t.Fatalf("orphan world = %v, want its local translation", got)
	}
	if tm.Parent(child) != parent {
		t.Fatal("stored parent handle should survive as-is, just stale")
	}
}

func TestDestroyedParentScenario(t *testing.T) {
	tm := NewTransformManager()
	handles := make([]Handle, 5)
	for i := range handles {
		handles[i] = tm.Create(translate(float32(i+1), 0, 0))
	}
	tm.SetParent(handles[2], handles[1])
	tm.SetParent(handles[3], handles[1])

	if !tm.Destroy(handles[1]) {
		t.Fatal("Destroy failed")
	}
	if err := tm.Update(); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if tm.Len() != 4 {
		t.Fatalf("expected 4 transforms, got %d", tm.Len())
	}
	// 2 and 3 behave as roots now
	if got := tm.World(handles[2]).Translation(); !nearVec3(got, maths.V3(3, 0, 0)) {
		t.Fatalf("transform 2 world = %v, want (3,0,0)", got)
	}
	if got := tm.World(handles[3]).Translation(); !nearVec3(got, maths.V3(4, 0, 0)) {
		t.Fatalf("transform 3 world = %v, want (4,0,0)", got)
	}
}

func TestSetLocalAndAccessors(t *testing.T) {
	tm := NewTransformManager()
	h := tm.Create(maths.Identity())

	if !tm.SetLocal(h, translate(2, 0, 0)) {
		t.Fatal("SetLocal failed for live handle")
	}
	if got := tm.Local(h); got == nil || !nearVec3(got.Translation(), maths.V3(2, 0, 0)) {
		t.Fatalf("Local = %v", got)
	}

	if tm.SetLocal(Nil, maths.Identity()) {
		t.Fatal("SetLocal should fail for Nil")
	}
	if tm.Local(Nil) != nil || tm.World(Nil) != nil {
		t.Fatal("accessors should return nil for Nil")
	}
	if tm.Parent(Nil) != Nil {
		t.Fatal("Parent of an invalid handle should be Nil")
	}
	if tm.Destroy(Nil) {
		t.Fatal("Destroy of Nil should fail")
	}
}

func TestCycleDetection(t *testing.T) {
	cases := []struct {
		name string
		link func(tm *TransformManager, a, b, c Handle)
	}{
		{"self", func(tm *TransformManager, a, _, _ Handle) {
			tm.SetParent(a, a)
		}},
		{"two_node", func(tm *TransformManager, a, b, _ Handle) {
			tm.SetParent(a, b)
			tm.SetParent(b, a)
		}},
		{"three_node", func(tm *TransformManager, a, b, c Handle) {
			tm.SetParent(a, b)
			tm.SetParent(b, c)
			tm.SetParent(c, a)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tm := NewTransformManager()
			a := tm.Create(translate(1, 0, 0))
			b := tm.Create(translate(0, 1, 0))
			c := tm.Create(translate(0, 0, 1))
			tc.link(tm, a, b, c)

			if err := tm.Update(); !errors.Is(err, ErrHierarchyCycle) {
				t.Fatalf("Update = %v, want ErrHierarchyCycle", err)
			}

			// breaking the cycle makes the manager usable again
			tm.SetParent(a, Nil)
			tm.SetParent(b, Nil)
			tm.SetParent(c, Nil)
			if err := tm.Update(); err != nil {
				t.Fatalf("Update after breaking the cycle: %v", err)
			}
		})
	}
}
