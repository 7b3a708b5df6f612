package physics

import (
	"testing"

	"github.com/milk9111/scenekit/core"
	"github.com/milk9111/scenekit/maths"
)

func step(w *World, tm *core.TransformManager, seconds float64) {
	const dt = 1.0 / 60.0
	for t := 0.0; t < seconds; t += dt {
		w.Step(dt, tm)
	}
}

func TestBodyFalls(t *testing.T) {
	tm := core.NewTransformManager()
	h := tm.Create(maths.Translation(maths.V3(0, 10, 0)))

	w := NewWorld(DefaultGravity)
	w.AttachBox(h, maths.V3(0, 10, 0), 1, 1, 1)

	step(w, tm, 1)
	if err := tm.Update(); err != nil {
		t.Fatal(err)
	}
	got := tm.World(h).Translation()
	if got.Y >= 10 {
		t.Fatalf("body did not fall, y=%v", got.Y)
	}
}

func TestBodyRestsOnGround(t *testing.T) {
	tm := core.NewTransformManager()
	h := tm.Create(maths.Translation(maths.V3(0, 5, 0)))

	w := NewWorld(DefaultGravity)
	w.AddGround(0, -10, 10)
	w.AttachBox(h, maths.V3(0, 5, 0), 1, 1, 1)

	step(w, tm, 5)
	if err := tm.Update(); err != nil {
		t.Fatal(err)
	}
	got := tm.World(h).Translation()
	// box half-height 0.5 plus segment radius
	if got.Y < 0 || got.Y > 2 {
		t.Fatalf("body should rest near the ground, y=%v", got.Y)
	}
}

func TestZPreserved(t *testing.T) {
	tm := core.NewTransformManager()
	h := tm.Create(maths.Translation(maths.V3(0, 10, 3)))

	w := NewWorld(DefaultGravity)
	w.AttachBox(h, maths.V3(0, 10, 3), 1, 1, 1)

	step(w, tm, 0.5)
	if err := tm.Update(); err != nil {
		t.Fatal(err)
	}
	if got := tm.World(h).Translation().Z; got != 3 {
		t.Fatalf("z drifted to %v, want 3", got)
	}
}

func TestStaleHandleDropped(t *testing.T) {
	tm := core.NewTransformManager()
	h := tm.Create(maths.Identity())

	w := NewWorld(DefaultGravity)
	w.AttachBox(h, maths.Vec3Zero, 1, 1, 1)
	tm.Destroy(h)

	// must not panic; the binding disappears
	w.Step(1.0/60.0, tm)
	if len(w.bodies) != 0 {
		t.Fatalf("expected stale binding to be dropped, %d left", len(w.bodies))
	}
}

func TestDetach(t *testing.T) {
	tm := core.NewTransformManager()
	h := tm.Create(maths.Identity())

	w := NewWorld(DefaultGravity)
	w.AttachBox(h, maths.Vec3Zero, 1, 1, 1)
	w.Detach(h)

	w.Step(1.0/60.0, tm)
	if got := tm.Local(h).Translation(); got != maths.Vec3Zero {
		t.Fatalf("detached body still drives transform: %v", got)
	}
}
