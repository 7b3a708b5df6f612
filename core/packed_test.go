package core

import "testing"

func TestPackedAddGetRoundtrip(t *testing.T) {
	cases := []struct {
		name   string
		values []string
	}{
		{"single", []string{"a"}},
		{"several", []string{"a", "b", "c", "d"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var p Packed[string]
			handles := make([]Handle, 0, len(c.values))
			for _, v := range c.values {
				handles = append(handles, p.Add(v))
			}
			if p.Len() != len(c.values) {
				t.Fatalf("expected %d elements, got %d", len(c.values), p.Len())
			}
			for i, h := range handles {
				got := p.Get(h)
				if got == nil {
					t.Fatalf("Get(%v) returned nil for live element", h)
				}
				if *got != c.values[i] {
					t.Fatalf("Get(%v) = %q, want %q", h, *got, c.values[i])
				}
			}
		})
	}
}

func TestPackedRemoveInvalidatesHandle(t *testing.T) {
	var p Packed[int]
	a := p.Add(1)
	b := p.Add(2)

	if !p.Remove(a) {
		t.Fatal("Remove should succeed for a live handle")
	}
	if p.Get(a) != nil {
		t.Fatal("Get should return nil after Remove")
	}
	if p.Remove(a) {
		t.Fatal("second Remove of the same handle should fail")
	}

	// the freed logical slot gets reused; the old handle must stay dead
	c := p.Add(3)
	if p.Get(a) != nil {
		t.Fatal("stale handle revived by slot reuse")
	}
	if got := p.Get(c); got == nil || *got != 3 {
		t.Fatalf("new element unreadable after reuse, got %v", got)
	}
	if got := p.Get(b); got == nil || *got != 2 {
		t.Fatalf("unrelated element disturbed by remove, got %v", got)
	}
}

func TestPackedStaysDense(t *testing.T) {
	cases := []struct {
		name    string
		add     int
		remove  []int // indices into the issued handle list
		survive int
	}{
		{"remove_first", 5, []int{0}, 4},
		{"remove_middle", 5, []int{2}, 4},
		{"remove_last", 5, []int{4}, 4},
		{"remove_several", 6, []int{1, 3, 5}, 3},
		{"remove_all", 3, []int{0, 1, 2}, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var p Packed[int]
			handles := make([]Handle, 0, c.add)
			for i := 0; i < c.add; i++ {
				handles = append(handles, p.Add(i*10))
			}
			removed := make(map[int]bool)
			for _, i := range c.remove {
				if !p.Remove(handles[i]) {
					t.Fatalf("Remove of handle %d failed", i)
				}
				removed[i] = true
			}

			if p.Len() != c.survive {
				t.Fatalf("expected %d survivors, got %d", c.survive, p.Len())
			}
			if len(p.Data()) != c.survive {
				t.Fatalf("dense view has %d entries, want %d", len(p.Data()), c.survive)
			}

			seen := make(map[int]bool)
			for _, v := range p.Data() {
				if seen[v] {
					t.Fatalf("dense view visited %d twice", v)
				}
				seen[v] = true
			}
			for i, h := range handles {
				got := p.Get(h)
				if removed[i] {
					if got != nil {
						t.Fatalf("removed handle %d still resolves", i)
					}
					continue
				}
				if got == nil || *got != i*10 {
					t.Fatalf("survivor %d unreadable, got %v", i, got)
				}
			}
		})
	}
}

func TestPackedIndexTranslation(t *testing.T) {
	var p Packed[int]
	a := p.Add(1)
	b := p.Add(2)

	ia, ok := p.IndexOf(a)
	if !ok {
		t.Fatal("IndexOf failed for live handle")
	}
	if got := p.HandleAt(ia); got != a {
		t.Fatalf("HandleAt(IndexOf(a)) = %v, want %v", got, a)
	}

	if got := p.HandleAt(-1); got != Nil {
		t.Fatalf("HandleAt(-1) = %v, want Nil", got)
	}
	if got := p.HandleAt(p.Len()); got != Nil {
		t.Fatalf("HandleAt(Len) = %v, want Nil", got)
	}

	p.Remove(a)
	if _, ok := p.IndexOf(a); ok {
		t.Fatal("IndexOf should fail for a removed handle")
	}
	// b moved into a's dense position
	ib, ok := p.IndexOf(b)
	if !ok || ib != 0 {
		t.Fatalf("expected b at dense position 0 after swap-with-last, got %d ok=%v", ib, ok)
	}
}

func TestPackedSwap(t *testing.T) {
	var p Packed[int]
	a := p.Add(1)
	b := p.Add(2)
	c := p.Add(3)

	if !p.Swap(a, c) {
		t.Fatal("Swap of two live handles failed")
	}
	for _, tc := range []struct {
		h    Handle
		want int
	}{{a, 1}, {b, 2}, {c, 3}} {
		got := p.Get(tc.h)
		if got == nil || *got != tc.want {
			t.Fatalf("handle resolution broken after Swap: got %v, want %d", got, tc.want)
		}
	}
	ia, _ := p.IndexOf(a)
	ic, _ := p.IndexOf(c)
	if ia != 2 || ic != 0 {
		t.Fatalf("dense positions not exchanged: a=%d c=%d", ia, ic)
	}

	p.Remove(b)
	if p.Swap(a, b) {
		t.Fatal("Swap with a stale handle should fail")
	}
	if !p.Swap(a, a) {
		t.Fatal("Swap of a handle with itself should be a valid no-op")
	}
}

func TestPackedTotalOnBadInput(t *testing.T) {
	var p Packed[int]
	h := p.Add(1)

	bad := []struct {
		name string
		h    Handle
	}{
		{"nil", Nil},
		{"out_of_range", Handle{Index: 42}},
		{"wrong_generation", Handle{Index: h.Index, Generation: h.Generation + 1}},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			if p.Get(tc.h) != nil {
				t.Fatal("Get should return nil")
			}
			if p.Remove(tc.h) {
				t.Fatal("Remove should return false")
			}
			if _, ok := p.IndexOf(tc.h); ok {
				t.Fatal("IndexOf should report not found")
			}
		})
	}
	if p.Len() != 1 {
		t.Fatalf("bad input disturbed storage, len=%d", p.Len())
	}
}
