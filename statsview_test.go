package idreg

import "testing"

func TestSnapshotReturnsLiveHandles(t *testing.T) {
	reg := newTestRegistry(t)
	typ := registerTestType(t, reg, 1, nil)

	h1, _ := reg.Register(typ, "a", true, nil, nil)
	h2, _ := reg.Register(typ, "b", true, nil, nil)
	if _, err := reg.Remove(h2); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	snap, err := reg.Snapshot(typ)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap) != 1 || snap[0].Handle != h1 || snap[0].Object != "a" {
		t.Fatalf("Snapshot = %+v, want exactly [{%d a}]", snap, h1)
	}
}

func TestSnapshotEmptyTypeReturnsEmptySlice(t *testing.T) {
	reg := newTestRegistry(t)
	typ := registerTestType(t, reg, 1, nil)

	snap, err := reg.Snapshot(typ)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap) != 0 {
		t.Fatalf("Snapshot of empty type = %+v, want empty", snap)
	}
}
