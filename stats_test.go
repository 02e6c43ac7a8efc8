package idreg

import (
	"bytes"
	"strings"
	"testing"
)

func TestStatsCountRegistersWhenEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StatsEnabled = true
	reg := NewRegistry(cfg)
	typ := registerTestType(t, reg, 1, nil)

	if _, err := reg.Register(typ, "x", true, nil, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var buf bytes.Buffer
	if err := reg.DumpNonzeroStats(&buf, "test"); err != nil {
		t.Fatalf("DumpNonzeroStats: %v", err)
	}
	if !strings.Contains(buf.String(), "registers = 1") {
		t.Errorf("DumpNonzeroStats output missing registers = 1, got:\n%s", buf.String())
	}
}

func TestDumpStatsIncludesEveryCounter(t *testing.T) {
	reg := newTestRegistry(t)
	var buf bytes.Buffer
	if err := reg.DumpStats(&buf); err != nil {
		t.Fatalf("DumpStats: %v", err)
	}
	out := buf.String()
	for _, name := range []string{"registers", "lookups", "inc_refs", "dec_refs", "removes", "active_threads"} {
		if !strings.Contains(out, name+" =") {
			t.Errorf("DumpStats output missing %q, got:\n%s", name, out)
		}
	}
}
