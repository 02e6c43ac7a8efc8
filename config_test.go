package idreg

import "testing"

func TestConfigValidateDefaults(t *testing.T) {
	var c Config
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if c.TypeBits != DefaultTypeBits {
		t.Errorf("TypeBits = %d, want %d", c.TypeBits, DefaultTypeBits)
	}
	if c.IDBits != DefaultIDBits {
		t.Errorf("IDBits = %d, want %d", c.IDBits, DefaultIDBits)
	}
	if c.TypeBits+c.IDBits != 63 {
		t.Errorf("TypeBits+IDBits = %d, want 63", c.TypeBits+c.IDBits)
	}
	if c.MaxTypes != DefaultMaxTypes {
		t.Errorf("MaxTypes = %d, want %d", c.MaxTypes, DefaultMaxTypes)
	}
	if c.ReservedTypes != 1 {
		t.Errorf("ReservedTypes = %d, want 1", c.ReservedTypes)
	}
	if c.FreeListWatermark != DefaultFreeListWatermark {
		t.Errorf("FreeListWatermark = %d, want %d", c.FreeListWatermark, DefaultFreeListWatermark)
	}
	if c.SpinBackoffMax < c.SpinBackoffMin {
		t.Errorf("SpinBackoffMax (%v) < SpinBackoffMin (%v)", c.SpinBackoffMax, c.SpinBackoffMin)
	}
	if c.Logger == nil {
		t.Error("Logger default not set")
	}
	if c.TimeProvider == nil {
		t.Error("TimeProvider default not set")
	}
	if c.MetricsCollector == nil {
		t.Error("MetricsCollector default not set")
	}
}

func TestConfigValidateClampsInvertedBackoff(t *testing.T) {
	c := Config{SpinBackoffMin: 10, SpinBackoffMax: 5}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.SpinBackoffMax < c.SpinBackoffMin {
		t.Errorf("SpinBackoffMax (%v) still below SpinBackoffMin (%v) after Validate", c.SpinBackoffMax, c.SpinBackoffMin)
	}
}

func TestConfigValidateClampsMaxTypesToTypeBitsRange(t *testing.T) {
	c := Config{TypeBits: 4, MaxTypes: 1 << 10}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if limit := uint32(1) << c.TypeBits; c.MaxTypes > limit {
		t.Errorf("MaxTypes = %d exceeds 1<<TypeBits = %d", c.MaxTypes, limit)
	}
}

func TestDefaultConfigProducesUsableRegistry(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	typ, err := reg.RegisterType(ClassDescriptor{TypeTag: 1})
	if err != nil {
		t.Fatalf("RegisterType: %v", err)
	}
	if _, err := reg.Register(typ, "x", true, nil, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
}
