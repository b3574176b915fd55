package scalar

import (
	"sync"
	"testing"

	"github.com/faucetdb/typegen/internal/model"
)

func TestMapType_KnownTypes(t *testing.T) {
	tests := []struct {
		native string
		want   model.ScalarType
	}{
		{"integer", model.ScalarInt},
		{"boolean", model.ScalarBoolean},
		{"character", model.ScalarString},
		{"text", model.ScalarString},
		{"timestamp", model.ScalarString},
		{"tsvector", model.ScalarString},
		{"date", model.ScalarString},
		{"datetime", model.ScalarString},
		{"double", model.ScalarFloat},
		{"float", model.ScalarFloat},
	}

	for _, tt := range tests {
		t.Run(tt.native, func(t *testing.T) {
			if got := MapType(tt.native); got != tt.want {
				t.Errorf("MapType(%q) = %q, want %q", tt.native, got, tt.want)
			}
			if !Known(tt.native) {
				t.Errorf("Known(%q) = false, want true", tt.native)
			}
		})
	}
}

func TestMapType_UnknownFallsBackToString(t *testing.T) {
	unknowns := []string{
		"jsonb",
		"varchar",
		"bigint",
		"uuid",
		"INTEGER", // case-sensitive
		"character varying",
		"",
	}
	for _, native := range unknowns {
		t.Run(native, func(t *testing.T) {
			if got := MapType(native); got != model.ScalarString {
				t.Errorf("MapType(%q) = %q, want String", native, got)
			}
			if Known(native) {
				t.Errorf("Known(%q) = true, want false", native)
			}
		})
	}
}

func TestMappingsStayInClosedSet(t *testing.T) {
	closed := map[model.ScalarType]bool{
		model.ScalarInt:     true,
		model.ScalarBoolean: true,
		model.ScalarString:  true,
		model.ScalarFloat:   true,
	}
	for native, s := range nativeToScalar {
		if !closed[s] {
			t.Errorf("mapping %q -> %q is outside the closed set", native, s)
		}
	}
	if !closed[Fallback] {
		t.Errorf("Fallback %q is outside the closed set", Fallback)
	}
}

func TestNativeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"character(255)", "character"},
		{"double precision", "double"},
		{"character varying", "character"},
		{"int4", "int"},
		{"VARCHAR2", "VARCHAR"},
		{"timestamp(6) with time zone", "timestamp"},
		{"  text  ", "text"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NativeToken(tt.in); got != tt.want {
				t.Errorf("NativeToken(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapType_ConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if MapType("integer") != model.ScalarInt {
					t.Error("unexpected mapping under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}
