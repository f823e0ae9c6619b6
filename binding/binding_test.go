package binding_test

import (
	"testing"

	"github.com/DocInTardis/writing-agent/binding"
)

func TestInterpolateResolvesPaths(t *testing.T) {
	data := map[string]interface{}{
		"user": map[string]interface{}{
			"name": "韩梅梅",
		},
		"items": []interface{}{
			map[string]interface{}{"label": "first"},
			map[string]interface{}{"label": "second"},
		},
	}
	got := binding.Interpolate("Hello, ${user.name}! pick=${items[1].label}", data)
	want := "Hello, 韩梅梅! pick=second"
	if got != want {
		t.Fatalf("Interpolate = %q, want %q", got, want)
	}
}

func TestInterpolateKeepsUnresolvedPlaceholders(t *testing.T) {
	data := map[string]interface{}{"a": 1}
	got := binding.Interpolate("${missing.path} and ${a}", data)
	if got != "${missing.path} and 1" {
		t.Fatalf("Interpolate = %q", got)
	}
}

func TestInterpolateNilData(t *testing.T) {
	text := "untouched ${anything}"
	if got := binding.Interpolate(text, nil); got != text {
		t.Fatalf("nil data should leave text unchanged, got %q", got)
	}
}

func TestWithVarShadowsAndPreserves(t *testing.T) {
	base := map[string]interface{}{"i": 99, "name": "doc"}
	scoped := binding.WithVar(base, "i", 2)
	if got := binding.Interpolate("${i}-${name}", scoped); got != "2-doc" {
		t.Fatalf("scoped interpolation = %q, want 2-doc", got)
	}
	if base["i"] != 99 {
		t.Fatal("WithVar must not mutate the parent environment")
	}
}

func TestWithVarOnNilData(t *testing.T) {
	scoped := binding.WithVar(nil, "i", 1)
	if got := binding.Interpolate("round ${i}", scoped); got != "round 1" {
		t.Fatalf("interpolation = %q, want round 1", got)
	}
}
