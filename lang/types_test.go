package lang

import (
	"testing"
)

func TestCast_ToString(t *testing.T) {
	tests := []struct {
		value    any
		expected string
	}{
		{float64(42), "42"},
		{float64(2.5), "2.5"},
		{true, "true"},
		{NewList([]any{float64(1), "a"}), `[1, "a"]`},
	}

	for _, tc := range tests {
		v, err := Cast(tc.value, TypeString)
		if err != nil {
			t.Fatalf("Cast(%v, String) failed: %v", tc.value, err)
		}

		if v != tc.expected {
			t.Errorf("Cast(%v, String) = %q, expected %q", tc.value, v, tc.expected)
		}
	}
}

func TestCast_ToNumber(t *testing.T) {
	v, err := Cast("42", TypeNumber)
	if err != nil || v != float64(42) {
		t.Errorf("Cast(\"42\") = %v, %v", v, err)
	}

	v, err = Cast(" 2.5 ", TypeNumber)
	if err != nil || v != float64(2.5) {
		t.Errorf("Cast(\" 2.5 \") = %v, %v", v, err)
	}

	v, err = Cast(true, TypeNumber)
	if err != nil || v != float64(1) {
		t.Errorf("Cast(true) = %v, %v", v, err)
	}

	if _, err := Cast("abc", TypeNumber); err == nil {
		t.Error("expected error casting non-numeric string")
	}

	if _, err := Cast(NewList(nil), TypeNumber); err == nil {
		t.Error("expected error casting list to number")
	}
}

func TestCast_ToBooleanIsTruthiness(t *testing.T) {
	tests := []struct {
		value    any
		expected bool
	}{
		{float64(0), false},
		{float64(1), true},
		{"", false},
		{"x", true},
		{NewList(nil), false},
		{NewList([]any{float64(1)}), true},
	}

	for _, tc := range tests {
		v, err := Cast(tc.value, TypeBoolean)
		if err != nil {
			t.Fatalf("Cast(%v, Boolean) failed: %v", tc.value, err)
		}

		if v != tc.expected {
			t.Errorf("Cast(%v, Boolean) = %v, expected %v", tc.value, v, tc.expected)
		}
	}
}

func TestCast_StringToList(t *testing.T) {
	v, err := Cast("héllo", TypeList)
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}

	list := v.(*List)
	if list.Len() != 5 {
		t.Fatalf("expected 5 characters, got %d", list.Len())
	}

	if list.At(1) != "é" {
		t.Errorf("expected multi-byte rune preserved, got %v", list.At(1))
	}
}

func TestCast_SameTypePassesThrough(t *testing.T) {
	list := NewList([]any{float64(1)})

	v, err := Cast(list, TypeList)
	if err != nil || v != any(list) {
		t.Errorf("expected identity cast, got %v, %v", v, err)
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		value    any
		expected ShellType
	}{
		{"s", TypeString},
		{float64(1), TypeNumber},
		{true, TypeBoolean},
		{NewList(nil), TypeList},
		{&Function{}, TypeFunction},
		{NewFile("/tmp/x"), TypeFile},
		{NewDirectory("/tmp"), TypeDirectory},
		{NewProcess("ls"), TypeProcess},
		{NewStream(nil), TypeStream},
		{map[string]any{}, TypeAny},
	}

	for _, tc := range tests {
		if got := TypeOf(tc.value); got != tc.expected {
			t.Errorf("TypeOf(%T) = %s, expected %s", tc.value, got, tc.expected)
		}
	}
}

func TestIsCompatible(t *testing.T) {
	if !IsCompatible(TypeString, TypeString) {
		t.Error("same types must be compatible")
	}

	if !IsCompatible(TypeNumber, TypeAny) {
		t.Error("any expectation must accept every type")
	}

	if IsCompatible(TypeAny, TypeNumber) {
		t.Error("an Any value must not satisfy a concrete expectation")
	}

	if IsCompatible(TypeString, TypeNumber) {
		t.Error("String and Number must not be compatible")
	}
}

func TestTruthy(t *testing.T) {
	falsy := []any{nil, false, float64(0), "", NewList(nil)}
	for _, v := range falsy {
		if truthy(v) {
			t.Errorf("expected %v (%T) to be falsy", v, v)
		}
	}

	truthyVals := []any{true, float64(-1), "0", NewList([]any{nil}), NewFile("/x")}
	for _, v := range truthyVals {
		if !truthy(v) {
			t.Errorf("expected %v (%T) to be truthy", v, v)
		}
	}
}

func TestFormatValue_IntegralNumbers(t *testing.T) {
	if got := formatValue(float64(3)); got != "3" {
		t.Errorf("expected 3, got %q", got)
	}

	if got := formatValue(float64(3.25)); got != "3.25" {
		t.Errorf("expected 3.25, got %q", got)
	}
}

func TestFormatValue_MapIsDeterministic(t *testing.T) {
	m := map[string]any{"b": float64(2), "a": "one", "c": true}

	expected := `{ a: "one", b: 2, c: true }`

	for range 10 {
		if got := formatValue(m); got != expected {
			t.Fatalf("expected %q, got %q", expected, got)
		}
	}
}

func TestCompareValues(t *testing.T) {
	c, err := compareValues(float64(1), float64(2))
	if err != nil || c != -1 {
		t.Errorf("compare(1, 2) = %d, %v", c, err)
	}

	c, err = compareValues("b", "a")
	if err != nil || c != 1 {
		t.Errorf("compare(b, a) = %d, %v", c, err)
	}

	c, err = compareValues(false, true)
	if err != nil || c != -1 {
		t.Errorf("compare(false, true) = %d, %v", c, err)
	}

	if _, err := compareValues(float64(1), "1"); err == nil {
		t.Error("expected error comparing Number with String")
	}
}
