package godbc

import (
	"testing"
	"time"
)

func TestValueKinds(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"null", Null(), KindNull},
		{"bool", Bool(true), KindBool},
		{"int8", Int8(-5), KindInt8},
		{"int16", Int16(300), KindInt16},
		{"int32", Int32(123), KindInt32},
		{"int64", Int64(1 << 40), KindInt64},
		{"float32", Float32(1.5), KindFloat32},
		{"float64", Float64(2.5), KindFloat64},
		{"string", String("abc"), KindString},
		{"bytes", Bytes([]byte{1, 2}), KindBytes},
		{"time", Time(ts), KindTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Kind(); got != tt.kind {
				t.Fatalf("Kind() = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestValueIntegerConversions(t *testing.T) {
	if n, ok := Int8(7).AsInt64(); !ok || n != 7 {
		t.Errorf("Int8(7).AsInt64() = %d, %v", n, ok)
	}
	if n, ok := Int64(123).AsInt32(); !ok || n != 123 {
		t.Errorf("Int64(123).AsInt32() = %d, %v", n, ok)
	}
	// Out-of-range narrowing is absent, not truncated.
	if _, ok := Int64(1 << 40).AsInt32(); ok {
		t.Error("AsInt32 on an out-of-range int64 should not convert")
	}
	if f, ok := Int32(2).AsFloat64(); !ok || f != 2.0 {
		t.Errorf("Int32(2).AsFloat64() = %v, %v", f, ok)
	}
	if _, ok := String("2").AsInt64(); ok {
		t.Error("AsInt64 on a string should not convert")
	}
}

func TestValueNull(t *testing.T) {
	v := Null()
	if !v.IsNull() {
		t.Fatal("Null().IsNull() = false")
	}
	if _, ok := v.AsInt32(); ok {
		t.Error("AsInt32 on NULL should be absent")
	}
	if _, ok := v.AsString(); ok {
		t.Error("AsString on NULL should be absent")
	}
	if got := v.String(); got != "NULL" {
		t.Errorf("String() = %q, want NULL", got)
	}
	// The zero Value is NULL too.
	var zero Value
	if !zero.IsNull() {
		t.Error("zero Value should be NULL")
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), "NULL"},
		{"bool", Bool(true), "true"},
		{"int", Int64(-42), "-42"},
		// float32 payloads round-trip at 32-bit precision, so 1.1 stays 1.1.
		{"float32", Float32(1.1), "1.1"},
		{"float64", Float64(1.1), "1.1"},
		{"string", String("abc"), "abc"},
		{"bytes", Bytes([]byte{0xde, 0xad}), `\xdead`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
	}{
		{"nil", nil, KindNull},
		{"bool", false, KindBool},
		{"int", 42, KindInt64},
		{"int32", int32(42), KindInt32},
		{"int64", int64(42), KindInt64},
		{"float64", 1.5, KindFloat64},
		{"string", "x", KindString},
		{"bytes", []byte("x"), KindBytes},
		{"time", time.Now(), KindTime},
		{"fallback", struct{ A int }{1}, KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueOf(tt.in).Kind(); got != tt.kind {
				t.Fatalf("ValueOf(%v).Kind() = %v, want %v", tt.in, got, tt.kind)
			}
		})
	}
}

func TestValueBytesCopied(t *testing.T) {
	buf := []byte{1, 2, 3}
	v := Bytes(buf)
	buf[0] = 9

	got, ok := v.AsBytes()
	if !ok {
		t.Fatal("AsBytes() absent")
	}
	if got[0] != 1 {
		t.Error("Bytes did not copy the input slice")
	}

	got[1] = 9
	again, _ := v.AsBytes()
	if again[1] != 2 {
		t.Error("AsBytes did not copy the payload")
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same int kinds", Int32(1), Int32(1), true},
		{"cross int kinds", Int32(1), Int64(1), true},
		{"int float", Int32(2), Float64(2), true},
		{"strings", String("a"), String("a"), true},
		{"string mismatch", String("a"), String("b"), false},
		{"null never equal", Null(), Null(), false},
		{"null vs value", Null(), Int32(0), false},
		{"kind mismatch", String("1"), Int32(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Fatalf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}
