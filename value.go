package godbc

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind identifies the scalar type carried by a Value or described by a
// result column.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
	KindBytes
	KindTime
)

var kindNames = map[Kind]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindBytes:   "bytes",
	KindTime:    "time",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Numeric reports whether the kind is an integer or floating-point type.
func (k Kind) Numeric() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64, KindFloat32, KindFloat64:
		return true
	}
	return false
}

// Value is an immutable tagged scalar holding one column or parameter value.
// The zero Value is NULL.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	raw  []byte
	t    time.Time
}

// Null returns the SQL NULL value.
func Null() Value { return Value{} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int8 returns an 8-bit integer Value.
func Int8(v int8) Value { return Value{kind: KindInt8, i: int64(v)} }

// Int16 returns a 16-bit integer Value.
func Int16(v int16) Value { return Value{kind: KindInt16, i: int64(v)} }

// Int32 returns a 32-bit integer Value.
func Int32(v int32) Value { return Value{kind: KindInt32, i: int64(v)} }

// Int64 returns a 64-bit integer Value.
func Int64(v int64) Value { return Value{kind: KindInt64, i: v} }

// Float32 returns a 32-bit float Value.
func Float32(v float32) Value { return Value{kind: KindFloat32, f: float64(v)} }

// Float64 returns a 64-bit float Value.
func Float64(v float64) Value { return Value{kind: KindFloat64, f: v} }

// String returns a string Value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Bytes returns a binary Value. The slice is copied so the Value stays
// immutable if the caller reuses the buffer.
func Bytes(v []byte) Value {
	if v == nil {
		return Value{}
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return Value{kind: KindBytes, raw: cp}
}

// Time returns a timestamp Value.
func Time(v time.Time) Value { return Value{kind: KindTime, t: v} }

// ValueOf converts a native Go value into a Value. It covers the types
// the wrapped client libraries hand back for row cells; anything else is
// rendered through fmt and carried as a string.
func ValueOf(v any) Value {
	switch v := v.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case bool:
		return Bool(v)
	case int8:
		return Int8(v)
	case int16:
		return Int16(v)
	case int32:
		return Int32(v)
	case int:
		return Int64(int64(v))
	case int64:
		return Int64(v)
	case uint32:
		return Int64(int64(v))
	case float32:
		return Float32(v)
	case float64:
		return Float64(v)
	case string:
		return String(v)
	case []byte:
		return Bytes(v)
	case time.Time:
		return Time(v)
	default:
		return String(fmt.Sprintf("%v", v))
	}
}

// Kind returns the scalar type carried by the Value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the Value is SQL NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload. ok is false when the Value does not
// hold a bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsInt32 returns the value as an int32. Any integer kind converts as long
// as the payload fits; out-of-range values are absent rather than truncated.
func (v Value) AsInt32() (int32, bool) {
	n, ok := v.AsInt64()
	if !ok || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int32(n), true
}

// AsInt64 returns the value as an int64. All integer kinds convert.
func (v Value) AsInt64() (int64, bool) {
	switch v.kind {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return v.i, true
	}
	return 0, false
}

// AsFloat64 returns the value as a float64. Integer and float kinds convert.
func (v Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindFloat32, KindFloat64:
		return v.f, true
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return float64(v.i), true
	}
	return 0, false
}

// AsString returns the string payload. ok is false for non-string kinds.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsBytes returns a copy of the binary payload.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	cp := make([]byte, len(v.raw))
	copy(cp, v.raw)
	return cp, true
}

// AsTime returns the timestamp payload.
func (v Value) AsTime() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

// Interface returns the native Go value: nil, bool, int64, float64, string,
// []byte or time.Time. Drivers use it when binding parameters to the
// underlying client library.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return v.i
	case KindFloat32, KindFloat64:
		return v.f
	case KindString:
		return v.s
	case KindBytes:
		return v.raw
	case KindTime:
		return v.t
	}
	return nil
}

// String renders the Value for display. NULL renders as "NULL".
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindBytes:
		return fmt.Sprintf("\\x%x", v.raw)
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	}
	return ""
}

// Equal reports whether two Values hold the same data. Integer kinds
// compare by payload, so Int32(1) equals Int64(1). NULL never equals
// anything, including NULL.
func (v Value) Equal(o Value) bool {
	if v.IsNull() || o.IsNull() {
		return false
	}
	if vi, ok := v.AsInt64(); ok {
		if oi, ok := o.AsInt64(); ok {
			return vi == oi
		}
		if of, ok := o.AsFloat64(); ok {
			return float64(vi) == of
		}
		return false
	}
	if vf, ok := v.AsFloat64(); ok {
		if of, ok := o.AsFloat64(); ok {
			return vf == of
		}
		return false
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindBytes:
		return string(v.raw) == string(o.raw)
	case KindTime:
		return v.t.Equal(o.t)
	}
	return false
}
