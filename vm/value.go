package vm

import "fmt"

// Value is a tagged runtime value: Nil, Bool, Number, or a heap-object
// reference. Every variant implements isValue purely as a marker so the
// Go type system rejects accidental mixing with a bare interface{}.
type Value interface{ isValue() }

func NewValue() Value { return VNil{} }

type VBool bool

func (VBool) isValue()         {}
func (v VBool) String() string { return fmt.Sprintf("%t", v) }

type VNil struct{}

func (VNil) isValue()         {}
func (v VNil) String() string { return "nil" }

type VNum float64

func (VNum) isValue()         {}
func (v VNum) String() string { return fmt.Sprintf("%g", v) }

// VTruthy implements Lox's falseyness rule: nil and false are falsey,
// everything else (including 0 and "") is truthy.
func VTruthy(v Value) bool {
	switch v := v.(type) {
	case VBool:
		return bool(v)
	case VNil:
		return false
	default:
		return true
	}
}

// VEq is value equality: same tag and, for heap strings, same identity.
// Identity equality is correct for strings because they're interned.
func VEq(v, w Value) VBool {
	switch v := v.(type) {
	case VBool:
		w, ok := w.(VBool)
		return VBool(ok && v == w)
	case VNum:
		w, ok := w.(VNum)
		return VBool(ok && v == w)
	case VNil:
		_, ok := w.(VNil)
		return VBool(ok)
	case *VString:
		w, ok := w.(*VString)
		return VBool(ok && v == w)
	default:
		return false
	}
}
