package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/loxlang/loxvm/debug"
	e "github.com/loxlang/loxvm/errors"
	"github.com/sirupsen/logrus"
)

// stackMax is the VM's fixed value-stack capacity (spec.md §3: "a fixed-size
// value stack (256 slots)"). Exceeding it in either direction is a runtime
// error, not a panic — see push/pop.
const stackMax = 256

// VM is a single stack machine instance: one chunk/instruction-pointer pair
// at a time, a bounded value stack, and the three process-wide object-memory
// structures (heap list, globals, string-intern set) that every Interpret
// call shares. None of this is safe for concurrent use — spec.md §5 is
// explicit that the whole pipeline is single-threaded and synchronous.
type VM struct {
	chunk *Chunk
	ip    int
	stack []Value

	globals *Table
	strings *Table
	heap    Heap

	// Out is where PRINT writes; defaults to os.Stdout so the CLI needs no
	// wiring, but tests substitute a buffer to assert on output.
	Out io.Writer
}

func NewVM() *VM {
	return &VM{
		globals: NewTable(),
		strings: NewTable(),
		Out:     os.Stdout,
	}
}

// FreeVM tears down the shared object-memory structures: every heap object
// is walked and released exactly once, and both tables are dropped. Per
// spec.md §5, the VM itself does not outlive this call.
func (vm *VM) FreeVM() {
	vm.heap.Free()
	vm.globals = NewTable()
	vm.strings = NewTable()
}

func (vm *VM) push(val Value) error {
	if len(vm.stack) >= stackMax {
		return &e.RuntimeError{Line: vm.currentLine(), Reason: "stack overflow"}
	}
	vm.stack = append(vm.stack, val)
	return nil
}

func (vm *VM) pop() (Value, error) {
	if len(vm.stack) == 0 {
		return nil, &e.RuntimeError{Line: vm.currentLine(), Reason: "stack underflow"}
	}
	last := len(vm.stack) - 1
	val := vm.stack[last]
	vm.stack = vm.stack[:last]
	return val, nil
}

func (vm *VM) peek(distance int) Value { return vm.stack[len(vm.stack)-1-distance] }

func (vm *VM) currentLine() int {
	if vm.chunk == nil || vm.ip == 0 || vm.ip > len(vm.chunk.lines) {
		return -1
	}
	return vm.chunk.lines[vm.ip-1]
}

// InterpretResult is the three-way outcome spec.md §6 names: Ok,
// CompileError, RuntimeError.
type InterpretResult int

const (
	Ok InterpretResult = iota
	ResultCompileError
	ResultRuntimeError
)

// Interpret compiles src and, on success, runs it to completion. The
// compiled Chunk is owned by this call alone: it is discarded on return
// whether or not execution succeeded, matching spec.md §5's "interpret
// owns the Chunk for the duration of one run".
func (vm *VM) Interpret(src string) (InterpretResult, error) {
	chunk, err := vm.compile(src)
	if err != nil {
		return ResultCompileError, err
	}

	vm.chunk = chunk
	vm.ip = 0
	defer func() { vm.chunk = nil }()

	if err := vm.run(); err != nil {
		vm.stack = vm.stack[:0]
		return ResultRuntimeError, err
	}
	return Ok, nil
}

func (vm *VM) readByte() byte {
	b := vm.chunk.code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readShort() uint16 {
	hi, lo := vm.readByte(), vm.readByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) readConst() Value { return vm.chunk.consts[vm.readByte()] }

func (vm *VM) readString() (*VString, error) {
	val := vm.readConst()
	s, ok := val.(*VString)
	if !ok {
		return nil, &e.RuntimeError{Line: vm.currentLine(), Reason: "constant is not a string"}
	}
	return s, nil
}

func typeErr(line int, reason string) error { return &e.RuntimeError{Line: line, Reason: reason} }

// run is the fetch-decode-execute loop over vm.chunk.code, implementing
// every opcode in spec.md §4.4's table.
func (vm *VM) run() error {
	for {
		if logrus.IsLevelEnabled(logrus.DebugLevel) {
			logrus.Debugln(vm.stackTrace())
			instDump, _ := vm.chunk.DisassembleInst(vm.ip)
			logrus.Debugln(instDump)
		}

		switch inst := OpCode(vm.readByte()); inst {
		case OpConst:
			if err := vm.push(vm.readConst()); err != nil {
				return err
			}

		case OpNil:
			if err := vm.push(VNil{}); err != nil {
				return err
			}
		case OpTrue:
			if err := vm.push(VBool(true)); err != nil {
				return err
			}
		case OpFalse:
			if err := vm.push(VBool(false)); err != nil {
				return err
			}

		case OpPop:
			if _, err := vm.pop(); err != nil {
				return err
			}

		case OpGetLocal:
			slot := vm.readByte()
			debug.Assertf(int(slot) < len(vm.stack), "local slot %d out of range (stack len %d)", slot, len(vm.stack))
			if err := vm.push(vm.stack[slot]); err != nil {
				return err
			}
		case OpSetLocal:
			slot := vm.readByte()
			debug.Assertf(int(slot) < len(vm.stack), "local slot %d out of range (stack len %d)", slot, len(vm.stack))
			vm.stack[slot] = vm.peek(0)

		case OpGetGlobal:
			name, err := vm.readString()
			if err != nil {
				return err
			}
			val, ok := vm.globals.Get(name)
			if !ok {
				return typeErr(vm.currentLine(), fmt.Sprintf("Undefined variable %s", name.chars))
			}
			if err := vm.push(val); err != nil {
				return err
			}
		case OpDefGlobal:
			name, err := vm.readString()
			if err != nil {
				return err
			}
			vm.globals.Set(name, vm.peek(0))
			if _, err := vm.pop(); err != nil {
				return err
			}
		case OpSetGlobal:
			name, err := vm.readString()
			if err != nil {
				return err
			}
			if _, ok := vm.globals.Get(name); !ok {
				return typeErr(vm.currentLine(), fmt.Sprintf("Undefined variable %s", name.chars))
			}
			vm.globals.Set(name, vm.peek(0))

		case OpEqual:
			b, err := vm.pop()
			if err != nil {
				return err
			}
			a, err := vm.pop()
			if err != nil {
				return err
			}
			if err := vm.push(VEq(a, b)); err != nil {
				return err
			}
		case OpGreater:
			if err := vm.numComparison(func(a, b VNum) Value { return VBool(a > b) }); err != nil {
				return err
			}
		case OpLess:
			if err := vm.numComparison(func(a, b VNum) Value { return VBool(a < b) }); err != nil {
				return err
			}

		case OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case OpSub:
			if err := vm.numArith(func(a, b VNum) VNum { return a - b }); err != nil {
				return err
			}
		case OpMul:
			if err := vm.numArith(func(a, b VNum) VNum { return a * b }); err != nil {
				return err
			}
		case OpDiv:
			if err := vm.numArith(func(a, b VNum) VNum { return a / b }); err != nil {
				return err
			}

		case OpNot:
			v, err := vm.pop()
			if err != nil {
				return err
			}
			if err := vm.push(VBool(!VTruthy(v))); err != nil {
				return err
			}
		case OpNeg:
			v, err := vm.pop()
			if err != nil {
				return err
			}
			n, ok := v.(VNum)
			if !ok {
				return typeErr(vm.currentLine(), "operand must be a number")
			}
			if err := vm.push(-n); err != nil {
				return err
			}

		case OpPrint:
			v, err := vm.pop()
			if err != nil {
				return err
			}
			fmt.Fprintf(vm.Out, "%v\n", v)

		case OpJump:
			offset := vm.readShort()
			vm.ip += int(offset)
		case OpJumpUnless:
			offset := vm.readShort()
			if !VTruthy(vm.peek(0)) {
				vm.ip += int(offset)
			}
		case OpLoop:
			offset := vm.readShort()
			vm.ip -= int(offset)

		case OpReturn:
			return nil

		default:
			return typeErr(vm.currentLine(), fmt.Sprintf("unknown instruction '%d'", inst))
		}
	}
}

func (vm *VM) numComparison(op func(a, b VNum) Value) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	an, aok := a.(VNum)
	bn, bok := b.(VNum)
	if !aok || !bok {
		return typeErr(vm.currentLine(), "operands must be numbers")
	}
	return vm.push(op(an, bn))
}

func (vm *VM) numArith(op func(a, b VNum) VNum) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	an, aok := a.(VNum)
	bn, bok := b.(VNum)
	if !aok || !bok {
		return typeErr(vm.currentLine(), "operands must be numbers")
	}
	return vm.push(op(an, bn))
}

// add implements ADD's dual numeric/string behavior: two numbers sum; two
// strings concatenate and intern via takeString (never copyString, so the
// freshly built buffer is discarded in favor of an existing identity on a
// repeat concatenation).
func (vm *VM) add() error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}

	switch a := a.(type) {
	case VNum:
		b, ok := b.(VNum)
		if !ok {
			return typeErr(vm.currentLine(), "operands must be two numbers or two strings")
		}
		return vm.push(a + b)
	case *VString:
		b, ok := b.(*VString)
		if !ok {
			return typeErr(vm.currentLine(), "operands must be two numbers or two strings")
		}
		concat := vm.takeString(a.chars + b.chars)
		return vm.push(concat)
	default:
		return typeErr(vm.currentLine(), "operands must be two numbers or two strings")
	}
}

func (vm *VM) stackTrace() string {
	res := "          "
	for _, slot := range vm.stack {
		res += fmt.Sprintf("[ %v ]", slot)
	}
	return res
}
