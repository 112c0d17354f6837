package vm

import "github.com/josharian/intern"

// copyString canonicalizes chars against the VM's intern table: a
// content-equal heap string already on the heap is returned as-is (no new
// allocation); otherwise a fresh *VString is allocated, registered in the
// heap list and the intern table, and returned. Grounded on
// original_source/object/object.c's copyString/allocateString.
//
// chars is first run through github.com/josharian/intern so that repeated
// identical Go-native strings built while compiling (identifier lexemes,
// string-literal contents) don't each allocate their own backing array before
// they ever reach the VM-level identity table below.
func (vm *VM) copyString(chars string) *VString {
	chars = intern.String(chars)
	hash := fnv1a32(chars)
	if existing := vm.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	return vm.allocateString(chars, hash)
}

// takeString is copyString for a buffer the caller already owns (e.g. the
// result of string concatenation): on a hit, the freshly built buffer is
// simply discarded in favor of the interned one, preserving the
// identity-equality invariant that ADD must produce when concatenating.
func (vm *VM) takeString(chars string) *VString {
	hash := fnv1a32(chars)
	if existing := vm.strings.FindString(chars, hash); existing != nil {
		return existing
	}
	return vm.allocateString(chars, hash)
}

func (vm *VM) allocateString(chars string, hash uint32) *VString {
	s := &VString{chars: chars, hash: hash}
	vm.heap.push(s)
	vm.strings.Set(s, VBool(true))
	return s
}
