package harness

import "maps"

// PropSet is a two-tier key-value view: an own layer on top of a read-only
// inherited base. Lookups consult the own layer first, then the base.
// It exists for tests that must probe the distinction between own and
// inherited entries on an object whose enumerable values are all inherited.
type PropSet struct {
	own  map[string]int
	base map[string]int
}

// NewPropSet creates a view over the given inherited base with an empty own
// layer. The base is copied, so later mutation of the argument does not leak
// into the view.
func NewPropSet(base map[string]int) *PropSet {
	return &PropSet{
		own:  make(map[string]int),
		base: maps.Clone(base),
	}
}

// Get looks a key up, own entries shadowing inherited ones.
func (p *PropSet) Get(key string) (int, bool) {
	if v, ok := p.own[key]; ok {
		return v, true
	}
	v, ok := p.base[key]
	return v, ok
}

// Own returns a copy of the own entries. For a freshly constructed PropSet
// this is empty.
func (p *PropSet) Own() map[string]int {
	return maps.Clone(p.own)
}

// Inherited returns a copy of the inherited base entries.
func (p *PropSet) Inherited() map[string]int {
	return maps.Clone(p.base)
}

// ObjWithNoOwnProperties returns the canonical probe object: no own entries,
// with a, b, c inherited as 1, 2, 3.
func ObjWithNoOwnProperties() *PropSet {
	return NewPropSet(map[string]int{"a": 1, "b": 2, "c": 3})
}
