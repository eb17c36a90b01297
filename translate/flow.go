// Package translate lowers a relalg.Op plan into a lole.Program: an ordered
// sequence of lolepop pipelines plus the data structures they share. It is
// the largest component of this module (flow tracking, expression
// translation, and the per-operator state-machine lowering for hash
// aggregation and hash join), grounded throughout on
// _examples/original_source/relalg_translator.cpp.
package translate

// Flow is the per-point mapping from a qualified column name to its
// zero-based slot index in the tuple currently flowing through the plan. It
// is rebuilt from scratch at every operator boundary (see C3 in
// SPEC_FULL.md) rather than mutated incrementally, matching the original's
// "flow" snapshot taken after each operator visit.
type Flow struct {
	order []string
	index map[string]int
}

// NewFlow builds an empty Flow.
func NewFlow() *Flow {
	return &Flow{index: make(map[string]int)}
}

// Get returns the slot index bound to name, and whether it was found.
func (f *Flow) Get(name string) (int, bool) {
	slot, ok := f.index[name]
	return slot, ok
}

// Append binds name to the next free slot and returns that slot. Rebinding
// an existing name is a programmer error in this translator (every operator
// either carries a name through unchanged or introduces it fresh) and
// panics.
func (f *Flow) Append(name string) int {
	if _, ok := f.index[name]; ok {
		panic(newPlanErrorf("flow: column %q already bound", name))
	}
	slot := len(f.order)
	f.order = append(f.order, name)
	f.index[name] = slot
	return slot
}

// Names returns the columns in slot order.
func (f *Flow) Names() []string {
	return f.order
}

// Size returns the number of bound columns, i.e. the tuple arity.
func (f *Flow) Size() int {
	return len(f.order)
}
