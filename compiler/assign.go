package compiler

import (
	"sort"

	"github.com/porytiles/porytiles/gba"
)

// PaletteCapacity is the number of opaque colors a hardware palette can
// accept during assignment; slot 0 belongs to transparency.
const PaletteCapacity = gba.PaletteOpaqueSize

// assignState is one node of the palette assignment search: the colors
// accumulated into each target hardware palette so far, and the color sets
// still waiting for a home.
type assignState struct {
	hwps       []ColorSet
	unassigned []ColorSet
}

// assigner packs color sets into hardware palettes by backtracking search.
// The search counts every recursive step against a hard budget so that
// adversarial inputs fail loudly instead of running away.
type assigner struct {
	budget  int
	calls   int
	primary []ColorSet
}

func copySets(s []ColorSet) []ColorSet {
	return append(s[:0:0], s...)
}

// assign tries to complete the packing from st. It returns the finished
// palettes, or nil when this branch admits no solution. A BudgetExceededError
// aborts the whole search and propagates unchanged.
func (a *assigner) assign(st assignState) ([]ColorSet, error) {
	a.calls++
	if a.calls > a.budget {
		return nil, &BudgetExceededError{Budget: a.budget}
	}

	if len(st.unassigned) == 0 {
		return st.hwps, nil
	}

	// Take the last set so removal is cheap.
	toAssign := st.unassigned[len(st.unassigned)-1]

	// A secondary set wholly covered by a primary palette costs nothing:
	// the tile will simply reference that palette, so recurse with the
	// set dropped and the new palettes untouched.
	for i := range a.primary {
		if toAssign.SubsetOf(a.primary[i]) {
			next := assignState{
				hwps:       copySets(st.hwps),
				unassigned: copySets(st.unassigned[:len(st.unassigned)-1]),
			}
			solution, err := a.assign(next)
			if solution != nil || err != nil {
				return solution, err
			}
		}
	}

	// Branch order is the whole heuristic: prefer palettes already sharing
	// many of the needed colors, and among equals the emptier one. The
	// sort must be stable or equal candidates would reorder and change
	// the compiled output.
	hwps := copySets(st.hwps)
	sort.SliceStable(hwps, func(i, j int) bool {
		li := hwps[i].And(toAssign).Count()
		lj := hwps[j].And(toAssign).Count()
		if li == lj {
			return hwps[i].Count() < hwps[j].Count()
		}
		return li > lj
	})

	for i := range hwps {
		merged := hwps[i].Or(toAssign)
		// One slot of every palette belongs to transparency.
		if merged.Count() > PaletteCapacity {
			continue
		}

		next := assignState{
			hwps:       copySets(hwps),
			unassigned: copySets(st.unassigned[:len(st.unassigned)-1]),
		}
		next.hwps[i] = merged
		solution, err := a.assign(next)
		if solution != nil || err != nil {
			return solution, err
		}
	}

	return nil, nil
}

// assignPalettes packs the distinct color sets into numPalettes new
// palettes. The sets are stable-sorted by popcount ascending and consumed
// from the back of the stack; the stable sort keeps first-appearance order
// among equal-size sets, which keeps compiled output deterministic. primary
// holds the color sets of an already compiled primary tileset's palettes;
// sets covered by those need no new palette at all.
func assignPalettes(numPalettes int, distinct []ColorSet, primary []ColorSet, budget int) ([]ColorSet, error) {
	unassigned := copySets(distinct)
	sort.SliceStable(unassigned, func(i, j int) bool {
		return unassigned[i].Count() < unassigned[j].Count()
	})

	a := &assigner{budget: budget, primary: primary}
	solution, err := a.assign(assignState{
		hwps:       make([]ColorSet, numPalettes),
		unassigned: unassigned,
	})
	if err != nil {
		return nil, err
	}
	if solution == nil {
		return nil, ErrAssignImpossible
	}
	return solution, nil
}
