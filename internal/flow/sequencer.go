// internal/flow/sequencer.go
//
// Navigation rules for the wizard. Forward movement is strictly sequential;
// backward movement is always allowed. Direct navigation to a step requires
// every earlier step to have completed first.

package flow

import "fmt"

// Advance reports whether moving from one step to another is a legal
// transition. Only the immediate successor or any earlier step is permitted;
// forward jumps that skip steps are rejected.
func Advance(from, to Step) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("flow: invalid transition %s -> %s", from, to)
	}
	if to <= from {
		return nil
	}
	if to == from.Next() {
		return nil
	}
	return fmt.Errorf("flow: cannot skip from %s to %s", from, to)
}

// Reachable reports whether a step may be entered directly. Every canonical
// step strictly before it must be present in the completed set.
func Reachable(to Step, completed []Step) bool {
	if !to.Valid() {
		return false
	}
	done := make(map[Step]bool, len(completed))
	for _, s := range completed {
		done[s] = true
	}
	for s := StepQuote; s < to; s++ {
		if !done[s] {
			return false
		}
	}
	return true
}
