package translate

import "fmt"

// PlanError is a fatal, must-abort lowering error: a relational plan that
// violates one of C1-C5's invariants (an unresolved ColId, an Assign found
// outside a Project, an unsupported operator shape). These are programmer
// errors in the plan author, not recoverable run-time conditions, so the
// translator panics with a *PlanError at the point of detection and the
// single top-level Translate entry point recovers it into a normal error
// return — grounded on other_examples' aperturerobotics-go-mysql-server
// fork's Memo.HandleErr/MemoErr pattern (panic a typed error, recover once
// at the outermost call), itself standing in for the original C++'s
// throw-on-invariant-violation behavior in relalg_translator.cpp.
type PlanError struct {
	msg string
}

func (e *PlanError) Error() string {
	return e.msg
}

func newPlanErrorf(format string, args ...interface{}) *PlanError {
	return &PlanError{msg: fmt.Sprintf(format, args...)}
}
