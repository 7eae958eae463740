package reconcile

import "fmt"

// ContractViolation is the panic value raised when the caller or the upstream
// source breaks the batch notification protocol. It is not recoverable: the
// mirrored state can no longer be trusted.
type ContractViolation struct {
	// Op is the operation that detected the violation, e.g. "Section.StageDelete".
	Op string
	// Reason describes the broken precondition.
	Reason string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("reconcile: contract violation in %s: %s", e.Op, e.Reason)
}

func violate(op, format string, args ...any) {
	panic(&ContractViolation{Op: op, Reason: fmt.Sprintf(format, args...)})
}
