package pipeline

import (
	"fmt"

	"github.com/ppiankov/veridict/internal/model"
)

// ErrClaimTooShort rejects input before a session is created
var ErrClaimTooShort = fmt.Errorf("claim too short to verify")

// StageError marks a fatal failure of a specific pipeline stage. The
// session is still returned alongside it, with the failure recorded in
// its execution log.
type StageError struct {
	Stage model.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
