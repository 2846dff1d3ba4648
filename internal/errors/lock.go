//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import "strconv"

// LockError means another drushgen process holds the run lock.
type LockError struct {
	Base

	LockFile string

	// LockPID is zero when the holder did not record its PID.
	LockPID int
}

func NewLockError(lockFile string, lockPID int) *LockError {
	return &LockError{
		Base: Base{
			Code:    CodeLockHeld,
			Message: "base directory locked",
			Hint:    "Wait for the other process to finish, or\nrun 'rm " + lockFile + "' if it's stale.",
		},
		LockFile: lockFile,
		LockPID:  lockPID,
	}
}

func (e *LockError) details() []detail {
	d := []detail{{label: "Lock file", value: e.LockFile, tone: toneResource}}
	if e.LockPID > 0 {
		d = append(d, detail{label: "Held by PID", value: strconv.Itoa(e.LockPID), tone: toneActual})
	}
	return d
}
