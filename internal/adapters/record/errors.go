package record

import "errors"

// Sentinel kinds for record errors.
var (
	ErrNoPath = errors.New("record file path is empty")
	ErrLocked = errors.New("record file is locked by another run")
	ErrWrite  = errors.New("write record failed")
)
