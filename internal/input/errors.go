package input

import "errors"

var (
	// ErrAlreadyRecording is returned by StartRecording while a macro
	// recording is in progress.
	ErrAlreadyRecording = errors.New("input: already recording a macro")

	// ErrNotRecording is returned by StopRecording when no recording is
	// in progress.
	ErrNotRecording = errors.New("input: not recording a macro")

	// ErrInvalidRegister is returned when a macro register name is not a
	// valid register.
	ErrInvalidRegister = errors.New("input: invalid macro register")

	// ErrRecursionLimit is reported when nested key dispatch exceeds the
	// configured bound.
	ErrRecursionLimit = errors.New("input: key dispatch recursion limit exceeded")
)
