// Package status defines the result codes and error type shared by every
// fallible operation in this module: construction of capability masks,
// engines, scopes, and the batched kernels themselves.
package status

import "fmt"

// Code enumerates the outcomes a kernel operation can report.
type Code int

const (
	Success Code = iota
	BadAlloc
	InvalidUTF8
	ContainsDuplicates
	OverflowRisk
	UnexpectedDimensions
	MissingGPU
	DeviceCodeMismatch
	DeviceMemoryMismatch
	Unknown
)

var names = [...]string{
	Success:              "success",
	BadAlloc:              "bad_alloc",
	InvalidUTF8:           "invalid_utf8",
	ContainsDuplicates:    "contains_duplicates",
	OverflowRisk:          "overflow_risk",
	UnexpectedDimensions:  "unexpected_dimensions",
	MissingGPU:            "missing_gpu",
	DeviceCodeMismatch:    "device_code_mismatch",
	DeviceMemoryMismatch:  "device_memory_mismatch",
	Unknown:               "unknown",
}

var messages = [...]string{
	Success:              "operation completed successfully",
	BadAlloc:              "allocator failed to satisfy a request",
	InvalidUTF8:           "input is not valid UTF-8",
	ContainsDuplicates:    "input set contains duplicate entries",
	OverflowRisk:          "computation would overflow the result type",
	UnexpectedDimensions:  "input has unexpected dimensions",
	MissingGPU:            "no GPU capability is present on this host",
	DeviceCodeMismatch:    "engine variant does not match the device scope",
	DeviceMemoryMismatch:  "buffer was not allocated for the requested device",
	Unknown:               "unknown error",
}

// String returns the stable, lower_snake_case wire name for the code.
func (c Code) String() string {
	if int(c) < 0 || int(c) >= len(names) {
		return names[Unknown]
	}
	return names[c]
}

// Message returns a human-readable diagnostic message for the code.
func (c Code) Message() string {
	if int(c) < 0 || int(c) >= len(messages) {
		return messages[Unknown]
	}
	return messages[c]
}

// Error pairs a Code with the operation that produced it and an optional
// detail string. It implements error and unwraps to nil; callers match on
// Code via errors.As, not on message text.
type Error struct {
	Code   Code
	Op     string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code.Message())
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code.Message(), e.Detail)
}

// New constructs a status error for op with an optional formatted detail.
func New(op string, code Code, format string, args ...any) *Error {
	e := &Error{Code: code, Op: op}
	if format != "" {
		e.Detail = fmt.Sprintf(format, args...)
	}
	return e
}

// Is allows errors.Is(err, &status.Error{Code: X}) style matching on code
// alone, ignoring Op/Detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}
