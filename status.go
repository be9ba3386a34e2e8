// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package feistel

// Status represents the result of a cipher operation
type Status int

const (
	// StatusOK indicates success
	StatusOK Status = iota

	// StatusErrKeySize indicates a master key of the wrong length
	StatusErrKeySize

	// StatusErrBlockSize indicates a block of the wrong length
	StatusErrBlockSize

	// StatusErrParams indicates a malformed cipher parameter set
	StatusErrParams

	// StatusErrMemory indicates memory allocation failure
	StatusErrMemory
)

// Error returns the error message for the status
func (s Status) Error() string {
	switch s {
	case StatusOK:
		return "success"
	case StatusErrKeySize:
		return "wrong master key length"
	case StatusErrBlockSize:
		return "wrong block length"
	case StatusErrParams:
		return "malformed cipher parameters"
	case StatusErrMemory:
		return "memory allocation failure"
	default:
		return "unknown error"
	}
}
