// Package format contains types and functions shared by the hex record formats.
// It acts as a bridge between the file processor and the format specific code.
package format

import "errors"

// Available format names.
const (
	Intel     = "intel"
	Motorola  = "srec"
	Signetics = "sig"
)

// NoType marks a record of a format that has no record type field.
const NoType = -1

// Record is one decoded hex record. Type is NoType for formats that
// do not carry a record type field.
type Record struct {
	Type    int
	Address uint32
	Data    []byte
}

// Encoder converts a stream of bytes into hex records. Feed buffers the
// given bytes and returns all full records that became available, each
// terminated by a newline. Finish flushes the remaining partial record and
// returns the format specific trailer records. An encoder instance is not
// safe for concurrent use, feed and finish calls have to be sequential.
type Encoder interface {
	Feed(p []byte) ([]string, error)
	Finish() ([]string, error)
}

// Error kinds returned by the format packages, to be matched with errors.Is.
var (
	ErrInvalidSyntax    = errors.New("invalid record syntax")
	ErrLengthMismatch   = errors.New("record length mismatch")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrUnsupportedType  = errors.New("unsupported record type")
	ErrConfiguration    = errors.New("invalid configuration")
	ErrAddressOverflow  = errors.New("address overflow")
	ErrFinished         = errors.New("encoder is finished")
)
