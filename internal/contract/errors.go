package contract

import "errors"

var (
	// ErrEmptyResult is returned when a read call returns no data at all.
	// Callers treat it as "nothing stored", not as a failure.
	ErrEmptyResult = errors.New("contract returned empty result")

	// ErrMalformed marks return data that does not decode into a valid record.
	ErrMalformed = errors.New("malformed contract result")

	// ErrUnsupported is returned for methods the loaded interface does not declare.
	ErrUnsupported = errors.New("method not supported by contract interface")

	ErrLengthMismatch  = errors.New("parallel argument arrays differ in length")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoSigner        = errors.New("no transaction signer")
	ErrReverted        = errors.New("transaction reverted")
)
