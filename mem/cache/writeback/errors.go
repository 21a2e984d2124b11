package writeback

import "errors"

var (
	// ErrInvalidSpec is returned when a Spec cannot be built.
	ErrInvalidSpec = errors.New("invalid write-back cache spec")

	// ErrBusy is returned when a request is presented while the previous one
	// has not been accepted.
	ErrBusy = errors.New("a request is already presented")

	// ErrBadRequest is returned when a request does not fit the cache.
	ErrBadRequest = errors.New("bad request")

	// ErrUnalignedAccess is returned when a read crosses a line boundary and
	// the cache is not coupled.
	ErrUnalignedAccess = errors.New("access crosses a line boundary")

	// ErrWriteBackFault is reported after the backing store fails to take a
	// dirty line.
	ErrWriteBackFault = errors.New("write-back fault")
)
