package database

import "errors"

var (
	// ErrShortIDExists is returned when an insert hits the short id
	// primary key constraint. The service layer treats it as retryable.
	ErrShortIDExists = errors.New("short id exists")
	// ErrURLNotFound is returned when no record exists for a short id.
	ErrURLNotFound = errors.New("url not found")
	// ErrStorageInit is returned when the storage cannot be reached or
	// its schema cannot be prepared at startup. Fatal.
	ErrStorageInit = errors.New("storage initialization failed")
)
