package repositories

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already taken")
	ErrStudentNotFound    = errors.New("student not found")
	ErrExamNotFound       = errors.New("exam not found")
	ErrCollectionNotFound = errors.New("fee collection not found")
	ErrFeeSourceNotFound  = errors.New("fee source not found")
	ErrUnknownFeeSource   = errors.New("unknown fee source kind")
	ErrDatabaseOperation  = errors.New("database operation failed")
)
