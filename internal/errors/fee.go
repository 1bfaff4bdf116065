package errors

var (
	ErrStudentNotFound = &DomainError{
		Code:    "STUDENT_NOT_FOUND",
		Message: "student not found",
		Kind:    KindNotFound,
	}
	ErrExamNotFound = &DomainError{
		Code:    "EXAM_NOT_FOUND",
		Message: "exam not found",
		Kind:    KindNotFound,
	}
	ErrExamDeleted = &DomainError{
		Code:    "EXAM_DELETED",
		Message: "exam has been deleted",
		Kind:    KindConflict,
	}
	ErrUnknownFeeSource = &DomainError{
		Code:    "UNKNOWN_FEE_SOURCE",
		Message: "unknown fee source",
		Kind:    KindNotFound,
	}
	ErrInvalidFeeSource = &DomainError{
		Code:    "INVALID_FEE_SOURCE",
		Message: "invalid fee source document",
		Kind:    KindInvalid,
	}
	ErrSchoolAccessDenied = &DomainError{
		Code:    "SCHOOL_ACCESS_DENIED",
		Message: "no access to this school",
		Kind:    KindForbidden,
	}
)
