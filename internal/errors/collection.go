package errors

var (
	ErrAmountRequired = &DomainError{
		Code:    "AMOUNT_REQUIRED",
		Message: "amount is required and must be positive",
		Kind:    KindInvalid,
	}
	ErrFeeRequired = &DomainError{
		Code:    "FEE_REQUIRED",
		Message: "an exam or fee must be selected",
		Kind:    KindInvalid,
	}
	ErrInvalidCollection = &DomainError{
		Code:    "INVALID_COLLECTION",
		Message: "invalid collection request",
		Kind:    KindInvalid,
	}
	ErrDuplicateCollection = &DomainError{
		Code:    "DUPLICATE_COLLECTION",
		Message: "fee already collected for this student",
		Kind:    KindConflict,
	}
	ErrCollectionNotFound = &DomainError{
		Code:    "COLLECTION_NOT_FOUND",
		Message: "fee collection not found",
		Kind:    KindNotFound,
	}
	ErrBatchTooLarge = &DomainError{
		Code:    "BATCH_TOO_LARGE",
		Message: "too many items in batch",
		Kind:    KindInvalid,
	}
)
