package collection

import apperrors "feedesk/internal/errors"

var (
	ErrAmountRequired      = apperrors.ErrAmountRequired
	ErrFeeRequired         = apperrors.ErrFeeRequired
	ErrInvalidRequest      = apperrors.ErrInvalidCollection
	ErrDuplicateCollection = apperrors.ErrDuplicateCollection
	ErrCollectionNotFound  = apperrors.ErrCollectionNotFound
	ErrBatchTooLarge       = apperrors.ErrBatchTooLarge
	ErrStudentNotFound     = apperrors.ErrStudentNotFound
	ErrExamNotFound        = apperrors.ErrExamNotFound
	ErrExamDeleted         = apperrors.ErrExamDeleted
)
