package feesource

import (
	apperrors "feedesk/internal/errors"
)

// Service errors
var (
	ErrInvalidDocument = apperrors.ErrInvalidFeeSource
	ErrUnknownSource   = apperrors.ErrUnknownFeeSource
)
