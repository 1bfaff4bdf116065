package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	specific := ErrDuplicateCollection.WithMessage("fee %s already collected", "E1")
	wrapped := fmt.Errorf("record: %w", specific)

	assert.True(t, stderrors.Is(wrapped, ErrDuplicateCollection))
	assert.False(t, stderrors.Is(wrapped, ErrAmountRequired))
	assert.Equal(t, "fee E1 already collected", specific.Error())
}

func TestAsDomain(t *testing.T) {
	de, ok := AsDomain(fmt.Errorf("wrap: %w", ErrExamDeleted))
	assert.True(t, ok)
	assert.Equal(t, KindConflict, de.Kind)

	_, ok = AsDomain(stderrors.New("plain"))
	assert.False(t, ok)
}
