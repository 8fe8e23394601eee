package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusAvailable.IsValid())
	assert.True(t, StatusOnLoan.IsValid())
	assert.True(t, StatusRetired.IsValid())
	assert.False(t, Status("").IsValid())
	assert.False(t, Status("misplaced").IsValid())
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusAvailable.CanTransitionTo(StatusOnLoan))
	assert.True(t, StatusAvailable.CanTransitionTo(StatusRetired))
	assert.True(t, StatusOnLoan.CanTransitionTo(StatusAvailable))
	assert.True(t, StatusRetired.CanTransitionTo(StatusAvailable))

	assert.False(t, StatusOnLoan.CanTransitionTo(StatusRetired))
	assert.False(t, StatusRetired.CanTransitionTo(StatusOnLoan))
	assert.False(t, StatusAvailable.CanTransitionTo(StatusAvailable))
}
