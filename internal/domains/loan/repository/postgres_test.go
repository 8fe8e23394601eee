package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderByDefaultsToInsertionOrder(t *testing.T) {
	// Ids are random uuids, so they must not be the fallback sort key.
	assert.Equal(t, "created_at", orderBy(""))
	assert.Equal(t, "loan_date DESC", orderBy("loan_date DESC"))
}
