package store

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"ticketing-system/internal/status"
)

func TestLookupErr(t *testing.T) {
	t.Run("missing row maps to not found", func(t *testing.T) {
		err := fmt.Errorf("events e1: %w", lookupErr(sql.ErrNoRows))
		assert.ErrorIs(t, err, status.ErrNotFound)
	})

	t.Run("wrapped missing row maps to not found", func(t *testing.T) {
		wrapped := fmt.Errorf("query: %w", sql.ErrNoRows)
		assert.ErrorIs(t, lookupErr(wrapped), status.ErrNotFound)
	})

	t.Run("store failure passes through", func(t *testing.T) {
		failure := fmt.Errorf("database is locked")
		err := lookupErr(failure)
		assert.NotErrorIs(t, err, status.ErrNotFound)
		assert.Equal(t, failure, err)
	})
}
