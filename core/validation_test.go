package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	t.Run("date only", func(t *testing.T) {
		ts, err := ParseTimestamp("2024-09-10")
		require.NoError(t, err)
		assert.Equal(t, 2024, ts.Year())
		assert.Equal(t, time.September, ts.Month())
		assert.Equal(t, 10, ts.Day())
	})

	t.Run("datetime with zone", func(t *testing.T) {
		ts, err := ParseTimestamp("2022-06-01T08:30:00Z")
		require.NoError(t, err)
		assert.Equal(t, 8, ts.Hour())
	})

	t.Run("naive datetime treated as UTC", func(t *testing.T) {
		ts, err := ParseTimestamp("2022-06-01T08:30:00")
		require.NoError(t, err)
		assert.Equal(t, time.UTC, ts.Location())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseTimestamp("not-a-date")
		assert.ErrorIs(t, err, ErrBadTimestamp)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseTimestamp("")
		assert.ErrorIs(t, err, ErrBadTimestamp)
	})
}

func TestValidateDocument(t *testing.T) {
	valid := Document{ID: "doc-1", Text: "some text", Timestamp: "2024-01-15"}

	t.Run("valid document", func(t *testing.T) {
		doc := valid
		assert.NoError(t, ValidateDocument(&doc))
	})

	t.Run("nil document", func(t *testing.T) {
		err := ValidateDocument(nil)
		assert.ErrorIs(t, err, ErrInvalidDocument)
	})

	t.Run("empty id", func(t *testing.T) {
		doc := valid
		doc.ID = ""
		err := ValidateDocument(&doc)
		assert.ErrorIs(t, err, ErrInvalidDocument)
		assert.ErrorIs(t, err, ErrEmptyID)
	})

	t.Run("empty text", func(t *testing.T) {
		doc := valid
		doc.Text = ""
		err := ValidateDocument(&doc)
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		doc := valid
		doc.Timestamp = "the other day"
		err := ValidateDocument(&doc)
		assert.ErrorIs(t, err, ErrBadTimestamp)
	})
}
