package seekql_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seekql/seekql"
)

func TestUnknownTableError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := seekql.NewUnknownTableError("users")
		assert.Equal(t, `seekql: unknown table "users"`, err.Error())
	})

	t.Run("IsUnknownTable", func(t *testing.T) {
		err := seekql.NewUnknownTableError("orders")
		assert.True(t, seekql.IsUnknownTable(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, seekql.IsUnknownTable(wrapped))

		// Non-matching error
		assert.False(t, seekql.IsUnknownTable(errors.New("other error")))
		assert.False(t, seekql.IsUnknownTable(nil))
	})
}

func TestUnknownFieldError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := seekql.NewUnknownFieldError("users", "nickname")
		assert.Equal(t, `seekql: unknown field "nickname" on table "users"`, err.Error())
	})

	t.Run("IsUnknownField", func(t *testing.T) {
		err := seekql.NewUnknownFieldError("users", "nickname")
		assert.True(t, seekql.IsUnknownField(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, seekql.IsUnknownField(wrapped))

		assert.False(t, seekql.IsUnknownField(errors.New("other error")))
		assert.False(t, seekql.IsUnknownField(nil))
	})
}

func TestTypeMismatchError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := seekql.NewTypeMismatchError("age", "integer", "ten")
		assert.Equal(t, `seekql: value ten (string) is not assignable to integer column "age"`, err.Error())
	})

	t.Run("IsTypeMismatch", func(t *testing.T) {
		err := seekql.NewTypeMismatchError("age", "integer", true)
		assert.True(t, seekql.IsTypeMismatch(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, seekql.IsTypeMismatch(wrapped))

		assert.False(t, seekql.IsTypeMismatch(errors.New("other error")))
		assert.False(t, seekql.IsTypeMismatch(nil))
	})
}

func TestEmptyLogicalGroupError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := seekql.NewEmptyLogicalGroupError("and", 0)
		assert.Equal(t, "seekql: and group has no children", err.Error())
	})

	t.Run("NotArity", func(t *testing.T) {
		err := seekql.NewEmptyLogicalGroupError("not", 2)
		assert.Equal(t, "seekql: NOT takes exactly one child, got 2", err.Error())
	})

	t.Run("IsEmptyLogicalGroup", func(t *testing.T) {
		err := seekql.NewEmptyLogicalGroupError("or", 0)
		assert.True(t, seekql.IsEmptyLogicalGroup(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, seekql.IsEmptyLogicalGroup(wrapped))

		assert.False(t, seekql.IsEmptyLogicalGroup(errors.New("other error")))
		assert.False(t, seekql.IsEmptyLogicalGroup(nil))
	})
}

func TestInvalidRangeError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := seekql.NewInvalidRangeError("age", 30, 20)
		assert.Equal(t, `seekql: invalid range on "age": low 30 > high 20`, err.Error())
	})

	t.Run("IsInvalidRange", func(t *testing.T) {
		err := seekql.NewInvalidRangeError("age", 30, 20)
		assert.True(t, seekql.IsInvalidRange(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, seekql.IsInvalidRange(wrapped))

		assert.False(t, seekql.IsInvalidRange(errors.New("other error")))
		assert.False(t, seekql.IsInvalidRange(nil))
	})
}

func TestInvalidIdentifierError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := seekql.NewInvalidIdentifierError("drop table", "column")
		assert.Equal(t, `seekql: invalid column identifier "drop table"`, err.Error())
	})

	t.Run("IsInvalidIdentifier", func(t *testing.T) {
		err := seekql.NewInvalidIdentifierError("1st", "table")
		assert.True(t, seekql.IsInvalidIdentifier(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, seekql.IsInvalidIdentifier(wrapped))

		assert.False(t, seekql.IsInvalidIdentifier(errors.New("other error")))
		assert.False(t, seekql.IsInvalidIdentifier(nil))
	})
}

func TestPageSizeExceededError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := seekql.NewPageSizeExceededError(500, 100)
		assert.Equal(t, "seekql: page size 500 exceeds maximum 100", err.Error())
	})

	t.Run("IsPageSizeExceeded", func(t *testing.T) {
		err := seekql.NewPageSizeExceededError(500, 100)
		assert.True(t, seekql.IsPageSizeExceeded(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, seekql.IsPageSizeExceeded(wrapped))

		assert.False(t, seekql.IsPageSizeExceeded(errors.New("other error")))
		assert.False(t, seekql.IsPageSizeExceeded(nil))
	})
}

func TestInvalidCursorError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := seekql.NewInvalidCursorError("token is not valid base64")
		assert.Equal(t, "seekql: invalid cursor: token is not valid base64", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := seekql.NewInvalidCursorError("field count mismatch")
		assert.True(t, errors.Is(err, seekql.ErrInvalidCursor))
	})

	t.Run("IsInvalidCursor", func(t *testing.T) {
		err := seekql.NewInvalidCursorError("truncated payload")
		assert.True(t, seekql.IsInvalidCursor(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, seekql.IsInvalidCursor(wrapped))

		// Sentinel error
		assert.True(t, seekql.IsInvalidCursor(seekql.ErrInvalidCursor))

		assert.False(t, seekql.IsInvalidCursor(errors.New("other error")))
		assert.False(t, seekql.IsInvalidCursor(nil))
	})
}

func TestUnsupportedDialectFeatureError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := seekql.NewUnsupportedDialectFeatureError("mysql", "RETURNING")
		assert.Equal(t, `seekql: dialect "mysql" does not support RETURNING`, err.Error())
	})

	t.Run("IsUnsupportedDialectFeature", func(t *testing.T) {
		err := seekql.NewUnsupportedDialectFeatureError("mysql", "RETURNING")
		assert.True(t, seekql.IsUnsupportedDialectFeature(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, seekql.IsUnsupportedDialectFeature(wrapped))

		assert.False(t, seekql.IsUnsupportedDialectFeature(errors.New("other error")))
		assert.False(t, seekql.IsUnsupportedDialectFeature(nil))
	})
}
