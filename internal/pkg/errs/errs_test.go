package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"deliverydispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without_cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", "42")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "42", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 42", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with_cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("courier", "7", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: courier, ID is: 7 (cause: connection reset)",
			err.Error())
	})

	t.Run("stringer_id_is_rendered", func(t *testing.T) {
		id := uuid.MustParse("6f1c1a3e-2b7a-4d0e-9d55-7c2f4b8a1e90")
		err := errs.NewObjectNotFoundError("order", id)

		assert.Equal(t, "object not found: 6f1c1a3e-2b7a-4d0e-9d55-7c2f4b8a1e90", err.Error())
	})

	t.Run("integer_id_is_rendered", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", 456)

		assert.Equal(t, "object not found: 456", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	err := errs.NewValueIsInvalidError("transport")
	assert.Equal(t, "value is invalid: transport", err.Error())
	assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())

	withCause := errs.NewValueIsInvalidErrorWithCause("transport", errors.New("unknown name"))
	assert.Equal(t, "value is invalid: transport (cause: unknown name)", withCause.Error())
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("without_cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("x", 11, 1, 10)

		assert.Equal(t, 11, err.Value)
		assert.Equal(t, 1, err.Min)
		assert.Equal(t, 10, err.Max)
		assert.Equal(t, "value is invalid: 11 is x, min value is 1, max value is 10", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("with_cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("y", 0, 1, 10, errors.New("below grid"))

		assert.Equal(t,
			"value is invalid: 0 is y, min value is 1, max value is 10 (cause: below grid)",
			err.Error())
	})

	t.Run("newlines_are_flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("street", "Main\nStreet", 0, 10)

		assert.Contains(t, err.Error(), "Main Street")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("name")
	assert.Equal(t, "value is required: name", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())

	withCause := errs.NewValueIsRequiredErrorWithCause("name", errors.New("blank"))
	assert.Equal(t, "value is required: name (cause: blank)", withCause.Error())
}

func TestErrorsMatchSentinelsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("assign orders: %w", errs.NewObjectNotFoundError("courier", "1"))
	require.ErrorIs(t, wrapped, errs.ErrObjectNotFound)

	var notFound *errs.ObjectNotFoundError
	require.ErrorAs(t, wrapped, &notFound)
	assert.Equal(t, "courier", notFound.ParamName)

	joined := errors.Join(errs.NewValueIsRequiredError("name"), errs.NewValueIsOutOfRangeError("x", 0, 1, 10))
	require.ErrorIs(t, joined, errs.ErrValueIsRequired)
	require.ErrorIs(t, joined, errs.ErrValueIsOutOfRange)
}
