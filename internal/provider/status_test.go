package provider

import (
	"testing"

	"quickpay-be/internal/quickpay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromOperation(t *testing.T) {
	cases := []struct {
		opType string
		want   Status
	}{
		{"authorize", StatusAuthorized},
		{"capture", StatusCaptured},
		{"refund", StatusRefunded},
		{"cancel", StatusCancelled},
		{"checksum_failure", StatusInitialized},
		{"", StatusInitialized},
	}

	for _, tc := range cases {
		t.Run(tc.opType, func(t *testing.T) {
			op := &quickpay.Operation{Type: tc.opType}
			assert.Equal(t, tc.want, StatusFromOperation(op))
		})
	}

	t.Run("NilOperation", func(t *testing.T) {
		assert.Equal(t, StatusInitialized, StatusFromOperation(nil))
	})
}

func TestStatusFromState(t *testing.T) {
	assert.Equal(t, StatusAuthorized, StatusFromState("new"))
	assert.Equal(t, StatusCaptured, StatusFromState("processed"))
	assert.Equal(t, StatusError, StatusFromState("rejected"))
	assert.Equal(t, StatusPendingExternalSystem, StatusFromState("pending"))
	assert.Equal(t, StatusInitialized, StatusFromState("initial"))
	assert.Equal(t, StatusInitialized, StatusFromState(""))
}

func TestLastCompletedOperation(t *testing.T) {
	t.Run("PicksLastCompleted", func(t *testing.T) {
		ops := []quickpay.Operation{
			{Type: "authorize", Pending: false, QPStatusCode: "20000"},
			{Type: "capture", Pending: false, QPStatusCode: "20000"},
			{Type: "refund", Pending: true, QPStatusCode: "20000"},
		}

		op := LastCompletedOperation(ops)
		require.NotNil(t, op)
		assert.Equal(t, "capture", op.Type)
	})

	t.Run("SkipsFailedCodes", func(t *testing.T) {
		ops := []quickpay.Operation{
			{Type: "authorize", Pending: false, QPStatusCode: "20000"},
			{Type: "capture", Pending: false, QPStatusCode: "40000"},
		}

		op := LastCompletedOperation(ops)
		require.NotNil(t, op)
		assert.Equal(t, "authorize", op.Type)
	})

	t.Run("NoneCompleted", func(t *testing.T) {
		ops := []quickpay.Operation{
			{Type: "authorize", Pending: true, QPStatusCode: "20000"},
		}
		assert.Nil(t, LastCompletedOperation(ops))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Nil(t, LastCompletedOperation(nil))
	})
}

func TestCurrencyExponent(t *testing.T) {
	t.Run("TwoDecimal", func(t *testing.T) {
		exp, ok := CurrencyExponent("DKK")
		assert.True(t, ok)
		assert.Equal(t, 2, exp)
	})

	t.Run("ZeroDecimal", func(t *testing.T) {
		exp, ok := CurrencyExponent("JPY")
		assert.True(t, ok)
		assert.Equal(t, 0, exp)
	})

	t.Run("ThreeDecimal", func(t *testing.T) {
		exp, ok := CurrencyExponent("KWD")
		assert.True(t, ok)
		assert.Equal(t, 3, exp)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		_, ok := CurrencyExponent("dkk")
		assert.True(t, ok)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, ok := CurrencyExponent("XYZ")
		assert.False(t, ok)
	})
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(10000), ToMinorUnits(100.00, 2))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99, 2))
	assert.Equal(t, int64(100), ToMinorUnits(100, 0))
	assert.Equal(t, int64(12346), ToMinorUnits(12.3456, 3))

	assert.Equal(t, 100.00, FromMinorUnits(10000, 2))
	assert.Equal(t, 19.99, FromMinorUnits(1999, 2))
	assert.Equal(t, 100.0, FromMinorUnits(100, 0))
}
