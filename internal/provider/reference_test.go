package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrderReference(t *testing.T) {
	t.Run("ShortNumberUnchanged", func(t *testing.T) {
		ref, err := NormalizeOrderReference("ORD-12345", "INV-{0}")
		assert.NoError(t, err)
		assert.Equal(t, "ORD-12345", ref)
	})

	t.Run("BarePlaceholderNeverStrips", func(t *testing.T) {
		long := "ORDER-000000000000012345"
		ref, err := NormalizeOrderReference(long, "{0}")
		assert.NoError(t, err)
		assert.Equal(t, long, ref)
	})

	t.Run("NoTemplate", func(t *testing.T) {
		long := "ORDER-000000000000012345"
		ref, err := NormalizeOrderReference(long, "")
		assert.NoError(t, err)
		assert.Equal(t, long, ref)
	})

	t.Run("TemplateWithoutPlaceholder", func(t *testing.T) {
		long := "ORDER-000000000000012345"
		ref, err := NormalizeOrderReference(long, "INV-")
		assert.NoError(t, err)
		assert.Equal(t, long, ref)
	})

	t.Run("StripPrefix", func(t *testing.T) {
		ref, err := NormalizeOrderReference("INV-00000000000012345", "INV-{0}")
		require.NoError(t, err)
		assert.Equal(t, "00000000000012345", ref)
		assert.LessOrEqual(t, len(ref), 20)
	})

	t.Run("StripSuffix", func(t *testing.T) {
		ref, err := NormalizeOrderReference("00000000000012345-SHOP", "{0}-SHOP")
		require.NoError(t, err)
		assert.Equal(t, "00000000000012345", ref)
	})

	t.Run("StripBoth", func(t *testing.T) {
		ref, err := NormalizeOrderReference("INV-00000000000012345-X", "INV-{0}-X")
		require.NoError(t, err)
		assert.Equal(t, "00000000000012345", ref)
	})

	t.Run("Idempotent", func(t *testing.T) {
		once, err := NormalizeOrderReference("INV-00000000000012345", "INV-{0}")
		require.NoError(t, err)
		twice, err := NormalizeOrderReference(once, "INV-{0}")
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("DecorationLongerThanNumber", func(t *testing.T) {
		_, err := NormalizeOrderReference("123456789012345678901", "PREFIX-IS-VERY-VERY-LONG-{0}-AND-SUFFIX-TOO")
		assert.ErrorIs(t, err, ErrInvalidTemplate)
	})

	t.Run("SuffixLongerThanNumber", func(t *testing.T) {
		_, err := NormalizeOrderReference("123456789012345678901", "{0}-THIS-SUFFIX-IS-LONGER-THAN-THE-NUMBER")
		assert.ErrorIs(t, err, ErrInvalidTemplate)
	})
}
