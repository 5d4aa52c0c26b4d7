package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serdchef/coskunyayci-backend/internal/catalog"
)

func TestFallback_CopiesAreIndependent(t *testing.T) {
	first := catalog.Fallback()
	require.NotEmpty(t, first)
	require.NotEmpty(t, first[0].Variants)

	first[0].Name = "mutated"
	first[0].Variants[0].Stock = -1
	first[0].Variants[0].Price = 1

	second := catalog.Fallback()
	assert.NotEqual(t, "mutated", second[0].Name)
	assert.NotEqual(t, -1, second[0].Variants[0].Stock)
	assert.NotEqual(t, int64(1), second[0].Variants[0].Price)
}

func TestFallbackBySKU_CopiesAreIndependent(t *testing.T) {
	p, ok := catalog.FallbackBySKU("BKLV-FISTIK")
	require.True(t, ok)
	require.NotEmpty(t, p.Variants)

	p.Variants[0].Stock = -1

	again, ok := catalog.FallbackBySKU("BKLV-FISTIK")
	require.True(t, ok)
	assert.NotEqual(t, -1, again.Variants[0].Stock)
}

func TestFallbackBySKU_UnknownSKU(t *testing.T) {
	_, ok := catalog.FallbackBySKU("NOPE")
	assert.False(t, ok)
}
