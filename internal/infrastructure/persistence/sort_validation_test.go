package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("sideways"))
}

func TestValidateSortField(t *testing.T) {
	t.Run("allows whitelisted field", func(t *testing.T) {
		assert.Equal(t, "price", ValidateSortField("price", ProductSortFields, "created_at"))
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("name; DROP TABLE products", ProductSortFields, "created_at"))
	})

	t.Run("empty falls back to default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("", OrderSortFields, "created_at"))
	})
}
