package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartItem(t *testing.T) {
	productID := uuid.New()

	t.Run("creates item with valid inputs", func(t *testing.T) {
		item, err := NewCartItem("user_2abc", productID, "Den", "L", 2)
		require.NoError(t, err)
		require.NotNil(t, item)

		assert.Equal(t, "user_2abc", item.UserID)
		assert.Equal(t, productID, item.ProductID)
		assert.Equal(t, "Den", item.Color)
		assert.Equal(t, "L", item.Size)
		assert.Equal(t, 2, item.Quantity)
	})

	t.Run("fails with empty user", func(t *testing.T) {
		_, err := NewCartItem("", productID, "Den", "L", 1)
		require.Error(t, err)
	})

	t.Run("fails with nil product", func(t *testing.T) {
		_, err := NewCartItem("user_2abc", uuid.Nil, "Den", "L", 1)
		require.Error(t, err)
	})

	t.Run("fails with zero quantity", func(t *testing.T) {
		_, err := NewCartItem("user_2abc", productID, "Den", "L", 0)
		require.Error(t, err)
	})
}

func TestCartItemMerge(t *testing.T) {
	item, err := NewCartItem("user_2abc", uuid.New(), "Trang", "M", 1)
	require.NoError(t, err)

	require.NoError(t, item.Merge(2))
	assert.Equal(t, 3, item.Quantity)

	assert.Error(t, item.Merge(0))
	assert.Equal(t, 3, item.Quantity)
}

func TestCartItemSetQuantity(t *testing.T) {
	item, err := NewCartItem("user_2abc", uuid.New(), "Trang", "M", 1)
	require.NoError(t, err)

	require.NoError(t, item.SetQuantity(5))
	assert.Equal(t, 5, item.Quantity)

	assert.Error(t, item.SetQuantity(0))
	assert.Error(t, item.SetQuantity(-1))
}

func TestCartItemSameVariant(t *testing.T) {
	productID := uuid.New()
	item, err := NewCartItem("user_2abc", productID, "Den", "XL", 1)
	require.NoError(t, err)

	assert.True(t, item.SameVariant(productID, "Den", "XL"))
	assert.False(t, item.SameVariant(productID, "Den", "L"))
	assert.False(t, item.SameVariant(productID, "Trang", "XL"))
	assert.False(t, item.SameVariant(uuid.New(), "Den", "XL"))

	assert.True(t, item.BelongsTo("user_2abc"))
	assert.False(t, item.BelongsTo("user_2xyz"))
}
