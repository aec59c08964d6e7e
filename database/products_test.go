package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/model"
)

func TestProductFilterEmpty(t *testing.T) {
	assert.Empty(t, productFilter(model.ProductFilter{}))
}

func TestProductFilter(t *testing.T) {
	lo, hi := 10.0, 50.0
	filter := productFilter(model.ProductFilter{
		Name:     "shirt (v2)",
		Brand:    "Nike",
		Color:    "red",
		Size:     "xl",
		MinPrice: &lo,
		MaxPrice: &hi,
	})

	assert.Equal(t, primitive.Regex{Pattern: `shirt \(v2\)`, Options: "i"}, filter["name"])
	assert.Equal(t, primitive.Regex{Pattern: "Nike", Options: "i"}, filter["brand"])
	assert.Equal(t, primitive.Regex{Pattern: "red", Options: "i"}, filter["colors"])
	assert.Equal(t, primitive.Regex{Pattern: "xl", Options: "i"}, filter["sizes"])
	assert.NotContains(t, filter, "category")
	assert.Equal(t, bson.M{"$gte": 10.0, "$lte": 50.0}, filter["price"])
}

func TestProductFilterOpenPriceRange(t *testing.T) {
	lo := 25.0
	filter := productFilter(model.ProductFilter{MinPrice: &lo})
	assert.Equal(t, bson.M{"$gte": 25.0}, filter["price"])
}

func TestProductUpdateOnlyProvidedFields(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	name := "Runner"
	qty := 0
	set := productUpdate(model.UpdateProductRequest{Name: &name, TotalQty: &qty, Colors: []string{"blue"}}, now)

	require.Len(t, set, 4)
	assert.Equal(t, "Runner", set["name"])
	assert.Equal(t, 0, set["totalQty"])
	assert.Equal(t, []string{"blue"}, set["colors"])
	assert.Equal(t, now, set["updatedAt"])
}
