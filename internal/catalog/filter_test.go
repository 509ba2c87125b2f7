package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zombie-01/tire/internal/domain"
)

func fixture() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Michelin Primacy", BrandID: "michelin", Size: "205/55R16", Price: 300, Condition: domain.ConditionNew, Popularity: 90},
		{ID: "2", Name: "Bridgestone Turanza", BrandID: "bridgestone", Size: "195/65R15", Price: 100, Condition: domain.ConditionNew, Popularity: 70},
		{ID: "3", Name: "Hankook Kinergy", BrandID: "hankook", Size: "205/55R16", Price: 200, Condition: domain.ConditionUsed, Popularity: 80},
		{ID: "4", Name: "Yokohama BluEarth", BrandID: "yokohama", Size: "225/45R17", Price: 400, Condition: domain.ConditionUsed, Popularity: 60},
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestApply_NoCriteria_ReturnsAllSortedByPopularity(t *testing.T) {
	result := Apply(fixture(), Criteria{})

	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(result))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	products := fixture()
	Apply(products, Criteria{Sort: SortPriceLow})

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(products))
}

func TestApply_BrandFilter(t *testing.T) {
	result := Apply(fixture(), Criteria{BrandID: "michelin"})

	require.Len(t, result, 1)
	assert.Equal(t, "1", result[0].ID)
}

func TestApply_PredicatesCombineWithAnd(t *testing.T) {
	result := Apply(fixture(), Criteria{Size: "205/55R16", Condition: domain.ConditionUsed})

	require.Len(t, result, 1)
	assert.Equal(t, "3", result[0].ID)
}

func TestApply_PriceRangeInclusive(t *testing.T) {
	result := Apply(fixture(), Criteria{PriceMin: 100, PriceMax: 100})

	require.Len(t, result, 1)
	assert.Equal(t, "2", result[0].ID)
}

func TestApply_DefaultCeilingCoversWholeCatalog(t *testing.T) {
	products := fixture()
	products[0].Price = DefaultPriceCeiling

	result := Apply(products, Criteria{})
	assert.Len(t, result, 4)

	products[0].Price = DefaultPriceCeiling + 1
	result = Apply(products, Criteria{})
	assert.Len(t, result, 3)
}

func TestApply_EmptyResultIsValid(t *testing.T) {
	result := Apply(fixture(), Criteria{BrandID: "nokian"})

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestApply_PriceSortsAreExactReverses(t *testing.T) {
	low := Apply(fixture(), Criteria{Sort: SortPriceLow})
	high := Apply(fixture(), Criteria{Sort: SortPriceHigh})

	require.Len(t, low, 4)
	for i := range low {
		assert.Equal(t, low[i].ID, high[len(high)-1-i].ID)
	}
}

func TestApply_NameSortIndependentOfPriceSort(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "B", Price: 300},
		{ID: "2", Name: "A", Price: 100},
	}

	byName := Apply(products, Criteria{Sort: SortName})
	byPrice := Apply(products, Criteria{Sort: SortPriceLow})
	assert.Equal(t, []string{"2", "1"}, ids(byName))
	assert.Equal(t, []string{"2", "1"}, ids(byPrice))

	// Third fixture where name order and price order diverge.
	diverging := []domain.Product{
		{ID: "1", Name: "A", Price: 300},
		{ID: "2", Name: "C", Price: 100},
		{ID: "3", Name: "B", Price: 200},
	}
	assert.Equal(t, []string{"1", "3", "2"}, ids(Apply(diverging, Criteria{Sort: SortName})))
	assert.Equal(t, []string{"2", "3", "1"}, ids(Apply(diverging, Criteria{Sort: SortPriceLow})))
}

func TestApply_MongolianNameOrdering(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "Өвлийн дугуй"},
		{ID: "2", Name: "Зуны дугуй"},
		{ID: "3", Name: "Бүх улирлын дугуй"},
	}

	result := Apply(products, Criteria{Sort: SortName})

	assert.Equal(t, []string{"3", "2", "1"}, ids(result))
}

func TestApply_StableForEqualSortKeys(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "A", Price: 100, Popularity: 50},
		{ID: "2", Name: "B", Price: 100, Popularity: 50},
		{ID: "3", Name: "C", Price: 100, Popularity: 50},
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(Apply(products, Criteria{Sort: SortPriceLow})))
	assert.Equal(t, []string{"1", "2", "3"}, ids(Apply(products, Criteria{})))
}
