package recipes

import (
	"testing"

	"paladar-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func avg(v float64) *float64 { return &v }

func docWithRecipe() *models.Document {
	d := models.NewDocument()
	d.Units = append(d.Units,
		models.Unit{ID: "u-g", Name: "g"},
		models.Unit{ID: "u-unidad", Name: "unidad"},
	)
	d.Products = append(d.Products,
		models.Product{ID: "p-arroz", Name: "Arroz", DefaultUnitID: "u-g"},
		models.Product{ID: "p-huevo", Name: "Huevo", DefaultUnitID: "u-unidad"},
	)
	d.Inventory = append(d.Inventory,
		models.InventoryItem{ProductID: "p-arroz", UnitID: "u-g", CumulativeIn: 1000, AvgCost: avg(0.05)},
		models.InventoryItem{ProductID: "p-huevo", UnitID: "u-unidad", CumulativeIn: 30, AvgCost: avg(12)},
	)
	d.Dishes = append(d.Dishes, models.Dish{ID: "d1", Name: "Arroz frito"})
	d.Recipes = append(d.Recipes, models.Recipe{
		ID:     "r1",
		DishID: "d1",
		Ingredients: []models.Ingredient{
			{ProductID: "p-arroz", Quantity: 200, UnitID: "u-g"},
			{ProductID: "p-huevo", Quantity: 2, UnitID: "u-unidad"},
		},
		OtherCosts: 5,
		FuelCost:   3,
		LaborCost:  10,
	})
	return d
}

func TestCostOfDish(t *testing.T) {
	d := docWithRecipe()

	cost, err := CostOfDish(d, "d1")
	require.NoError(t, err)
	// 200*0.05 + 2*12 + 5 + 3 + 10
	assert.InDelta(t, 52.0, cost, 1e-9)
}

func TestCostOfDishWithoutRecipe(t *testing.T) {
	d := docWithRecipe()
	_, err := CostOfDish(d, "d-fantasma")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestCostOfDishUndefinedIngredientCost(t *testing.T) {
	d := docWithRecipe()
	// Sin costo promedio el costo del plato es indefinido, nunca cero.
	d.FindInventoryItem("p-huevo").AvgCost = nil

	_, err := CostOfDish(d, "d1")
	assert.ErrorIs(t, err, ErrCostUnavailable)
}

func TestCheckSufficiencyEnough(t *testing.T) {
	d := docWithRecipe()

	shortfalls, err := CheckSufficiency(d, "d1", 5)
	require.NoError(t, err)
	assert.Empty(t, shortfalls)
}

func TestCheckSufficiencyReportsShortfall(t *testing.T) {
	d := docWithRecipe()
	// 4 platos piden 8 huevos y hay 30-25=5.
	d.FindInventoryItem("p-huevo").CumulativeOut = 25

	shortfalls, err := CheckSufficiency(d, "d1", 4)
	require.NoError(t, err)
	require.Len(t, shortfalls, 1)
	assert.Equal(t, "p-huevo", shortfalls[0].ProductID)
	assert.Equal(t, "Huevo", shortfalls[0].ProductName)
	assert.InDelta(t, 3.0, shortfalls[0].Missing, 1e-9)
	assert.Equal(t, "unidad", shortfalls[0].UnitName)
}

func TestCheckSufficiencyNoInventoryItem(t *testing.T) {
	d := docWithRecipe()
	d.Inventory = d.Inventory[:1] // el huevo nunca se ha comprado

	shortfalls, err := CheckSufficiency(d, "d1", 1)
	require.NoError(t, err)
	require.Len(t, shortfalls, 1)
	assert.Equal(t, 2.0, shortfalls[0].Missing)
}
