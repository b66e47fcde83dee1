package inventory

import (
	"testing"

	"paladar-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docWithProduct() *models.Document {
	d := models.NewDocument()
	d.Units = append(d.Units, models.Unit{ID: "u-g", Name: "g"})
	d.Products = append(d.Products, models.Product{ID: "p1", Name: "Arroz", DefaultUnitID: "u-g"})
	return d
}

func TestApplyPurchaseCreatesItemLazily(t *testing.T) {
	d := docWithProduct()
	require.Nil(t, d.FindInventoryItem("p1"))

	ApplyPurchase(d, "p1", 10, 5)

	it := d.FindInventoryItem("p1")
	require.NotNil(t, it)
	assert.Equal(t, "u-g", it.UnitID)
	assert.Equal(t, 10.0, it.Stock())
	require.NotNil(t, it.AvgCost)
	assert.Equal(t, 5.0, *it.AvgCost)
}

func TestApplyPurchaseWeightedAverage(t *testing.T) {
	d := docWithProduct()
	ApplyPurchase(d, "p1", 10, 5)
	ApplyPurchase(d, "p1", 10, 7)

	it := d.FindInventoryItem("p1")
	assert.Equal(t, 20.0, it.Stock())
	// (10*5 + 10*7) / 20
	assert.InDelta(t, 6.0, *it.AvgCost, 1e-9)
}

func TestReversePurchaseRestoresPreviousAverage(t *testing.T) {
	d := docWithProduct()
	ApplyPurchase(d, "p1", 10, 5)
	ApplyPurchase(d, "p1", 10, 7)

	ReversePurchase(d, "p1", 10, 7)

	it := d.FindInventoryItem("p1")
	assert.Equal(t, 10.0, it.Stock())
	assert.InDelta(t, 5.0, *it.AvgCost, 1e-9)
}

func TestReverseOnlyPurchaseZeroesItem(t *testing.T) {
	d := docWithProduct()
	ApplyPurchase(d, "p1", 10, 5)
	ReversePurchase(d, "p1", 10, 5)

	it := d.FindInventoryItem("p1")
	assert.Equal(t, 0.0, it.Stock())
	require.NotNil(t, it.AvgCost)
	assert.Equal(t, 0.0, *it.AvgCost)
}

func TestReversePurchaseUnknownProductIsNoop(t *testing.T) {
	d := docWithProduct()
	ReversePurchase(d, "p-fantasma", 10, 5)
	assert.Nil(t, d.FindInventoryItem("p-fantasma"))
}

func TestSaleConsumptionDoesNotTouchCost(t *testing.T) {
	d := docWithProduct()
	ApplyPurchase(d, "p1", 10, 5)

	ApplySaleConsumption(d, "p1", 4)

	it := d.FindInventoryItem("p1")
	assert.Equal(t, 6.0, it.Stock())
	assert.Equal(t, 5.0, *it.AvgCost)

	ReverseSaleConsumption(d, "p1", 4)
	assert.Equal(t, 10.0, it.Stock())
}

func TestReverseSaleConsumptionFloorsAtZero(t *testing.T) {
	d := docWithProduct()
	ApplyPurchase(d, "p1", 10, 5)
	ApplySaleConsumption(d, "p1", 4)

	ReverseSaleConsumption(d, "p1", 100)

	it := d.FindInventoryItem("p1")
	assert.Equal(t, 0.0, it.CumulativeOut)
}
