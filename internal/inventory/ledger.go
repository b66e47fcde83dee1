package inventory

import (
	"paladar-backend/internal/models"
)

// Las cuatro operaciones de este archivo son las únicas que tocan existencias
// y costo promedio. Todas reciben cantidades YA convertidas a la unidad de
// inventario del producto; quien revierte debe pasar exactamente los valores
// convertidos que se usaron al aplicar, nunca reconvertir.

// ApplyPurchase incorpora una compra pagada al inventario con costo promedio
// ponderado. El ítem se crea perezosamente en la primera compra del producto.
func ApplyPurchase(d *models.Document, productID string, convertedQty, convertedUnitCost float64) {
	it := d.FindInventoryItem(productID)
	if it == nil {
		unitID := ""
		if p := d.FindProduct(productID); p != nil {
			unitID = p.DefaultUnitID
		}
		d.Inventory = append(d.Inventory, models.InventoryItem{
			ProductID: productID,
			UnitID:    unitID,
		})
		it = &d.Inventory[len(d.Inventory)-1]
	}

	oldStock := it.Stock()
	oldValue := 0.0
	if it.AvgCost != nil {
		oldValue = oldStock * *it.AvgCost
	}

	it.CumulativeIn += convertedQty
	newStock := oldStock + convertedQty

	// Promedio ponderado recalculado entero en cada compra: el error de punto
	// flotante no se arrastra más allá del redondeo de una operación.
	var newCost float64
	if newStock > 0 {
		newCost = (oldValue + convertedQty*convertedUnitCost) / newStock
	} else {
		newCost = convertedUnitCost
	}
	if newCost < 0 {
		newCost = 0
	}
	it.AvgCost = &newCost
}

// ReversePurchase es el inverso algebraico exacto de ApplyPurchase: resta la
// cantidad de entradas (sin bajar de 0) y recompone el costo promedio con el
// valor previo a la compra. Con existencia resultante <= 0 el costo vuelve a 0.
func ReversePurchase(d *models.Document, productID string, convertedQty, convertedUnitCost float64) {
	it := d.FindInventoryItem(productID)
	if it == nil {
		return
	}

	curStock := it.Stock()
	curValue := 0.0
	if it.AvgCost != nil {
		curValue = curStock * *it.AvgCost
	}

	it.CumulativeIn -= convertedQty
	if it.CumulativeIn < 0 {
		it.CumulativeIn = 0
	}
	newStock := it.Stock()

	newCost := 0.0
	if newStock > 0 {
		newCost = (curValue - convertedQty*convertedUnitCost) / newStock
	}
	if newCost < 0 {
		newCost = 0
	}
	it.AvgCost = &newCost
}

// ApplySaleConsumption descuenta cantidad sin tocar el costo promedio: las
// ventas solo consumen existencia.
func ApplySaleConsumption(d *models.Document, productID string, convertedQty float64) {
	it := d.FindInventoryItem(productID)
	if it == nil {
		return
	}
	it.CumulativeOut += convertedQty
}

// ReverseSaleConsumption repone la cantidad consumida, sin bajar de 0.
func ReverseSaleConsumption(d *models.Document, productID string, convertedQty float64) {
	it := d.FindInventoryItem(productID)
	if it == nil {
		return
	}
	it.CumulativeOut -= convertedQty
	if it.CumulativeOut < 0 {
		it.CumulativeOut = 0
	}
}
