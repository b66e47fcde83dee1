package recipes

import (
	"errors"
	"fmt"

	"paladar-backend/internal/models"
)

var (
	ErrRecipeNotFound = errors.New("el plato no tiene ficha técnica")

	// ErrCostUnavailable: algún ingrediente no tiene costo promedio definido.
	// El costo del plato es indefinido completo; nunca se sustituye por cero.
	ErrCostUnavailable = errors.New("costo no disponible")
)

// Shortfall - faltante de un ingrediente para cubrir una venta.
type Shortfall struct {
	ProductID   string  `json:"producto_id"`
	ProductName string  `json:"producto"`
	Missing     float64 `json:"faltante"`
	UnitName    string  `json:"unidad"`
}

// InsufficientError agrupa los faltantes de una venta que no alcanza.
type InsufficientError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("inventario insuficiente: %d ingrediente(s) sin existencia", len(e.Shortfalls))
}

// CostOfDish calcula el costo unitario de producción del plato: suma de
// cantidad de cada ingrediente por su costo promedio vigente, más los costos
// fijos de la receta.
func CostOfDish(d *models.Document, dishID string) (float64, error) {
	r := d.FindRecipeByDish(dishID)
	if r == nil {
		return 0, ErrRecipeNotFound
	}

	total := 0.0
	for _, ing := range r.Ingredients {
		it := d.FindInventoryItem(ing.ProductID)
		if it == nil || it.AvgCost == nil {
			return 0, fmt.Errorf("%w: ingrediente %s sin costo promedio", ErrCostUnavailable, ing.ProductID)
		}
		total += ing.Quantity * *it.AvgCost
	}
	total += r.OtherCosts + r.FuelCost + r.LaborCost
	return total, nil
}

// CheckSufficiency recorre los ingredientes del plato y devuelve un faltante
// por cada uno cuya existencia no cubre cantidad * saleQty. Lista vacía
// significa que la venta alcanza.
func CheckSufficiency(d *models.Document, dishID string, saleQty float64) ([]Shortfall, error) {
	r := d.FindRecipeByDish(dishID)
	if r == nil {
		return nil, ErrRecipeNotFound
	}

	var shortfalls []Shortfall
	for _, ing := range r.Ingredients {
		needed := ing.Quantity * saleQty
		stock := 0.0
		if it := d.FindInventoryItem(ing.ProductID); it != nil {
			stock = it.Stock()
		}
		if stock < needed {
			name, unit := ing.ProductID, ing.UnitID
			if p := d.FindProduct(ing.ProductID); p != nil {
				name = p.Name
			}
			if u := d.FindUnit(ing.UnitID); u != nil {
				unit = u.Name
			}
			shortfalls = append(shortfalls, Shortfall{
				ProductID:   ing.ProductID,
				ProductName: name,
				Missing:     needed - stock,
				UnitName:    unit,
			})
		}
	}
	return shortfalls, nil
}
