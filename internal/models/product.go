package models

// Product - producto base de almacén. DefaultUnitID es la unidad canónica en
// la que se lleva el inventario.
type Product struct {
	ID            string `json:"id"`
	Name          string `json:"nombre"`
	DefaultUnitID string `json:"unidad_id"`
}

// Provider - proveedor de compras.
type Provider struct {
	ID    string `json:"id"`
	Name  string `json:"nombre"`
	Phone string `json:"telefono,omitempty"`
	Notes string `json:"notas,omitempty"`
}

// InventoryItem - existencias y costo promedio ponderado de un producto.
// Se crea al registrar la primera compra pagada del producto. AvgCost es nil
// mientras el costo no se haya determinado nunca.
type InventoryItem struct {
	ProductID     string   `json:"producto_id"`
	UnitID        string   `json:"unidad_id"`
	CumulativeIn  float64  `json:"entradas"`
	CumulativeOut float64  `json:"salidas"`
	MinimumStock  float64  `json:"stock_minimo"`
	AvgCost       *float64 `json:"costo_promedio,omitempty"`
}

// Stock - existencia actual (entradas acumuladas menos salidas acumuladas).
func (it *InventoryItem) Stock() float64 {
	return it.CumulativeIn - it.CumulativeOut
}
