package models

// Dish - plato del menú.
type Dish struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// Ingredient - ingrediente de una ficha técnica. La cantidad está expresada
// en UnitID, que puede diferir de la unidad de inventario del producto.
type Ingredient struct {
	ProductID string  `json:"producto_id"`
	Quantity  float64 `json:"cantidad"`
	UnitID    string  `json:"unidad_id"`
}

// Recipe - ficha técnica de un plato: ingredientes más costos fijos por
// unidad producida.
type Recipe struct {
	ID          string       `json:"id"`
	DishID      string       `json:"plato_id"`
	Ingredients []Ingredient `json:"ingredientes"`
	OtherCosts  float64      `json:"otros_costos"`
	FuelCost    float64      `json:"costo_combustible"`
	LaborCost   float64      `json:"costo_mano_obra"`
}
