package models

// Document - el estado completo del negocio. Se persiste entero como un solo
// documento JSON; las claves están en el idioma del operador porque el
// respaldo exportado es también su formato de intercambio.
type Document struct {
	Units        []Unit           `json:"unidades"`
	Conversions  []Conversion     `json:"conversiones"`
	Products     []Product        `json:"productos"`
	Providers    []Provider       `json:"proveedores"`
	Inventory    []InventoryItem  `json:"inventario"`
	Dishes       []Dish           `json:"platos"`
	Recipes      []Recipe         `json:"recetas"`
	Channels     []ServiceChannel `json:"servicios"`
	MenuPrices   []MenuPrice      `json:"precios_menu"`
	Transactions []Transaction    `json:"transacciones"`
	Expenses     []Expense        `json:"gastos"`
	Closings     []MonthlyClosing `json:"cierres"`
	Settings     Settings         `json:"configuracion"`
}

// NewDocument devuelve un documento vacío con la configuración por defecto y
// todas las colecciones inicializadas, para que el JSON exportado nunca lleve
// null donde va una lista.
func NewDocument() *Document {
	return &Document{
		Units:        []Unit{},
		Conversions:  []Conversion{},
		Products:     []Product{},
		Providers:    []Provider{},
		Inventory:    []InventoryItem{},
		Dishes:       []Dish{},
		Recipes:      []Recipe{},
		Channels:     []ServiceChannel{},
		MenuPrices:   []MenuPrice{},
		Transactions: []Transaction{},
		Expenses:     []Expense{},
		Closings:     []MonthlyClosing{},
		Settings:     DefaultSettings(),
	}
}

// -------------------------
// Búsquedas por id
// -------------------------

func (d *Document) FindUnit(id string) *Unit {
	for i := range d.Units {
		if d.Units[i].ID == id {
			return &d.Units[i]
		}
	}
	return nil
}

func (d *Document) FindProduct(id string) *Product {
	for i := range d.Products {
		if d.Products[i].ID == id {
			return &d.Products[i]
		}
	}
	return nil
}

func (d *Document) FindProvider(id string) *Provider {
	for i := range d.Providers {
		if d.Providers[i].ID == id {
			return &d.Providers[i]
		}
	}
	return nil
}

func (d *Document) FindInventoryItem(productID string) *InventoryItem {
	for i := range d.Inventory {
		if d.Inventory[i].ProductID == productID {
			return &d.Inventory[i]
		}
	}
	return nil
}

func (d *Document) FindDish(id string) *Dish {
	for i := range d.Dishes {
		if d.Dishes[i].ID == id {
			return &d.Dishes[i]
		}
	}
	return nil
}

// FindRecipeByDish devuelve la primera ficha técnica del plato; si hubiera
// duplicadas, las posteriores no cuentan.
func (d *Document) FindRecipeByDish(dishID string) *Recipe {
	for i := range d.Recipes {
		if d.Recipes[i].DishID == dishID {
			return &d.Recipes[i]
		}
	}
	return nil
}

func (d *Document) FindChannel(id string) *ServiceChannel {
	for i := range d.Channels {
		if d.Channels[i].ID == id {
			return &d.Channels[i]
		}
	}
	return nil
}

func (d *Document) FindMenuPriceByDish(dishID string) *MenuPrice {
	for i := range d.MenuPrices {
		if d.MenuPrices[i].DishID == dishID {
			return &d.MenuPrices[i]
		}
	}
	return nil
}

func (d *Document) FindTransaction(id string) *Transaction {
	for i := range d.Transactions {
		if d.Transactions[i].ID == id {
			return &d.Transactions[i]
		}
	}
	return nil
}

func (d *Document) FindClosing(month string) *MonthlyClosing {
	for i := range d.Closings {
		if d.Closings[i].Month == month {
			return &d.Closings[i]
		}
	}
	return nil
}
