package models

// ServiceChannel - vía de venta (restaurante, Catauro, Mandado, Zelle...).
// Las comisiones se aplican por coincidencia del nombre (ver cierre mensual).
type ServiceChannel struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// MenuPrice - lista de precios de un plato. Channels mapea id de servicio a
// precio; los campos zelle actúan de reserva para servicios cuyo nombre
// contiene "zelle", y PrecioRestaurante es el último recurso.
type MenuPrice struct {
	ID                     string             `json:"id"`
	DishID                 string             `json:"plato_id"`
	Channels               map[string]float64 `json:"precios_por_servicio"`
	PrecioZelleMandado     float64            `json:"precio_zelle_mandado,omitempty"`
	PrecioZelleRestaurante float64            `json:"precio_zelle_restaurante,omitempty"`
	PrecioRestaurante      float64            `json:"precio_restaurante,omitempty"`
}
