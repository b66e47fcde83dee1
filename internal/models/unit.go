package models

// Unit - unidad de medida (kg, g, litro, docena de huevos...).
type Unit struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// Conversion - arista dirigida del grafo de conversiones: 1 unidad de origen
// equivale a Factor unidades de destino. No hay búsqueda transitiva ni
// inversión automática; cada dirección se registra por separado. Con
// ProductID la arista vale solo para ese producto y tiene prioridad sobre la
// genérica.
type Conversion struct {
	ID           string  `json:"id"`
	OriginUnitID string  `json:"unidad_origen"`
	DestUnitID   string  `json:"unidad_destino"`
	Factor       float64 `json:"factor"`
	ProductID    string  `json:"producto_id,omitempty"`
}
