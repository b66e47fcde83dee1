package models

import "time"

// Expense - gasto fuera de compras de inventario (alquiler, electricidad...).
// Cada gasto tiene una transacción espejo en el registro, enlazada por
// TransactionID.
type Expense struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"fecha"`
	Description   string    `json:"descripcion"`
	Category      string    `json:"categoria"`
	Amount        float64   `json:"importe"`
	Notes         string    `json:"notas,omitempty"`
	TransactionID string    `json:"transaccion_id,omitempty"`
}
