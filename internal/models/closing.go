package models

import "time"

// CategoryTotal - total de gastos de una categoría dentro del período.
type CategoryTotal struct {
	Category string  `json:"categoria"`
	Total    float64 `json:"total"`
}

// MonthlyClosing - cierre contable de un mes calendario. Inmutable una vez
// creado; a lo sumo uno por mes y el saldo inicial encadena con el saldo
// final del mes anterior cuando ese cierre existe.
type MonthlyClosing struct {
	ID          string    `json:"id"` // igual al mes, "YYYY-MM"
	Month       string    `json:"mes"`
	ClosingDate time.Time `json:"fecha_cierre"`

	OpeningBalance float64 `json:"saldo_inicial"`

	// Estado de resultados (base devengada).
	TotalRevenue       float64         `json:"total_ventas"`
	TotalCOGS          float64         `json:"costo_ventas"`
	GrossProfit        float64         `json:"ganancia_bruta"`
	TotalPurchases     float64         `json:"total_compras"`
	TotalCommissions   float64         `json:"total_comisiones"`
	TotalOtherExpenses float64         `json:"total_otros_gastos"`
	ExpensesByCategory []CategoryTotal `json:"gastos_por_categoria"`
	NetProfit          float64         `json:"ganancia_neta"`

	// Flujo de caja: el saldo final es un arrastre de caja, independiente de
	// la ganancia neta devengada. Se conservan ambos.
	ClosingBalance float64 `json:"saldo_final"`

	// Balance general al fin del período.
	InventoryValue float64 `json:"valor_inventario"`
	Receivables    float64 `json:"cuentas_por_cobrar"`
	Payables       float64 `json:"cuentas_por_pagar"`

	BusinessTaxPaid float64 `json:"impuesto_pagado"`
	Notes           string  `json:"notas,omitempty"`
}
