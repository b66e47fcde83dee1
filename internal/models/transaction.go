package models

import "time"

type TransactionType string

const (
	TxPurchase     TransactionType = "compra"
	TxSale         TransactionType = "venta"
	TxOtherExpense TransactionType = "otro_gasto"
)

type PaymentState string

const (
	PaymentPending PaymentState = "pendiente"
	PaymentPaid    PaymentState = "pagado"
)

// Transaction - entrada del registro de operaciones. Type decide cuál de los
// detalles (Purchase, Sale o ExpenseID) está presente; el resto queda vacío.
type Transaction struct {
	ID            string          `json:"id"`
	Type          TransactionType `json:"tipo"`
	Date          time.Time       `json:"fecha"`
	Description   string          `json:"descripcion,omitempty"`
	Amount        float64         `json:"importe_total"`
	PaymentMethod string          `json:"metodo_pago,omitempty"`
	PaymentState  PaymentState    `json:"estado_pago"`

	Purchase *PurchaseDetail `json:"compra,omitempty"`
	Sale     *SaleDetail     `json:"venta,omitempty"`
	// ExpenseID enlaza la transacción espejo con su gasto (ver internal/expense).
	ExpenseID string `json:"gasto_id,omitempty"`
}

// PurchaseDetail guarda tanto los valores originales como los convertidos a
// la unidad de inventario. La reversión usa los convertidos tal cual se
// guardaron; nunca se recalculan.
type PurchaseDetail struct {
	ProductID         string  `json:"producto_id"`
	ProviderID        string  `json:"proveedor_id,omitempty"`
	Quantity          float64 `json:"cantidad"`
	UnitID            string  `json:"unidad_id"`
	UnitCost          float64 `json:"costo_unitario"`
	ConvertedQty      float64 `json:"cantidad_convertida"`
	ConvertedUnitCost float64 `json:"costo_unitario_convertido"`
}

// SaleDetail - detalle de venta. Consumptions registra, por ingrediente, la
// cantidad ya convertida que se descontó del inventario, para poder revertir
// la venta de forma exacta.
type SaleDetail struct {
	DishID       string        `json:"plato_id"`
	ChannelID    string        `json:"servicio_id"`
	Quantity     float64       `json:"cantidad"`
	UnitPrice    float64       `json:"precio_unitario"`
	TotalCost    float64       `json:"costo_total"`
	Profit       float64       `json:"ganancia"`
	Consumptions []Consumption `json:"consumos"`
}

type Consumption struct {
	ProductID    string  `json:"producto_id"`
	ConvertedQty float64 `json:"cantidad_convertida"`
}
