package trade

import (
	"errors"
	"fmt"
	"time"

	"paladar-backend/internal/inventory"
	"paladar-backend/internal/menu"
	"paladar-backend/internal/models"
	"paladar-backend/internal/recipes"
	"paladar-backend/internal/units"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound     = errors.New("producto no encontrado")
	ErrProviderNotFound    = errors.New("proveedor no encontrado")
	ErrDishNotFound        = errors.New("plato no encontrado")
	ErrChannelNotFound     = errors.New("servicio no encontrado")
	ErrTransactionNotFound = errors.New("transacción no encontrada")
	ErrExpenseNotFound     = errors.New("gasto no encontrado")
	ErrNotPending          = errors.New("la transacción no está pendiente")
	ErrNotSettled          = errors.New("la transacción no está pagada")
)

// PurchaseInput - compra tal como la entró el operador, en su unidad original.
type PurchaseInput struct {
	ProductID     string
	ProviderID    string
	Quantity      float64
	UnitID        string
	UnitCost      float64
	Date          time.Time
	Description   string
	PaymentMethod string
	PaymentState  models.PaymentState
}

// SaleInput - venta de un plato por un servicio.
type SaleInput struct {
	DishID        string
	ChannelID     string
	Quantity      float64
	Date          time.Time
	Description   string
	PaymentMethod string
	PaymentState  models.PaymentState
}

// ExpenseInput - gasto fuera de inventario.
type ExpenseInput struct {
	Date        time.Time
	Description string
	Category    string
	Amount      float64
	Notes       string
}

// RecordPurchase convierte la compra a la unidad de inventario del producto,
// acredita el inventario si no quedó pendiente, y agrega la transacción con
// los valores originales Y convertidos (la reversión depende de ambos).
func RecordPurchase(d *models.Document, in PurchaseInput) (*models.Transaction, []string, error) {
	product := d.FindProduct(in.ProductID)
	if product == nil {
		return nil, nil, ErrProductNotFound
	}
	if in.ProviderID != "" && d.FindProvider(in.ProviderID) == nil {
		return nil, nil, ErrProviderNotFound
	}

	factor, missing, err := units.Resolve(d, in.UnitID, product.DefaultUnitID, product.ID)
	if err != nil {
		return nil, nil, err
	}
	var warnings []string
	if missing {
		warnings = append(warnings, fmt.Sprintf(
			"no hay conversión de %s a %s para %s; se asumió factor 1",
			in.UnitID, product.DefaultUnitID, product.Name))
	}

	convertedQty := in.Quantity * factor
	// El costo convertido conserva el gasto total bajo el cambio de unidad.
	convertedUnitCost := in.UnitCost
	if convertedQty > 0 {
		convertedUnitCost = (in.UnitCost * in.Quantity) / convertedQty
	}

	if in.PaymentState != models.PaymentPending {
		inventory.ApplyPurchase(d, product.ID, convertedQty, convertedUnitCost)
	}

	tx := models.Transaction{
		ID:            uuid.NewString(),
		Type:          models.TxPurchase,
		Date:          in.Date,
		Description:   in.Description,
		Amount:        in.UnitCost * in.Quantity,
		PaymentMethod: in.PaymentMethod,
		PaymentState:  in.PaymentState,
		Purchase: &models.PurchaseDetail{
			ProductID:         product.ID,
			ProviderID:        in.ProviderID,
			Quantity:          in.Quantity,
			UnitID:            in.UnitID,
			UnitCost:          in.UnitCost,
			ConvertedQty:      convertedQty,
			ConvertedUnitCost: convertedUnitCost,
		},
	}
	d.Transactions = append(d.Transactions, tx)
	return &d.Transactions[len(d.Transactions)-1], warnings, nil
}

// RecordSale valida existencias, costo y precio antes de mutar nada; después
// consume cada ingrediente y deja en la transacción las cantidades
// convertidas consumidas, que son las que usa la reversión.
func RecordSale(d *models.Document, in SaleInput) (*models.Transaction, []string, error) {
	dish := d.FindDish(in.DishID)
	if dish == nil {
		return nil, nil, ErrDishNotFound
	}
	if d.FindChannel(in.ChannelID) == nil {
		return nil, nil, ErrChannelNotFound
	}

	shortfalls, err := recipes.CheckSufficiency(d, in.DishID, in.Quantity)
	if err != nil {
		return nil, nil, err
	}
	if len(shortfalls) > 0 {
		return nil, nil, &recipes.InsufficientError{Shortfalls: shortfalls}
	}

	unitCost, err := recipes.CostOfDish(d, in.DishID)
	if err != nil {
		return nil, nil, err
	}

	price, err := menu.ResolvePrice(d, in.DishID, in.ChannelID)
	if err != nil {
		return nil, nil, err
	}

	// Se resuelven todas las conversiones antes de consumir nada: con la
	// política "fallar" un error a mitad de lista no debe dejar consumos a
	// medias.
	recipe := d.FindRecipeByDish(in.DishID)
	var warnings []string
	consumptions := make([]models.Consumption, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		destUnit := ing.UnitID
		if p := d.FindProduct(ing.ProductID); p != nil {
			destUnit = p.DefaultUnitID
		}
		factor, missing, err := units.Resolve(d, ing.UnitID, destUnit, ing.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if missing {
			warnings = append(warnings, fmt.Sprintf(
				"no hay conversión de %s a %s para el ingrediente %s; se asumió factor 1",
				ing.UnitID, destUnit, ing.ProductID))
		}
		consumptions = append(consumptions, models.Consumption{
			ProductID:    ing.ProductID,
			ConvertedQty: ing.Quantity * factor * in.Quantity,
		})
	}
	for _, cons := range consumptions {
		inventory.ApplySaleConsumption(d, cons.ProductID, cons.ConvertedQty)
	}

	amount := price * in.Quantity
	totalCost := unitCost * in.Quantity

	tx := models.Transaction{
		ID:            uuid.NewString(),
		Type:          models.TxSale,
		Date:          in.Date,
		Description:   in.Description,
		Amount:        amount,
		PaymentMethod: in.PaymentMethod,
		PaymentState:  in.PaymentState,
		Sale: &models.SaleDetail{
			DishID:       in.DishID,
			ChannelID:    in.ChannelID,
			Quantity:     in.Quantity,
			UnitPrice:    price,
			TotalCost:    totalCost,
			Profit:       amount - totalCost,
			Consumptions: consumptions,
		},
	}
	d.Transactions = append(d.Transactions, tx)
	return &d.Transactions[len(d.Transactions)-1], warnings, nil
}

// RecordExpense crea el gasto y su transacción espejo, enlazados por id en
// ambos sentidos.
func RecordExpense(d *models.Document, in ExpenseInput) (*models.Expense, *models.Transaction, error) {
	exp := models.Expense{
		ID:          uuid.NewString(),
		Date:        in.Date,
		Description: in.Description,
		Category:    in.Category,
		Amount:      in.Amount,
		Notes:       in.Notes,
	}
	tx := models.Transaction{
		ID:           uuid.NewString(),
		Type:         models.TxOtherExpense,
		Date:         in.Date,
		Description:  in.Description,
		Amount:       in.Amount,
		PaymentState: models.PaymentPaid,
		ExpenseID:    exp.ID,
	}
	exp.TransactionID = tx.ID

	d.Expenses = append(d.Expenses, exp)
	d.Transactions = append(d.Transactions, tx)
	return &d.Expenses[len(d.Expenses)-1], &d.Transactions[len(d.Transactions)-1], nil
}

// DeleteTransaction revierte los efectos de la transacción sobre el
// inventario (o el registro de gastos) y la elimina del registro. La
// reversión usa exclusivamente los valores convertidos guardados.
func DeleteTransaction(d *models.Document, txID string) error {
	idx := -1
	for i := range d.Transactions {
		if d.Transactions[i].ID == txID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrTransactionNotFound
	}
	tx := d.Transactions[idx]

	switch tx.Type {
	case models.TxSale:
		for _, c := range tx.Sale.Consumptions {
			inventory.ReverseSaleConsumption(d, c.ProductID, c.ConvertedQty)
		}
	case models.TxPurchase:
		// Una compra pendiente nunca tocó el inventario.
		if tx.PaymentState != models.PaymentPending {
			inventory.ReversePurchase(d, tx.Purchase.ProductID, tx.Purchase.ConvertedQty, tx.Purchase.ConvertedUnitCost)
		}
	case models.TxOtherExpense:
		removeLinkedExpense(d, &tx)
	default:
		return fmt.Errorf("tipo de transacción desconocido: %s", tx.Type)
	}

	d.Transactions = append(d.Transactions[:idx], d.Transactions[idx+1:]...)
	return nil
}

// removeLinkedExpense borra el gasto espejo. El enlace normal es por id; la
// igualdad de campos (descripción, importe, mismo día) queda solo como
// respaldo para documentos importados de versiones sin enlace.
func removeLinkedExpense(d *models.Document, tx *models.Transaction) {
	for i := range d.Expenses {
		e := &d.Expenses[i]
		if tx.ExpenseID != "" && e.ID == tx.ExpenseID {
			d.Expenses = append(d.Expenses[:i], d.Expenses[i+1:]...)
			return
		}
	}
	if tx.ExpenseID != "" {
		return
	}
	for i := range d.Expenses {
		e := &d.Expenses[i]
		if e.Description == tx.Description && e.Amount == tx.Amount && sameDay(e.Date, tx.Date) {
			d.Expenses = append(d.Expenses[:i], d.Expenses[i+1:]...)
			return
		}
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// DeleteExpense borra un gasto desde el lado del registro de gastos,
// llevándose también su transacción espejo (sin efectos de inventario).
func DeleteExpense(d *models.Document, expenseID string) error {
	idx := -1
	for i := range d.Expenses {
		if d.Expenses[i].ID == expenseID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrExpenseNotFound
	}
	exp := d.Expenses[idx]
	d.Expenses = append(d.Expenses[:idx], d.Expenses[idx+1:]...)

	for i := range d.Transactions {
		t := &d.Transactions[i]
		if t.Type == models.TxOtherExpense && (t.ID == exp.TransactionID || t.ExpenseID == exp.ID) {
			d.Transactions = append(d.Transactions[:i], d.Transactions[i+1:]...)
			break
		}
	}
	return nil
}

// SettleDebt pasa una transacción pendiente a pagada con el método dado. Para
// compras este es el momento en que la mercancía entra al inventario.
func SettleDebt(d *models.Document, txID, method string) error {
	tx := d.FindTransaction(txID)
	if tx == nil {
		return ErrTransactionNotFound
	}
	if tx.PaymentState != models.PaymentPending {
		return ErrNotPending
	}
	tx.PaymentState = models.PaymentPaid
	tx.PaymentMethod = method

	if tx.Type == models.TxPurchase {
		inventory.ApplyPurchase(d, tx.Purchase.ProductID, tx.Purchase.ConvertedQty, tx.Purchase.ConvertedUnitCost)
	}
	return nil
}

// UndoSettlement devuelve la transacción a pendiente y, para compras,
// revierte también el crédito de inventario que hizo la liquidación, de modo
// que una compra pendiente nunca quede reflejada en existencias.
func UndoSettlement(d *models.Document, txID string) error {
	tx := d.FindTransaction(txID)
	if tx == nil {
		return ErrTransactionNotFound
	}
	if tx.PaymentState != models.PaymentPaid {
		return ErrNotSettled
	}
	tx.PaymentState = models.PaymentPending
	tx.PaymentMethod = ""

	if tx.Type == models.TxPurchase {
		inventory.ReversePurchase(d, tx.Purchase.ProductID, tx.Purchase.ConvertedQty, tx.Purchase.ConvertedUnitCost)
	}
	return nil
}
