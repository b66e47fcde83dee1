package trade

import (
	"testing"
	"time"

	"paladar-backend/internal/models"
	"paladar-backend/internal/recipes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

// newBusinessDoc arma un negocio mínimo: arroz en gramos con conversión
// kg->g, un plato con ficha técnica y precio base de restaurante.
func newBusinessDoc() *models.Document {
	d := models.NewDocument()
	d.Units = append(d.Units,
		models.Unit{ID: "u-kg", Name: "kg"},
		models.Unit{ID: "u-g", Name: "g"},
	)
	d.Conversions = append(d.Conversions, models.Conversion{
		ID: "c1", OriginUnitID: "u-kg", DestUnitID: "u-g", Factor: 1000,
	})
	d.Products = append(d.Products, models.Product{ID: "p-arroz", Name: "Arroz", DefaultUnitID: "u-g"})
	d.Providers = append(d.Providers, models.Provider{ID: "prov1", Name: "Mercado Agropecuario"})
	d.Dishes = append(d.Dishes, models.Dish{ID: "d1", Name: "Arroz blanco"})
	d.Recipes = append(d.Recipes, models.Recipe{
		ID:     "r1",
		DishID: "d1",
		Ingredients: []models.Ingredient{
			{ProductID: "p-arroz", Quantity: 200, UnitID: "u-g"},
		},
	})
	d.Channels = append(d.Channels, models.ServiceChannel{ID: "ch-rest", Name: "Restaurante"})
	d.MenuPrices = append(d.MenuPrices, models.MenuPrice{
		ID: "mp1", DishID: "d1", PrecioRestaurante: 50,
	})
	return d
}

func recordPaidPurchase(t *testing.T, d *models.Document) *models.Transaction {
	t.Helper()
	tx, warnings, err := RecordPurchase(d, PurchaseInput{
		ProductID:    "p-arroz",
		ProviderID:   "prov1",
		Quantity:     2,
		UnitID:       "u-kg",
		UnitCost:     100,
		Date:         day,
		PaymentState: models.PaymentPaid,
	})
	require.NoError(t, err)
	require.Empty(t, warnings)
	return tx
}

func TestRecordPurchaseConvertsToInventoryUnit(t *testing.T) {
	d := newBusinessDoc()

	tx := recordPaidPurchase(t, d)

	assert.Equal(t, models.TxPurchase, tx.Type)
	assert.Equal(t, 200.0, tx.Amount) // 2 kg * 100/kg
	require.NotNil(t, tx.Purchase)
	assert.Equal(t, 2000.0, tx.Purchase.ConvertedQty)
	// El gasto total se conserva: 200 / 2000 g.
	assert.InDelta(t, 0.1, tx.Purchase.ConvertedUnitCost, 1e-9)

	it := d.FindInventoryItem("p-arroz")
	require.NotNil(t, it)
	assert.Equal(t, 2000.0, it.Stock())
	assert.InDelta(t, 0.1, *it.AvgCost, 1e-9)
}

func TestRecordPurchaseUnknownProduct(t *testing.T) {
	d := newBusinessDoc()
	_, _, err := RecordPurchase(d, PurchaseInput{ProductID: "p-fantasma", Quantity: 1, UnitID: "u-g"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRecordPurchaseMissingConversionWarns(t *testing.T) {
	d := newBusinessDoc()
	d.Units = append(d.Units, models.Unit{ID: "u-saco", Name: "saco"})

	tx, warnings, err := RecordPurchase(d, PurchaseInput{
		ProductID:    "p-arroz",
		Quantity:     1,
		UnitID:       "u-saco",
		UnitCost:     500,
		Date:         day,
		PaymentState: models.PaymentPaid,
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 1.0, tx.Purchase.ConvertedQty)
}

func TestPendingPurchaseSkipsInventory(t *testing.T) {
	d := newBusinessDoc()

	tx, _, err := RecordPurchase(d, PurchaseInput{
		ProductID:    "p-arroz",
		Quantity:     2,
		UnitID:       "u-kg",
		UnitCost:     100,
		Date:         day,
		PaymentState: models.PaymentPending,
	})
	require.NoError(t, err)
	assert.Nil(t, d.FindInventoryItem("p-arroz"))

	// Liquidar la deuda es el momento en que la mercancía entra.
	require.NoError(t, SettleDebt(d, tx.ID, "efectivo"))
	it := d.FindInventoryItem("p-arroz")
	require.NotNil(t, it)
	assert.Equal(t, 2000.0, it.Stock())
	assert.Equal(t, models.PaymentPaid, d.FindTransaction(tx.ID).PaymentState)

	// Deshacer la liquidación la saca de nuevo.
	require.NoError(t, UndoSettlement(d, tx.ID))
	assert.Equal(t, 0.0, it.Stock())
	assert.Equal(t, models.PaymentPending, d.FindTransaction(tx.ID).PaymentState)
}

func TestSettleDebtStateGuards(t *testing.T) {
	d := newBusinessDoc()
	tx := recordPaidPurchase(t, d)

	assert.ErrorIs(t, SettleDebt(d, tx.ID, "efectivo"), ErrNotPending)
	assert.ErrorIs(t, SettleDebt(d, "tx-fantasma", "efectivo"), ErrTransactionNotFound)

	require.NoError(t, UndoSettlement(d, tx.ID))
	assert.ErrorIs(t, UndoSettlement(d, tx.ID), ErrNotSettled)
}

func TestDeletePurchaseRestoresInventory(t *testing.T) {
	d := newBusinessDoc()
	tx := recordPaidPurchase(t, d)

	require.NoError(t, DeleteTransaction(d, tx.ID))

	assert.Nil(t, d.FindTransaction(tx.ID))
	it := d.FindInventoryItem("p-arroz")
	assert.Equal(t, 0.0, it.Stock())
	assert.Equal(t, 0.0, *it.AvgCost)
}

func TestRecordSaleConsumesAndPrices(t *testing.T) {
	d := newBusinessDoc()
	recordPaidPurchase(t, d) // 2000 g a 0.1

	tx, warnings, err := RecordSale(d, SaleInput{
		DishID:       "d1",
		ChannelID:    "ch-rest",
		Quantity:     3,
		Date:         day,
		PaymentState: models.PaymentPaid,
	})
	require.NoError(t, err)
	require.Empty(t, warnings)

	assert.Equal(t, models.TxSale, tx.Type)
	assert.Equal(t, 150.0, tx.Amount) // 3 * precio_restaurante 50
	require.NotNil(t, tx.Sale)
	assert.InDelta(t, 60.0, tx.Sale.TotalCost, 1e-9) // 3 * 200 g * 0.1
	assert.InDelta(t, 90.0, tx.Sale.Profit, 1e-9)
	require.Len(t, tx.Sale.Consumptions, 1)
	assert.Equal(t, 600.0, tx.Sale.Consumptions[0].ConvertedQty)

	assert.Equal(t, 1400.0, d.FindInventoryItem("p-arroz").Stock())
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	d := newBusinessDoc()
	recordPaidPurchase(t, d) // 2000 g

	_, _, err := RecordSale(d, SaleInput{DishID: "d1", ChannelID: "ch-rest", Quantity: 11, Date: day})
	var insufficient *recipes.InsufficientError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Shortfalls, 1)
	assert.InDelta(t, 200.0, insufficient.Shortfalls[0].Missing, 1e-9)

	// Nada se consumió ni se registró.
	assert.Equal(t, 2000.0, d.FindInventoryItem("p-arroz").Stock())
	assert.Len(t, d.Transactions, 1)
}

func TestRecordSaleUndefinedCost(t *testing.T) {
	d := newBusinessDoc()
	recordPaidPurchase(t, d)
	d.FindInventoryItem("p-arroz").AvgCost = nil

	_, _, err := RecordSale(d, SaleInput{DishID: "d1", ChannelID: "ch-rest", Quantity: 1, Date: day})
	assert.ErrorIs(t, err, recipes.ErrCostUnavailable)
}

func TestDeleteSaleRestoresConsumption(t *testing.T) {
	d := newBusinessDoc()
	recordPaidPurchase(t, d)
	tx, _, err := RecordSale(d, SaleInput{DishID: "d1", ChannelID: "ch-rest", Quantity: 3, Date: day})
	require.NoError(t, err)

	require.NoError(t, DeleteTransaction(d, tx.ID))

	assert.Equal(t, 2000.0, d.FindInventoryItem("p-arroz").Stock())
	assert.Nil(t, d.FindTransaction(tx.ID))
}

func TestRecordExpenseMirrorsTransaction(t *testing.T) {
	d := newBusinessDoc()

	exp, tx, err := RecordExpense(d, ExpenseInput{
		Date:        day,
		Description: "Factura de electricidad",
		Category:    "electricidad",
		Amount:      350,
	})
	require.NoError(t, err)
	assert.Equal(t, exp.ID, tx.ExpenseID)
	assert.Equal(t, tx.ID, exp.TransactionID)
	assert.Equal(t, models.TxOtherExpense, tx.Type)
	assert.Equal(t, 350.0, tx.Amount)
}

func TestDeleteExpenseTransactionRemovesExpense(t *testing.T) {
	d := newBusinessDoc()
	_, tx, err := RecordExpense(d, ExpenseInput{Date: day, Description: "Gas", Category: "combustible", Amount: 90})
	require.NoError(t, err)

	require.NoError(t, DeleteTransaction(d, tx.ID))
	assert.Empty(t, d.Expenses)
	assert.Empty(t, d.Transactions)
}

func TestDeleteExpenseRemovesMirror(t *testing.T) {
	d := newBusinessDoc()
	exp, _, err := RecordExpense(d, ExpenseInput{Date: day, Description: "Gas", Category: "combustible", Amount: 90})
	require.NoError(t, err)

	require.NoError(t, DeleteExpense(d, exp.ID))
	assert.Empty(t, d.Expenses)
	assert.Empty(t, d.Transactions)

	assert.ErrorIs(t, DeleteExpense(d, exp.ID), ErrExpenseNotFound)
}

func TestDeleteLegacyExpenseTransactionByFieldEquality(t *testing.T) {
	// Documentos importados de versiones sin enlace: la transacción espejo no
	// trae gasto_id y se empareja por descripción, importe y día.
	d := newBusinessDoc()
	d.Expenses = append(d.Expenses, models.Expense{
		ID: "e1", Date: day, Description: "Alquiler", Category: "alquiler", Amount: 2000,
	})
	d.Transactions = append(d.Transactions, models.Transaction{
		ID: "t1", Type: models.TxOtherExpense, Date: day, Description: "Alquiler",
		Amount: 2000, PaymentState: models.PaymentPaid,
	})

	require.NoError(t, DeleteTransaction(d, "t1"))
	assert.Empty(t, d.Expenses)
}
