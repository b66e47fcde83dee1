package closing

import (
	"testing"
	"time"

	"paladar-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marchDay(day int) time.Time {
	return time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC)
}

// newMonthDoc arma un marzo de 2024 con una venta por Catauro, una compra
// pagada, una compra pendiente y un gasto.
func newMonthDoc() *models.Document {
	d := models.NewDocument()
	d.Products = append(d.Products, models.Product{ID: "p-arroz", Name: "Arroz", DefaultUnitID: "u-g"})
	d.Channels = append(d.Channels, models.ServiceChannel{ID: "ch-cat", Name: "Catauro"})

	d.Transactions = append(d.Transactions,
		models.Transaction{
			ID: "t-venta", Type: models.TxSale, Date: marchDay(5), Amount: 100,
			PaymentState: models.PaymentPaid,
			Sale: &models.SaleDetail{
				DishID: "d1", ChannelID: "ch-cat", Quantity: 2, UnitPrice: 50,
				TotalCost: 40, Profit: 60,
				Consumptions: []models.Consumption{{ProductID: "p-arroz", ConvertedQty: 600}},
			},
		},
		models.Transaction{
			ID: "t-compra", Type: models.TxPurchase, Date: marchDay(3), Amount: 200,
			PaymentState: models.PaymentPaid,
			Purchase: &models.PurchaseDetail{
				ProductID: "p-arroz", Quantity: 2, UnitID: "u-kg", UnitCost: 100,
				ConvertedQty: 2000, ConvertedUnitCost: 0.1,
			},
		},
		models.Transaction{
			ID: "t-pendiente", Type: models.TxPurchase, Date: marchDay(20), Amount: 999,
			PaymentState: models.PaymentPending,
			Purchase: &models.PurchaseDetail{
				ProductID: "p-arroz", Quantity: 1, UnitID: "u-kg", UnitCost: 999,
				ConvertedQty: 1000, ConvertedUnitCost: 0.999,
			},
		},
	)
	d.Expenses = append(d.Expenses, models.Expense{
		ID: "e1", Date: marchDay(10), Description: "Electricidad",
		Category: "electricidad", Amount: 10,
	})
	return d
}

func TestMonthWindow(t *testing.T) {
	start, end, err := MonthWindow("2024-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), end)

	_, _, err = MonthWindow("marzo 2024")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestAggregate(t *testing.T) {
	d := newMonthDoc()
	start, end, _ := MonthWindow("2024-03")

	totals := Aggregate(d, start, end)

	assert.Equal(t, 100.0, totals.Revenue)
	assert.Equal(t, 40.0, totals.COGS)
	assert.Equal(t, 60.0, totals.GrossProfit)
	// La compra pendiente no suma.
	assert.Equal(t, 200.0, totals.Purchases)
	// Comisión Catauro: 10% de 100.
	assert.InDelta(t, 10.0, totals.Commissions, 1e-9)
	assert.Equal(t, 10.0, totals.OtherExpenses)
	require.Len(t, totals.ExpensesByCategory, 1)
	assert.Equal(t, "electricidad", totals.ExpensesByCategory[0].Category)
	// 60 - (10 + 10) - 200
	assert.InDelta(t, -160.0, totals.NetProfit, 1e-9)
}

func TestAggregateIgnoresOtherMonths(t *testing.T) {
	d := newMonthDoc()
	start, end, _ := MonthWindow("2024-04")

	totals := Aggregate(d, start, end)
	assert.Equal(t, 0.0, totals.Revenue)
	assert.Equal(t, 0.0, totals.Purchases)
	assert.Equal(t, 0.0, totals.OtherExpenses)
}

func TestComputeClosingBalance(t *testing.T) {
	d := newMonthDoc()

	c, err := Compute(d, "2024-03", nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", c.ID)
	assert.Equal(t, 0.0, c.OpeningBalance)
	// 0 + 100 - 200 - 10 - 10
	assert.InDelta(t, -120.0, c.ClosingBalance, 1e-9)
	// Compra pagada 2000 g a 0.1 menos 600 g consumidos.
	assert.InDelta(t, 140.0, c.InventoryValue, 1e-9)
	assert.Equal(t, 999.0, c.Payables)
}

func TestComputeChainsOpeningFromPreviousClosing(t *testing.T) {
	d := newMonthDoc()
	require.NoError(t, Commit(d, models.MonthlyClosing{
		ID: "2024-02", Month: "2024-02", ClosingBalance: 1000,
	}))

	manual := 55.0
	c, err := Compute(d, "2024-03", &manual)
	require.NoError(t, err)
	// El cierre anterior manda; el valor manual se ignora.
	assert.Equal(t, 1000.0, c.OpeningBalance)
	assert.InDelta(t, 880.0, c.ClosingBalance, 1e-9)
}

func TestComputeManualOpeningWithoutPreviousClosing(t *testing.T) {
	d := newMonthDoc()
	manual := 500.0

	c, err := Compute(d, "2024-03", &manual)
	require.NoError(t, err)
	assert.Equal(t, 500.0, c.OpeningBalance)
}

func TestCommitRejectsDuplicateMonth(t *testing.T) {
	d := newMonthDoc()
	require.NoError(t, Commit(d, models.MonthlyClosing{ID: "2024-03", Month: "2024-03"}))
	assert.ErrorIs(t, Commit(d, models.MonthlyClosing{ID: "2024-03", Month: "2024-03"}), ErrAlreadyClosed)
}

func TestRevertLastPopsMostRecentMonth(t *testing.T) {
	d := models.NewDocument()
	for _, m := range []string{"2024-01", "2024-03", "2024-02"} {
		require.NoError(t, Commit(d, models.MonthlyClosing{ID: m, Month: m}))
	}

	removed, err := RevertLast(d)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", removed.Month)
	assert.Len(t, d.Closings, 2)
	assert.Nil(t, d.FindClosing("2024-03"))
}

func TestRevertLastEmpty(t *testing.T) {
	d := models.NewDocument()
	_, err := RevertLast(d)
	assert.ErrorIs(t, err, ErrNothingToRevert)
}

func TestBalanceSheetAt(t *testing.T) {
	d := newMonthDoc()
	d.Transactions = append(d.Transactions, models.Transaction{
		ID: "t-fiado", Type: models.TxSale, Date: marchDay(25), Amount: 75,
		PaymentState: models.PaymentPending,
		Sale:         &models.SaleDetail{DishID: "d1", ChannelID: "ch-cat", Quantity: 1, UnitPrice: 75},
	})

	sheet := BalanceSheetAt(d, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	assert.InDelta(t, 140.0, sheet.InventoryValue, 1e-9)
	assert.Equal(t, 75.0, sheet.Receivables)
	assert.Equal(t, 999.0, sheet.Payables)

	// Antes de la compra no había nada.
	early := BalanceSheetAt(d, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 0.0, early.InventoryValue)
}
