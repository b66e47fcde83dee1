package closing

import (
	"errors"
	"sort"
	"strings"
	"time"

	"paladar-backend/internal/inventory"
	"paladar-backend/internal/models"
)

var (
	ErrAlreadyClosed   = errors.New("el mes ya tiene cierre")
	ErrNothingToRevert = errors.New("no hay cierre que revertir")
	ErrInvalidMonth    = errors.New("mes inválido, formato esperado YYYY-MM")
)

// MonthWindow devuelve el intervalo [start, end) del mes calendario en UTC.
func MonthWindow(month string) (start, end time.Time, err error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}

func inWindow(t, start, end time.Time) bool {
	t = t.UTC()
	return !t.Before(start) && t.Before(end)
}

// Totals - agregados de un rango de fechas. Los usan tanto el cierre mensual
// como los resúmenes de rango libre (internal/cashflow).
type Totals struct {
	Revenue            float64                `json:"total_ventas"`
	COGS               float64                `json:"costo_ventas"`
	GrossProfit        float64                `json:"ganancia_bruta"`
	Purchases          float64                `json:"total_compras"`
	Commissions        float64                `json:"total_comisiones"`
	OtherExpenses      float64                `json:"total_otros_gastos"`
	ExpensesByCategory []models.CategoryTotal `json:"gastos_por_categoria"`
	NetProfit          float64                `json:"ganancia_neta"`
}

// Aggregate particiona transacciones y gastos dentro de [start, end) y
// devuelve los agregados del estado de resultados. Las compras pendientes no
// suman (todavía no son salida de caja ni entrada de inventario); las
// comisiones se calculan por coincidencia del nombre del servicio.
func Aggregate(d *models.Document, start, end time.Time) Totals {
	var t Totals
	byCategory := map[string]float64{}

	for i := range d.Transactions {
		tx := &d.Transactions[i]
		if !inWindow(tx.Date, start, end) {
			continue
		}
		switch tx.Type {
		case models.TxSale:
			t.Revenue += tx.Amount
			t.COGS += tx.Sale.TotalCost
			t.Commissions += commissionFor(d, tx)
		case models.TxPurchase:
			if tx.PaymentState != models.PaymentPending {
				t.Purchases += tx.Amount
			}
		case models.TxOtherExpense:
			// Los gastos se agregan desde el registro de gastos, no desde sus
			// transacciones espejo, para no contarlos doble.
		}
	}

	for i := range d.Expenses {
		e := &d.Expenses[i]
		if !inWindow(e.Date, start, end) {
			continue
		}
		t.OtherExpenses += e.Amount
		byCategory[e.Category] += e.Amount
	}

	t.ExpensesByCategory = make([]models.CategoryTotal, 0, len(byCategory))
	for cat, total := range byCategory {
		t.ExpensesByCategory = append(t.ExpensesByCategory, models.CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(t.ExpensesByCategory, func(i, j int) bool {
		return t.ExpensesByCategory[i].Category < t.ExpensesByCategory[j].Category
	})

	t.GrossProfit = t.Revenue - t.COGS
	t.NetProfit = t.GrossProfit - (t.Commissions + t.OtherExpenses) - t.Purchases
	return t
}

// commissionFor aplica el porcentaje configurado según el nombre del
// servicio ("catauro" o "mandado", sin distinguir mayúsculas). Un servicio
// que no coincide con ninguno no genera comisión.
func commissionFor(d *models.Document, tx *models.Transaction) float64 {
	ch := d.FindChannel(tx.Sale.ChannelID)
	if ch == nil {
		return 0
	}
	name := strings.ToLower(ch.Name)
	switch {
	case strings.Contains(name, "catauro"):
		return tx.Amount * d.Settings.CatauroCommissionPct
	case strings.Contains(name, "mandado"):
		return tx.Amount * d.Settings.MandadoCommissionPct
	default:
		return 0
	}
}

// Compute produce el cierre candidato del mes sin mutar el documento. El
// saldo inicial encadena con el saldo final del mes anterior si ese cierre
// existe; si no, usa el valor manual (o 0).
func Compute(d *models.Document, month string, manualOpening *float64) (*models.MonthlyClosing, error) {
	start, end, err := MonthWindow(month)
	if err != nil {
		return nil, err
	}

	totals := Aggregate(d, start, end)

	opening := 0.0
	prevMonth := start.AddDate(0, -1, 0).Format("2006-01")
	if prev := d.FindClosing(prevMonth); prev != nil {
		opening = prev.ClosingBalance
	} else if manualOpening != nil {
		opening = *manualOpening
	}

	sheet := balanceSheetAt(d, end)

	c := &models.MonthlyClosing{
		ID:          month,
		Month:       month,
		ClosingDate: time.Now().UTC(),

		OpeningBalance: opening,

		TotalRevenue:       totals.Revenue,
		TotalCOGS:          totals.COGS,
		GrossProfit:        totals.GrossProfit,
		TotalPurchases:     totals.Purchases,
		TotalCommissions:   totals.Commissions,
		TotalOtherExpenses: totals.OtherExpenses,
		ExpensesByCategory: totals.ExpensesByCategory,
		NetProfit:          totals.NetProfit,

		// Arrastre de caja, independiente de la ganancia devengada.
		ClosingBalance: opening + totals.Revenue - totals.Purchases - totals.OtherExpenses - totals.Commissions,

		InventoryValue: sheet.InventoryValue,
		Receivables:    sheet.Receivables,
		Payables:       sheet.Payables,
	}
	return c, nil
}

// BalanceSheet - partidas del balance general a una fecha.
type BalanceSheet struct {
	AsOf           time.Time `json:"fecha"`
	InventoryValue float64   `json:"valor_inventario"`
	Receivables    float64   `json:"cuentas_por_cobrar"`
	Payables       float64   `json:"cuentas_por_pagar"`
}

// BalanceSheetAt valora el inventario y los saldos pendientes al fin del día
// de la fecha dada.
func BalanceSheetAt(d *models.Document, asOf time.Time) BalanceSheet {
	end := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	s := balanceSheetAt(d, end)
	s.AsOf = asOf
	return s
}

// balanceSheetAt reproduce el historial completo de transacciones hasta end
// (exclusivo) sobre un inventario en blanco: las compras pagadas acreditan,
// los consumos de receta de cada venta debitan. El inventario final se valora
// a costo promedio. Lo pendiente a la fecha queda como cuentas por
// cobrar/pagar.
func balanceSheetAt(d *models.Document, end time.Time) BalanceSheet {
	replay := models.NewDocument()
	replay.Products = d.Products

	var sheet BalanceSheet
	for i := range d.Transactions {
		tx := &d.Transactions[i]
		if !tx.Date.UTC().Before(end) {
			continue
		}
		switch tx.Type {
		case models.TxPurchase:
			if tx.PaymentState == models.PaymentPending {
				sheet.Payables += tx.Amount
				continue
			}
			inventory.ApplyPurchase(replay, tx.Purchase.ProductID, tx.Purchase.ConvertedQty, tx.Purchase.ConvertedUnitCost)
		case models.TxSale:
			if tx.PaymentState == models.PaymentPending {
				sheet.Receivables += tx.Amount
			}
			for _, c := range tx.Sale.Consumptions {
				inventory.ApplySaleConsumption(replay, c.ProductID, c.ConvertedQty)
			}
		}
	}

	for i := range replay.Inventory {
		it := &replay.Inventory[i]
		if it.AvgCost == nil {
			continue
		}
		if stock := it.Stock(); stock > 0 {
			sheet.InventoryValue += stock * *it.AvgCost
		}
	}
	return sheet
}

// Commit agrega el cierre al documento. Falla si el mes ya está cerrado; los
// cierres existentes nunca se modifican.
func Commit(d *models.Document, c models.MonthlyClosing) error {
	if d.FindClosing(c.Month) != nil {
		return ErrAlreadyClosed
	}
	d.Closings = append(d.Closings, c)
	return nil
}

// RevertLast elimina el cierre del mes más reciente (orden lexicográfico de
// "YYYY-MM"). Es "deshacer el último mes", no un mes arbitrario.
func RevertLast(d *models.Document) (models.MonthlyClosing, error) {
	if len(d.Closings) == 0 {
		return models.MonthlyClosing{}, ErrNothingToRevert
	}
	last := 0
	for i := range d.Closings {
		if d.Closings[i].Month > d.Closings[last].Month {
			last = i
		}
	}
	removed := d.Closings[last]
	d.Closings = append(d.Closings[:last], d.Closings[last+1:]...)
	return removed, nil
}
