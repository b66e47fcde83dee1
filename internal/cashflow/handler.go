package cashflow

import (
	"time"

	"paladar-backend/internal/closing"
	"paladar-backend/internal/models"
	"paladar-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type RangeSummaryResponse struct {
	StartDate      string         `json:"desde"`
	EndDate        string         `json:"hasta"`
	Totals         closing.Totals `json:"totales"`
	DailyBreakdown []DailyTotals  `json:"detalle_diario,omitempty"`
}

type DailyTotals struct {
	Date      string  `json:"fecha"`
	Revenue   float64 `json:"ventas"`
	Purchases float64 `json:"compras"`
	Expenses  float64 `json:"gastos"`
}

// GET /api/financial-summary?from=...&to=...&detalle=1
// Estado de resultados de un rango libre de fechas, con detalle diario
// opcional. El cierre mensual usa la misma agregación (internal/closing).
func RangeSummaryHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fromStr := c.Query("from")
		toStr := c.Query("to")
		if fromStr == "" || toStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from y to son obligatorios (YYYY-MM-DD)")
		}
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from inválido")
		}
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to inválido")
		}
		if to.Before(from) {
			return fiber.NewError(fiber.StatusBadRequest, "to no puede ser anterior a from")
		}

		start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

		res := RangeSummaryResponse{StartDate: fromStr, EndDate: toStr}
		wantDaily := c.Query("detalle") != ""

		s.View(func(d *models.Document) {
			res.Totals = closing.Aggregate(d, start, end)
			if wantDaily {
				res.DailyBreakdown = dailyBreakdown(d, start, end)
			}
		})
		return c.JSON(res)
	}
}

// dailyBreakdown arma una fila por día del rango, aunque no haya movimiento.
func dailyBreakdown(d *models.Document, start, end time.Time) []DailyTotals {
	byDay := map[string]*DailyTotals{}
	var order []string
	for cur := start; cur.Before(end); cur = cur.AddDate(0, 0, 1) {
		key := cur.Format("2006-01-02")
		byDay[key] = &DailyTotals{Date: key}
		order = append(order, key)
	}

	for i := range d.Transactions {
		tx := &d.Transactions[i]
		row, ok := byDay[tx.Date.UTC().Format("2006-01-02")]
		if !ok {
			continue
		}
		switch tx.Type {
		case models.TxSale:
			row.Revenue += tx.Amount
		case models.TxPurchase:
			if tx.PaymentState != models.PaymentPending {
				row.Purchases += tx.Amount
			}
		}
	}
	for i := range d.Expenses {
		e := &d.Expenses[i]
		if row, ok := byDay[e.Date.UTC().Format("2006-01-02")]; ok {
			row.Expenses += e.Amount
		}
	}

	out := make([]DailyTotals, 0, len(order))
	for _, key := range order {
		out = append(out, *byDay[key])
	}
	return out
}
