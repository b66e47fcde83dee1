package expense

import (
	"errors"
	"sort"
	"strings"
	"time"

	"paladar-backend/internal/models"
	"paladar-backend/internal/store"
	"paladar-backend/internal/trade"
	"paladar-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateExpenseRequest struct {
	Date        string  `json:"fecha" validate:"required"`
	Description string  `json:"descripcion" validate:"required"`
	Category    string  `json:"categoria" validate:"required"`
	Amount      float64 `json:"importe" validate:"required,gt=0"`
	Notes       string  `json:"notas"`
}

type ExpenseResponse struct {
	ID            string  `json:"id"`
	Date          string  `json:"fecha"`
	Description   string  `json:"descripcion"`
	Category      string  `json:"categoria"`
	Amount        float64 `json:"importe"`
	Notes         string  `json:"notas,omitempty"`
	TransactionID string  `json:"transaccion_id"`
}

type MonthlySummaryResponse struct {
	Month      string                 `json:"mes"`
	Items      []models.CategoryTotal `json:"por_categoria"`
	GrandTotal float64                `json:"total"`
}

func toResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		Date:          e.Date.Format("2006-01-02"),
		Description:   e.Description,
		Category:      e.Category,
		Amount:        e.Amount,
		Notes:         e.Notes,
		TransactionID: e.TransactionID,
	}
}

// POST /api/expenses
// Crea el gasto y su transacción espejo en el registro.
func CreateExpenseHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		body.Description = strings.TrimSpace(body.Description)
		body.Category = strings.TrimSpace(body.Category)
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}
		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "La fecha debe tener formato 'YYYY-MM-DD'")
		}

		var exp *models.Expense
		if err := s.Mutate(func(d *models.Document) error {
			var err error
			exp, _, err = trade.RecordExpense(d, trade.ExpenseInput{
				Date:        date,
				Description: body.Description,
				Category:    body.Category,
				Amount:      body.Amount,
				Notes:       body.Notes,
			})
			return err
		}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar el gasto")
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(exp))
	}
}

// GET /api/expenses?from=...&to=...&categoria=...
func ListExpensesHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fromStr := c.Query("from")
		toStr := c.Query("to")
		category := c.Query("categoria")

		var from, to time.Time
		var err error
		if fromStr != "" {
			if from, err = time.Parse("2006-01-02", fromStr); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from inválido")
			}
		}
		if toStr != "" {
			if to, err = time.Parse("2006-01-02", toStr); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to inválido")
			}
		}

		res := []ExpenseResponse{}
		s.View(func(d *models.Document) {
			for i := range d.Expenses {
				e := &d.Expenses[i]
				if category != "" && !strings.EqualFold(e.Category, category) {
					continue
				}
				if fromStr != "" && e.Date.Before(from) {
					continue
				}
				if toStr != "" && !e.Date.Before(to.AddDate(0, 0, 1)) {
					continue
				}
				res = append(res, toResponse(e))
			}
		})
		return c.JSON(res)
	}
}

// GET /api/expenses/summary/monthly?mes=2024-01
func MonthlySummaryHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		month := c.Query("mes")
		start, err := time.Parse("2006-01", month)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "mes inválido, formato esperado YYYY-MM")
		}
		start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0)

		res := MonthlySummaryResponse{Month: month, Items: []models.CategoryTotal{}}
		s.View(func(d *models.Document) {
			byCategory := map[string]float64{}
			for i := range d.Expenses {
				e := &d.Expenses[i]
				t := e.Date.UTC()
				if t.Before(start) || !t.Before(end) {
					continue
				}
				byCategory[e.Category] += e.Amount
				res.GrandTotal += e.Amount
			}
			for cat, total := range byCategory {
				res.Items = append(res.Items, models.CategoryTotal{Category: cat, Total: total})
			}
		})
		sort.Slice(res.Items, func(i, j int) bool {
			return res.Items[i].Category < res.Items[j].Category
		})
		return c.JSON(res)
	}
}

// DELETE /api/expenses/:id
// Elimina el gasto y su transacción espejo.
func DeleteExpenseHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := s.Mutate(func(d *models.Document) error {
			return trade.DeleteExpense(d, id)
		}); err != nil {
			if errors.Is(err, trade.ErrExpenseNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Gasto no encontrado")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el gasto")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
