package trade

import (
	"errors"
	"time"

	"paladar-backend/internal/models"
	"paladar-backend/internal/recipes"
	"paladar-backend/internal/store"
	"paladar-backend/internal/units"
	"paladar-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreatePurchaseRequest struct {
	ProductID     string  `json:"producto_id" validate:"required"`
	ProviderID    string  `json:"proveedor_id"`
	Quantity      float64 `json:"cantidad" validate:"required,gt=0"`
	UnitID        string  `json:"unidad_id" validate:"required"`
	UnitCost      float64 `json:"costo_unitario" validate:"required,gt=0"`
	Date          string  `json:"fecha" validate:"required"`
	Description   string  `json:"descripcion"`
	PaymentMethod string  `json:"metodo_pago"`
	PaymentState  string  `json:"estado_pago"`
}

type CreateSaleRequest struct {
	DishID        string  `json:"plato_id" validate:"required"`
	ChannelID     string  `json:"servicio_id" validate:"required"`
	Quantity      float64 `json:"cantidad" validate:"required,gt=0"`
	Date          string  `json:"fecha" validate:"required"`
	Description   string  `json:"descripcion"`
	PaymentMethod string  `json:"metodo_pago"`
	PaymentState  string  `json:"estado_pago"`
}

type SettleDebtRequest struct {
	PaymentMethod string `json:"metodo_pago" validate:"required"`
}

type TransactionResponse struct {
	Transaction *models.Transaction `json:"transaccion"`
	Warnings    []string            `json:"avisos,omitempty"`
}

type PendingDebtsResponse struct {
	Receivables []models.Transaction `json:"por_cobrar"`
	Payables    []models.Transaction `json:"por_pagar"`
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// paymentState aplica el estado por defecto de la configuración cuando el
// operador no mandó uno.
func paymentState(d *models.Document, raw string) models.PaymentState {
	switch models.PaymentState(raw) {
	case models.PaymentPending:
		return models.PaymentPending
	case models.PaymentPaid:
		return models.PaymentPaid
	default:
		if d.Settings.DefaultPaymentState == string(models.PaymentPending) {
			return models.PaymentPending
		}
		return models.PaymentPaid
	}
}

// mapDomainError traduce los errores del registrador a HTTP.
func mapDomainError(c *fiber.Ctx, err error) error {
	var insufficient *recipes.InsufficientError
	switch {
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":     "Inventario insuficiente para la venta",
			"faltantes": insufficient.Shortfalls,
		})
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrProviderNotFound),
		errors.Is(err, ErrDishNotFound),
		errors.Is(err, ErrChannelNotFound),
		errors.Is(err, recipes.ErrRecipeNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrTransactionNotFound), errors.Is(err, ErrExpenseNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, recipes.ErrCostUnavailable):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Costo no disponible: hay ingredientes sin costo promedio")
	case errors.Is(err, units.ErrConversionNotFound):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "No existe conversión entre las unidades")
	case errors.Is(err, ErrNotPending), errors.Is(err, ErrNotSettled):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, store.ErrSaveFailed):
		return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar la operación")
	default:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
}

// -------------------------
// Compras y ventas
// -------------------------

// POST /api/transactions/purchases
func RecordPurchaseHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}
		date, err := parseDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "La fecha debe tener formato 'YYYY-MM-DD'")
		}

		var tx *models.Transaction
		var warnings []string
		if err := s.Mutate(func(d *models.Document) error {
			in := PurchaseInput{
				ProductID:     body.ProductID,
				ProviderID:    body.ProviderID,
				Quantity:      body.Quantity,
				UnitID:        body.UnitID,
				UnitCost:      body.UnitCost,
				Date:          date,
				Description:   body.Description,
				PaymentMethod: body.PaymentMethod,
				PaymentState:  paymentState(d, body.PaymentState),
			}
			var err error
			tx, warnings, err = RecordPurchase(d, in)
			return err
		}); err != nil {
			return mapDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(TransactionResponse{Transaction: tx, Warnings: warnings})
	}
}

// POST /api/transactions/sales
func RecordSaleHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}
		date, err := parseDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "La fecha debe tener formato 'YYYY-MM-DD'")
		}

		var tx *models.Transaction
		var warnings []string
		if err := s.Mutate(func(d *models.Document) error {
			in := SaleInput{
				DishID:        body.DishID,
				ChannelID:     body.ChannelID,
				Quantity:      body.Quantity,
				Date:          date,
				Description:   body.Description,
				PaymentMethod: body.PaymentMethod,
				PaymentState:  paymentState(d, body.PaymentState),
			}
			var err error
			tx, warnings, err = RecordSale(d, in)
			return err
		}); err != nil {
			return mapDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(TransactionResponse{Transaction: tx, Warnings: warnings})
	}
}

// GET /api/transactions?from=...&to=...&tipo=...
func ListTransactionsHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fromStr := c.Query("from")
		toStr := c.Query("to")
		typeStr := c.Query("tipo")

		var from, to time.Time
		var err error
		if fromStr != "" {
			if from, err = parseDate(fromStr); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from inválido")
			}
		}
		if toStr != "" {
			if to, err = parseDate(toStr); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to inválido")
			}
		}

		res := []models.Transaction{}
		s.View(func(d *models.Document) {
			for _, tx := range d.Transactions {
				if typeStr != "" && string(tx.Type) != typeStr {
					continue
				}
				if fromStr != "" && tx.Date.Before(from) {
					continue
				}
				if toStr != "" && !tx.Date.Before(to.AddDate(0, 0, 1)) {
					continue
				}
				res = append(res, tx)
			}
		})
		return c.JSON(res)
	}
}

// DELETE /api/transactions/:id
// Revierte los efectos de inventario (o el gasto espejo) y elimina la
// transacción del registro.
func DeleteTransactionHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := s.Mutate(func(d *models.Document) error {
			return DeleteTransaction(d, id)
		}); err != nil {
			return mapDomainError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Deudas pendientes
// -------------------------

// GET /api/debts
func ListPendingDebtsHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := PendingDebtsResponse{
			Receivables: []models.Transaction{},
			Payables:    []models.Transaction{},
		}
		s.View(func(d *models.Document) {
			for _, tx := range d.Transactions {
				if tx.PaymentState != models.PaymentPending {
					continue
				}
				switch tx.Type {
				case models.TxSale:
					res.Receivables = append(res.Receivables, tx)
				case models.TxPurchase:
					res.Payables = append(res.Payables, tx)
				}
			}
		})
		return c.JSON(res)
	}
}

// POST /api/transactions/:id/settle
// Para compras, este es el momento en que la mercancía entra al inventario.
func SettleDebtHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var body SettleDebtRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}

		var tx *models.Transaction
		if err := s.Mutate(func(d *models.Document) error {
			if err := SettleDebt(d, id, body.PaymentMethod); err != nil {
				return err
			}
			tx = d.FindTransaction(id)
			return nil
		}); err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(tx)
	}
}

// POST /api/transactions/:id/unsettle
func UndoSettlementHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var tx *models.Transaction
		if err := s.Mutate(func(d *models.Document) error {
			if err := UndoSettlement(d, id); err != nil {
				return err
			}
			tx = d.FindTransaction(id)
			return nil
		}); err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(tx)
	}
}
