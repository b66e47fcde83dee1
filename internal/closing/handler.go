package closing

import (
	"errors"
	"sort"
	"time"

	"paladar-backend/internal/models"
	"paladar-backend/internal/store"
	"paladar-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type PreviewClosingRequest struct {
	Month         string   `json:"mes" validate:"required"`
	ManualOpening *float64 `json:"saldo_inicial_manual"`
}

type CommitClosingRequest struct {
	Month           string   `json:"mes" validate:"required"`
	ManualOpening   *float64 `json:"saldo_inicial_manual"`
	BusinessTaxPaid float64  `json:"impuesto_pagado" validate:"gte=0"`
	Notes           string   `json:"notas"`
}

func mapClosingError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidMonth):
		return fiber.NewError(fiber.StatusBadRequest, "Mes inválido, formato esperado YYYY-MM")
	case errors.Is(err, ErrAlreadyClosed):
		return fiber.NewError(fiber.StatusConflict, "El mes ya tiene cierre")
	case errors.Is(err, ErrNothingToRevert):
		return fiber.NewError(fiber.StatusNotFound, "No hay cierre que revertir")
	case errors.Is(err, store.ErrSaveFailed):
		return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar el cierre")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "No se pudo procesar el cierre")
	}
}

// POST /api/closings/preview
// Calcula el cierre candidato sin comprometer nada.
func PreviewClosingHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PreviewClosingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}

		var candidate *models.MonthlyClosing
		var err error
		s.View(func(d *models.Document) {
			candidate, err = Compute(d, body.Month, body.ManualOpening)
		})
		if err != nil {
			return mapClosingError(err)
		}
		return c.JSON(candidate)
	}
}

// POST /api/closings
// Calcula y compromete el cierre del mes. Falla si ya existe.
func CommitClosingHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CommitClosingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}

		var committed models.MonthlyClosing
		if err := s.Mutate(func(d *models.Document) error {
			candidate, err := Compute(d, body.Month, body.ManualOpening)
			if err != nil {
				return err
			}
			candidate.BusinessTaxPaid = body.BusinessTaxPaid
			candidate.Notes = body.Notes
			if err := Commit(d, *candidate); err != nil {
				return err
			}
			committed = *candidate
			return nil
		}); err != nil {
			return mapClosingError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(committed)
	}
}

// GET /api/closings
func ListClosingsHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res []models.MonthlyClosing
		s.View(func(d *models.Document) {
			res = append([]models.MonthlyClosing{}, d.Closings...)
		})
		sort.Slice(res, func(i, j int) bool { return res[i].Month > res[j].Month })
		return c.JSON(res)
	}
}

// DELETE /api/closings/last
// Deshace el cierre del mes más reciente. No acepta un mes arbitrario.
func RevertLastClosingHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var removed models.MonthlyClosing
		if err := s.Mutate(func(d *models.Document) error {
			var err error
			removed, err = RevertLast(d)
			return err
		}); err != nil {
			return mapClosingError(err)
		}
		return c.JSON(removed)
	}
}

// GET /api/balance-sheet?fecha=2024-01-31
func BalanceSheetHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dateStr := c.Query("fecha")
		asOf := time.Now().UTC()
		if dateStr != "" {
			var err error
			asOf, err = time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "fecha inválida, formato esperado YYYY-MM-DD")
			}
		}

		var sheet BalanceSheet
		s.View(func(d *models.Document) {
			sheet = BalanceSheetAt(d, asOf)
		})
		return c.JSON(sheet)
	}
}
