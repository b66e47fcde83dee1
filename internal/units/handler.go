package units

import (
	"errors"
	"strings"

	"paladar-backend/internal/models"
	"paladar-backend/internal/store"
	"paladar-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateUnitRequest struct {
	Name string `json:"nombre" validate:"required"`
}

type UnitResponse struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

type CreateConversionRequest struct {
	OriginUnitID string  `json:"unidad_origen" validate:"required"`
	DestUnitID   string  `json:"unidad_destino" validate:"required"`
	Factor       float64 `json:"factor" validate:"required,gt=0"`
	ProductID    string  `json:"producto_id"`
}

type ResolveResponse struct {
	Factor  float64 `json:"factor"`
	Missing bool    `json:"faltante"`
}

// -------------------------
// Unidades
// -------------------------

// GET /api/units
func ListUnitsHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res []UnitResponse
		s.View(func(d *models.Document) {
			res = make([]UnitResponse, 0, len(d.Units))
			for _, u := range d.Units {
				res = append(res, UnitResponse{ID: u.ID, Name: u.Name})
			}
		})
		return c.JSON(res)
	}
}

// POST /api/units
func CreateUnitHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUnitRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		body.Name = strings.TrimSpace(body.Name)
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}

		u := models.Unit{ID: uuid.NewString(), Name: body.Name}
		if err := s.Mutate(func(d *models.Document) error {
			d.Units = append(d.Units, u)
			return nil
		}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar la unidad")
		}
		return c.Status(fiber.StatusCreated).JSON(UnitResponse{ID: u.ID, Name: u.Name})
	}
}

var errUnitNotFound = errors.New("unidad no encontrada")

// DELETE /api/units/:id
func DeleteUnitHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := s.Mutate(func(d *models.Document) error {
			for i := range d.Units {
				if d.Units[i].ID == id {
					d.Units = append(d.Units[:i], d.Units[i+1:]...)
					return nil
				}
			}
			return errUnitNotFound
		}); err != nil {
			if errors.Is(err, errUnitNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Unidad no encontrada")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar la unidad")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Conversiones
// -------------------------

// GET /api/conversions
func ListConversionsHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res []models.Conversion
		s.View(func(d *models.Document) {
			res = append([]models.Conversion{}, d.Conversions...)
		})
		return c.JSON(res)
	}
}

// POST /api/conversions
func CreateConversionHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateConversionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}

		conv := models.Conversion{
			ID:           uuid.NewString(),
			OriginUnitID: body.OriginUnitID,
			DestUnitID:   body.DestUnitID,
			Factor:       body.Factor,
			ProductID:    body.ProductID,
		}
		if err := s.Mutate(func(d *models.Document) error {
			if d.FindUnit(body.OriginUnitID) == nil || d.FindUnit(body.DestUnitID) == nil {
				return ErrConversionNotFound
			}
			d.Conversions = append(d.Conversions, conv)
			return nil
		}); err != nil {
			if errors.Is(err, ErrConversionNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Unidad de origen o destino no existe")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar la conversión")
		}
		return c.Status(fiber.StatusCreated).JSON(conv)
	}
}

// DELETE /api/conversions/:id
func DeleteConversionHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := s.Mutate(func(d *models.Document) error {
			for i := range d.Conversions {
				if d.Conversions[i].ID == id {
					d.Conversions = append(d.Conversions[:i], d.Conversions[i+1:]...)
					return nil
				}
			}
			return ErrConversionNotFound
		}); err != nil {
			if errors.Is(err, ErrConversionNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Conversión no encontrada")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar la conversión")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/conversions/seed
// Siembra el juego fijo kg<->g, L<->mL, docena<->unidad. Idempotente.
func SeedConversionsHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		added := 0
		if err := s.Mutate(func(d *models.Document) error {
			added = Seed(d)
			return nil
		}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo sembrar las conversiones")
		}
		return c.JSON(fiber.Map{"agregadas": added})
	}
}

// GET /api/conversions/resolve?origen=...&destino=...&producto_id=...
func ResolveHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Query("origen")
		dest := c.Query("destino")
		productID := c.Query("producto_id")
		if origin == "" || dest == "" {
			return fiber.NewError(fiber.StatusBadRequest, "origen y destino son obligatorios")
		}

		var res ResolveResponse
		var resolveErr error
		s.View(func(d *models.Document) {
			res.Factor, res.Missing, resolveErr = Resolve(d, origin, dest, productID)
		})
		if resolveErr != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "No existe conversión entre las unidades")
		}
		return c.JSON(res)
	}
}
