package providers

import (
	"errors"
	"strings"

	"paladar-backend/internal/models"
	"paladar-backend/internal/store"
	"paladar-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errNotFound = errors.New("proveedor no encontrado")

type CreateProviderRequest struct {
	Name  string `json:"nombre" validate:"required"`
	Phone string `json:"telefono"`
	Notes string `json:"notas"`
}

type UpdateProviderRequest struct {
	Name  *string `json:"nombre"`
	Phone *string `json:"telefono"`
	Notes *string `json:"notas"`
}

// GET /api/providers
func ListProvidersHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res []models.Provider
		s.View(func(d *models.Document) {
			res = append([]models.Provider{}, d.Providers...)
		})
		return c.JSON(res)
	}
}

// POST /api/providers
func CreateProviderHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProviderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		body.Name = strings.TrimSpace(body.Name)
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}

		p := models.Provider{ID: uuid.NewString(), Name: body.Name, Phone: body.Phone, Notes: body.Notes}
		if err := s.Mutate(func(d *models.Document) error {
			d.Providers = append(d.Providers, p)
			return nil
		}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar el proveedor")
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// PUT /api/providers/:id
func UpdateProviderHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var body UpdateProviderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		var res models.Provider
		if err := s.Mutate(func(d *models.Document) error {
			p := d.FindProvider(id)
			if p == nil {
				return errNotFound
			}
			if body.Name != nil && strings.TrimSpace(*body.Name) != "" {
				p.Name = strings.TrimSpace(*body.Name)
			}
			if body.Phone != nil {
				p.Phone = *body.Phone
			}
			if body.Notes != nil {
				p.Notes = *body.Notes
			}
			res = *p
			return nil
		}); err != nil {
			if errors.Is(err, errNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Proveedor no encontrado")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar el proveedor")
		}
		return c.JSON(res)
	}
}

// DELETE /api/providers/:id
func DeleteProviderHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := s.Mutate(func(d *models.Document) error {
			for i := range d.Providers {
				if d.Providers[i].ID == id {
					d.Providers = append(d.Providers[:i], d.Providers[i+1:]...)
					return nil
				}
			}
			return errNotFound
		}); err != nil {
			if errors.Is(err, errNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Proveedor no encontrado")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el proveedor")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
