package backup

import (
	"errors"
	"fmt"
	"time"

	"paladar-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// GET /api/backup/export
// Descarga el documento completo como respaldo.
func ExportHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := s.Export()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo exportar el respaldo")
		}
		filename := fmt.Sprintf("paladar-%s.json", time.Now().UTC().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(data)
	}
}

// POST /api/backup/import
// Reemplaza el estado entero con el documento recibido. No hay fusión.
func ImportHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Respaldo vacío")
		}
		if err := s.Import(body); err != nil {
			if errors.Is(err, store.ErrInvalidImport) {
				return fiber.NewError(fiber.StatusBadRequest, "Respaldo inválido: "+err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo importar el respaldo")
		}
		return c.JSON(fiber.Map{"importado": true})
	}
}

// POST /api/backup/reload
// Relee el documento del almacén. Las lecturas normales sirven la copia en
// memoria; esto es para reflejar cambios hechos por fuera del proceso.
func ReloadHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := s.Reload(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo recargar el documento")
		}
		return c.JSON(fiber.Map{"recargado": true})
	}
}
