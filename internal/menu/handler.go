package menu

import (
	"errors"
	"strings"

	"paladar-backend/internal/models"
	"paladar-backend/internal/store"
	"paladar-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	errChannelNotFound = errors.New("servicio no encontrado")
	errDishNotFound    = errors.New("plato no encontrado")
)

type CreateChannelRequest struct {
	Name string `json:"nombre" validate:"required"`
}

type ChannelResponse struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

type SetMenuPriceRequest struct {
	DishID                 string             `json:"plato_id" validate:"required"`
	Channels               map[string]float64 `json:"precios_por_servicio"`
	PrecioZelleMandado     float64            `json:"precio_zelle_mandado" validate:"gte=0"`
	PrecioZelleRestaurante float64            `json:"precio_zelle_restaurante" validate:"gte=0"`
	PrecioRestaurante      float64            `json:"precio_restaurante" validate:"gte=0"`
}

type ResolvePriceResponse struct {
	DishID    string  `json:"plato_id"`
	ChannelID string  `json:"servicio_id"`
	Price     float64 `json:"precio"`
}

// -------------------------
// Servicios (vías de venta)
// -------------------------

// GET /api/channels
func ListChannelsHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res []ChannelResponse
		s.View(func(d *models.Document) {
			res = make([]ChannelResponse, 0, len(d.Channels))
			for _, ch := range d.Channels {
				res = append(res, ChannelResponse{ID: ch.ID, Name: ch.Name})
			}
		})
		return c.JSON(res)
	}
}

// POST /api/channels
func CreateChannelHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateChannelRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		body.Name = strings.TrimSpace(body.Name)
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}

		ch := models.ServiceChannel{ID: uuid.NewString(), Name: body.Name}
		if err := s.Mutate(func(d *models.Document) error {
			d.Channels = append(d.Channels, ch)
			return nil
		}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar el servicio")
		}
		return c.Status(fiber.StatusCreated).JSON(ChannelResponse{ID: ch.ID, Name: ch.Name})
	}
}

// DELETE /api/channels/:id
func DeleteChannelHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := s.Mutate(func(d *models.Document) error {
			for i := range d.Channels {
				if d.Channels[i].ID == id {
					d.Channels = append(d.Channels[:i], d.Channels[i+1:]...)
					return nil
				}
			}
			return errChannelNotFound
		}); err != nil {
			if errors.Is(err, errChannelNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Servicio no encontrado")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el servicio")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Precios del menú
// -------------------------

// GET /api/menu-prices
func ListMenuPricesHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res []models.MenuPrice
		s.View(func(d *models.Document) {
			res = append([]models.MenuPrice{}, d.MenuPrices...)
		})
		return c.JSON(res)
	}
}

// POST /api/menu-prices
// Crea o reemplaza la lista de precios del plato.
func SetMenuPriceHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SetMenuPriceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}

		var saved models.MenuPrice
		if err := s.Mutate(func(d *models.Document) error {
			if d.FindDish(body.DishID) == nil {
				return errDishNotFound
			}
			for chID, price := range body.Channels {
				if d.FindChannel(chID) == nil {
					return errChannelNotFound
				}
				if price < 0 {
					return errors.New("precio negativo")
				}
			}

			mp := models.MenuPrice{
				ID:                     uuid.NewString(),
				DishID:                 body.DishID,
				Channels:               body.Channels,
				PrecioZelleMandado:     body.PrecioZelleMandado,
				PrecioZelleRestaurante: body.PrecioZelleRestaurante,
				PrecioRestaurante:      body.PrecioRestaurante,
			}
			if mp.Channels == nil {
				mp.Channels = map[string]float64{}
			}
			if existing := d.FindMenuPriceByDish(body.DishID); existing != nil {
				mp.ID = existing.ID
				*existing = mp
			} else {
				d.MenuPrices = append(d.MenuPrices, mp)
			}
			saved = mp
			return nil
		}); err != nil {
			switch {
			case errors.Is(err, errDishNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Plato no encontrado")
			case errors.Is(err, errChannelNotFound):
				return fiber.NewError(fiber.StatusBadRequest, "Algún servicio del mapa de precios no existe")
			case errors.Is(err, store.ErrSaveFailed):
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar la lista de precios")
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	}
}

// GET /api/menu-prices/resolve?plato_id=...&servicio_id=...
func ResolvePriceHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dishID := c.Query("plato_id")
		channelID := c.Query("servicio_id")
		if dishID == "" || channelID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "plato_id y servicio_id son obligatorios")
		}

		var price float64
		var err error
		s.View(func(d *models.Document) {
			price, err = ResolvePrice(d, dishID, channelID)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "No hay precio para ese plato y servicio")
		}
		return c.JSON(ResolvePriceResponse{DishID: dishID, ChannelID: channelID, Price: price})
	}
}
