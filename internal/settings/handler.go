package settings

import (
	"errors"

	"paladar-backend/internal/models"
	"paladar-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

type UpdateSettingsRequest struct {
	CatauroCommissionPct *float64 `json:"comision_catauro"`
	MandadoCommissionPct *float64 `json:"comision_mandado"`
	CurrencySymbol       *string  `json:"simbolo_moneda"`
	DefaultPaymentState  *string  `json:"estado_pago_defecto"`
	OnMissingConversion  *string  `json:"si_falta_conversion"`
}

var errInvalid = errors.New("configuración inválida")

// GET /api/settings
func GetSettingsHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res models.Settings
		s.View(func(d *models.Document) {
			res = d.Settings
		})
		return c.JSON(res)
	}
}

// PUT /api/settings
// Cada campo es opcional; los porcentajes van de 0 a 1.
func UpdateSettingsHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateSettingsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		var res models.Settings
		if err := s.Mutate(func(d *models.Document) error {
			if body.CatauroCommissionPct != nil {
				if *body.CatauroCommissionPct < 0 || *body.CatauroCommissionPct > 1 {
					return errInvalid
				}
				d.Settings.CatauroCommissionPct = *body.CatauroCommissionPct
			}
			if body.MandadoCommissionPct != nil {
				if *body.MandadoCommissionPct < 0 || *body.MandadoCommissionPct > 1 {
					return errInvalid
				}
				d.Settings.MandadoCommissionPct = *body.MandadoCommissionPct
			}
			if body.CurrencySymbol != nil {
				d.Settings.CurrencySymbol = *body.CurrencySymbol
			}
			if body.DefaultPaymentState != nil {
				st := models.PaymentState(*body.DefaultPaymentState)
				if st != models.PaymentPending && st != models.PaymentPaid {
					return errInvalid
				}
				d.Settings.DefaultPaymentState = *body.DefaultPaymentState
			}
			if body.OnMissingConversion != nil {
				v := *body.OnMissingConversion
				if v != models.MissingConversionAssumeUnity && v != models.MissingConversionFail {
					return errInvalid
				}
				d.Settings.OnMissingConversion = v
			}
			res = d.Settings
			return nil
		}); err != nil {
			if errors.Is(err, errInvalid) {
				return fiber.NewError(fiber.StatusBadRequest, "Configuración inválida: revisa porcentajes y valores permitidos")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar la configuración")
		}
		return c.JSON(res)
	}
}
