package menu

import (
	"errors"
	"strings"

	"paladar-backend/internal/models"
)

var ErrPriceNotFound = errors.New("precio no encontrado para el plato y servicio")

// ResolvePrice busca el precio de venta de un plato para un servicio. Orden:
// precio propio del servicio, precios zelle de reserva (por subcadena del
// nombre del servicio), y por último el precio base de restaurante.
func ResolvePrice(d *models.Document, dishID, channelID string) (float64, error) {
	mp := d.FindMenuPriceByDish(dishID)
	if mp == nil {
		return 0, ErrPriceNotFound
	}

	if p, ok := mp.Channels[channelID]; ok && p > 0 {
		return p, nil
	}

	if ch := d.FindChannel(channelID); ch != nil {
		name := strings.ToLower(ch.Name)
		if strings.Contains(name, "zelle") {
			if strings.Contains(name, "mandado") && mp.PrecioZelleMandado > 0 {
				return mp.PrecioZelleMandado, nil
			}
			if strings.Contains(name, "restaurante") && mp.PrecioZelleRestaurante > 0 {
				return mp.PrecioZelleRestaurante, nil
			}
		}
	}

	if mp.PrecioRestaurante > 0 {
		return mp.PrecioRestaurante, nil
	}
	return 0, ErrPriceNotFound
}
