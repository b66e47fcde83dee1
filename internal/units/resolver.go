package units

import (
	"errors"
	"fmt"
	"strings"

	"paladar-backend/internal/config"
	"paladar-backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrConversionNotFound se devuelve solo bajo la política "fallar"; con
// "asumir-unidad" la falta de conversión degrada a factor 1 con aviso.
var ErrConversionNotFound = errors.New("conversión de unidades no encontrada")

// Resolve busca el factor multiplicativo de originID a destID. Orden: misma
// unidad (factor 1 exacto), arista específica del producto, arista genérica.
// No hay búsqueda transitiva ni inversión automática: cada dirección se
// siembra por separado. missing=true indica que se aplicó la política de
// conversión faltante.
func Resolve(d *models.Document, originID, destID, productID string) (factor float64, missing bool, err error) {
	if originID == destID {
		return 1, false, nil
	}

	if productID != "" {
		for i := range d.Conversions {
			c := &d.Conversions[i]
			if c.ProductID == productID && c.OriginUnitID == originID && c.DestUnitID == destID {
				return c.Factor, false, nil
			}
		}
	}

	for i := range d.Conversions {
		c := &d.Conversions[i]
		if c.ProductID == "" && c.OriginUnitID == originID && c.DestUnitID == destID {
			return c.Factor, false, nil
		}
	}

	if d.Settings.OnMissingConversion == models.MissingConversionFail {
		return 0, true, fmt.Errorf("%w: %s -> %s", ErrConversionNotFound, originID, destID)
	}

	config.GetLogger().WithFields(logrus.Fields{
		"unidad_origen":  originID,
		"unidad_destino": destID,
		"producto_id":    productID,
	}).Warn("conversión faltante, se asume factor 1")
	return 1, true, nil
}

// seedPair - par de unidades con factor de ida; la vuelta es el inverso.
type seedPair struct {
	origin, dest string // nombres a buscar
	factor       float64
}

var seedPairs = []seedPair{
	{"kg", "g", 1000},
	{"l", "ml", 1000},
	{"docena", "unidad", 12},
}

// Seed instala el juego fijo de conversiones (kg<->g, L<->mL,
// docena<->unidad) buscando las unidades existentes por nombre, sin
// distinguir mayúsculas ("docena" por subcadena). Es idempotente: una arista
// genérica ya presente para el mismo par no se duplica. Devuelve cuántas
// aristas se agregaron.
func Seed(d *models.Document) int {
	added := 0
	for _, p := range seedPairs {
		origin := findUnitByName(d, p.origin)
		dest := findUnitByName(d, p.dest)
		if origin == nil || dest == nil {
			continue
		}
		if addConversion(d, origin.ID, dest.ID, p.factor) {
			added++
		}
		if addConversion(d, dest.ID, origin.ID, 1/p.factor) {
			added++
		}
	}
	d.Settings.ConversionsSeeded = true
	return added
}

func findUnitByName(d *models.Document, name string) *models.Unit {
	name = strings.ToLower(name)
	for i := range d.Units {
		got := strings.ToLower(strings.TrimSpace(d.Units[i].Name))
		if got == name {
			return &d.Units[i]
		}
		// "docena" aparece en variantes ("docena de huevos"), se acepta por
		// subcadena.
		if name == "docena" && strings.Contains(got, "docena") {
			return &d.Units[i]
		}
	}
	return nil
}

func addConversion(d *models.Document, originID, destID string, factor float64) bool {
	for i := range d.Conversions {
		c := &d.Conversions[i]
		if c.ProductID == "" && c.OriginUnitID == originID && c.DestUnitID == destID {
			return false
		}
	}
	d.Conversions = append(d.Conversions, models.Conversion{
		ID:           uuid.NewString(),
		OriginUnitID: originID,
		DestUnitID:   destID,
		Factor:       factor,
	})
	return true
}
