package inventory

import (
	"errors"
	"strings"

	"paladar-backend/internal/models"
	"paladar-backend/internal/store"
	"paladar-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errProductNotFound = errors.New("producto no encontrado")

type CreateProductRequest struct {
	Name          string  `json:"nombre" validate:"required"`
	DefaultUnitID string  `json:"unidad_id" validate:"required"`
	MinimumStock  float64 `json:"stock_minimo" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name         *string  `json:"nombre"`
	MinimumStock *float64 `json:"stock_minimo"`
}

type ProductResponse struct {
	ID            string `json:"id"`
	Name          string `json:"nombre"`
	DefaultUnitID string `json:"unidad_id"`
}

type InventoryItemResponse struct {
	ProductID    string   `json:"producto_id"`
	ProductName  string   `json:"producto"`
	UnitID       string   `json:"unidad_id"`
	Stock        float64  `json:"existencia"`
	MinimumStock float64  `json:"stock_minimo"`
	AvgCost      *float64 `json:"costo_promedio,omitempty"`
	StockValue   float64  `json:"valor"`
}

// -------------------------
// Productos
// -------------------------

// GET /api/products
func ListProductsHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res []ProductResponse
		s.View(func(d *models.Document) {
			res = make([]ProductResponse, 0, len(d.Products))
			for _, p := range d.Products {
				res = append(res, ProductResponse{ID: p.ID, Name: p.Name, DefaultUnitID: p.DefaultUnitID})
			}
		})
		return c.JSON(res)
	}
}

// POST /api/products
func CreateProductHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		body.Name = strings.TrimSpace(body.Name)
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}

		p := models.Product{ID: uuid.NewString(), Name: body.Name, DefaultUnitID: body.DefaultUnitID}
		if err := s.Mutate(func(d *models.Document) error {
			if d.FindUnit(body.DefaultUnitID) == nil {
				return errors.New("unidad inexistente")
			}
			d.Products = append(d.Products, p)
			if body.MinimumStock > 0 {
				// El costo promedio queda indefinido hasta la primera compra;
				// el ítem se adelanta solo para llevar el mínimo.
				d.Inventory = append(d.Inventory, models.InventoryItem{
					ProductID:    p.ID,
					UnitID:       p.DefaultUnitID,
					MinimumStock: body.MinimumStock,
				})
			}
			return nil
		}); err != nil {
			if errors.Is(err, store.ErrSaveFailed) {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar el producto")
			}
			return fiber.NewError(fiber.StatusBadRequest, "La unidad por defecto no existe")
		}
		return c.Status(fiber.StatusCreated).JSON(ProductResponse{ID: p.ID, Name: p.Name, DefaultUnitID: p.DefaultUnitID})
	}
}

// PUT /api/products/:id
func UpdateProductHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}

		var res ProductResponse
		if err := s.Mutate(func(d *models.Document) error {
			p := d.FindProduct(id)
			if p == nil {
				return errProductNotFound
			}
			if body.Name != nil {
				name := strings.TrimSpace(*body.Name)
				if name == "" {
					return errors.New("nombre vacío")
				}
				p.Name = name
			}
			if body.MinimumStock != nil {
				if it := d.FindInventoryItem(id); it != nil {
					it.MinimumStock = *body.MinimumStock
				} else {
					d.Inventory = append(d.Inventory, models.InventoryItem{
						ProductID:    id,
						UnitID:       p.DefaultUnitID,
						MinimumStock: *body.MinimumStock,
					})
				}
			}
			res = ProductResponse{ID: p.ID, Name: p.Name, DefaultUnitID: p.DefaultUnitID}
			return nil
		}); err != nil {
			if errors.Is(err, errProductNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
			}
			if errors.Is(err, store.ErrSaveFailed) {
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar el producto")
			}
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}
		return c.JSON(res)
	}
}

// DELETE /api/products/:id
// Eliminar el producto se lleva también su ítem de inventario.
func DeleteProductHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := s.Mutate(func(d *models.Document) error {
			idx := -1
			for i := range d.Products {
				if d.Products[i].ID == id {
					idx = i
					break
				}
			}
			if idx < 0 {
				return errProductNotFound
			}
			d.Products = append(d.Products[:idx], d.Products[idx+1:]...)
			for i := range d.Inventory {
				if d.Inventory[i].ProductID == id {
					d.Inventory = append(d.Inventory[:i], d.Inventory[i+1:]...)
					break
				}
			}
			return nil
		}); err != nil {
			if errors.Is(err, errProductNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Producto no encontrado")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el producto")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Inventario
// -------------------------

func itemResponse(d *models.Document, it *models.InventoryItem) InventoryItemResponse {
	name := it.ProductID
	if p := d.FindProduct(it.ProductID); p != nil {
		name = p.Name
	}
	value := 0.0
	if it.AvgCost != nil && it.Stock() > 0 {
		value = it.Stock() * *it.AvgCost
	}
	return InventoryItemResponse{
		ProductID:    it.ProductID,
		ProductName:  name,
		UnitID:       it.UnitID,
		Stock:        it.Stock(),
		MinimumStock: it.MinimumStock,
		AvgCost:      it.AvgCost,
		StockValue:   value,
	}
}

// GET /api/inventory
func ListInventoryHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res []InventoryItemResponse
		s.View(func(d *models.Document) {
			res = make([]InventoryItemResponse, 0, len(d.Inventory))
			for i := range d.Inventory {
				res = append(res, itemResponse(d, &d.Inventory[i]))
			}
		})
		return c.JSON(res)
	}
}

// GET /api/inventory/alerts
// Productos con existencia por debajo del mínimo.
func LowStockAlertsHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := []InventoryItemResponse{}
		s.View(func(d *models.Document) {
			for i := range d.Inventory {
				it := &d.Inventory[i]
				if it.MinimumStock > 0 && it.Stock() < it.MinimumStock {
					res = append(res, itemResponse(d, it))
				}
			}
		})
		return c.JSON(res)
	}
}
