package recipes

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
	errDishNotFound  = errors.New("plato no encontrado")
	errBadIngredient = errors.New("ingrediente inválido")
)

type CreateDishRequest struct {
	Name string `json:"nombre" validate:"required"`
}

type DishResponse struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

type IngredientRequest struct {
	ProductID string  `json:"producto_id" validate:"required"`
	Quantity  float64 `json:"cantidad" validate:"required,gt=0"`
	UnitID    string  `json:"unidad_id" validate:"required"`
}

type CreateRecipeRequest struct {
	DishID      string              `json:"plato_id" validate:"required"`
	Ingredients []IngredientRequest `json:"ingredientes" validate:"required,min=1,dive"`
	OtherCosts  float64             `json:"otros_costos" validate:"gte=0"`
	FuelCost    float64             `json:"costo_combustible" validate:"gte=0"`
	LaborCost   float64             `json:"costo_mano_obra" validate:"gte=0"`
}

type DishCostResponse struct {
	DishID string  `json:"plato_id"`
	Cost   float64 `json:"costo_unitario"`
}

type SufficiencyResponse struct {
	Sufficient bool        `json:"suficiente"`
	Shortfalls []Shortfall `json:"faltantes"`
}

// -------------------------
// Platos
// -------------------------

// GET /api/dishes
func ListDishesHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res []DishResponse
		s.View(func(d *models.Document) {
			res = make([]DishResponse, 0, len(d.Dishes))
			for _, dish := range d.Dishes {
				res = append(res, DishResponse{ID: dish.ID, Name: dish.Name})
			}
		})
		return c.JSON(res)
	}
}

// POST /api/dishes
func CreateDishHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDishRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		body.Name = strings.TrimSpace(body.Name)
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}

		dish := models.Dish{ID: uuid.NewString(), Name: body.Name}
		if err := s.Mutate(func(d *models.Document) error {
			d.Dishes = append(d.Dishes, dish)
			return nil
		}); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar el plato")
		}
		return c.Status(fiber.StatusCreated).JSON(DishResponse{ID: dish.ID, Name: dish.Name})
	}
}

// DELETE /api/dishes/:id
// Se lleva también su receta y su lista de precios.
func DeleteDishHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := s.Mutate(func(d *models.Document) error {
			idx := -1
			for i := range d.Dishes {
				if d.Dishes[i].ID == id {
					idx = i
					break
				}
			}
			if idx < 0 {
				return errDishNotFound
			}
			d.Dishes = append(d.Dishes[:idx], d.Dishes[idx+1:]...)
			for i := 0; i < len(d.Recipes); {
				if d.Recipes[i].DishID == id {
					d.Recipes = append(d.Recipes[:i], d.Recipes[i+1:]...)
					continue
				}
				i++
			}
			for i := 0; i < len(d.MenuPrices); {
				if d.MenuPrices[i].DishID == id {
					d.MenuPrices = append(d.MenuPrices[:i], d.MenuPrices[i+1:]...)
					continue
				}
				i++
			}
			return nil
		}); err != nil {
			if errors.Is(err, errDishNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Plato no encontrado")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar el plato")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Fichas técnicas
// -------------------------

// GET /api/recipes
func ListRecipesHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res []models.Recipe
		s.View(func(d *models.Document) {
			res = append([]models.Recipe{}, d.Recipes...)
		})
		return c.JSON(res)
	}
}

// POST /api/recipes
// Reemplaza la ficha existente del plato si ya hay una.
func CreateRecipeHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Cuerpo de la petición inválido")
		}
		if errs := validation.ValidateStruct(&body); len(errs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, errs[0].Error())
		}

		var saved models.Recipe
		if err := s.Mutate(func(d *models.Document) error {
			if d.FindDish(body.DishID) == nil {
				return errDishNotFound
			}
			ings := make([]models.Ingredient, 0, len(body.Ingredients))
			for _, ing := range body.Ingredients {
				if d.FindProduct(ing.ProductID) == nil {
					return errBadIngredient
				}
				ings = append(ings, models.Ingredient{
					ProductID: ing.ProductID,
					Quantity:  ing.Quantity,
					UnitID:    ing.UnitID,
				})
			}

			recipe := models.Recipe{
				ID:          uuid.NewString(),
				DishID:      body.DishID,
				Ingredients: ings,
				OtherCosts:  body.OtherCosts,
				FuelCost:    body.FuelCost,
				LaborCost:   body.LaborCost,
			}
			if existing := d.FindRecipeByDish(body.DishID); existing != nil {
				recipe.ID = existing.ID
				*existing = recipe
			} else {
				d.Recipes = append(d.Recipes, recipe)
			}
			saved = recipe
			return nil
		}); err != nil {
			switch {
			case errors.Is(err, errDishNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Plato no encontrado")
			case errors.Is(err, errBadIngredient):
				return fiber.NewError(fiber.StatusBadRequest, "Algún ingrediente referencia un producto inexistente")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "No se pudo guardar la ficha técnica")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	}
}

// GET /api/dishes/:id/cost
func DishCostHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var cost float64
		var err error
		s.View(func(d *models.Document) {
			cost, err = CostOfDish(d, id)
		})
		if err != nil {
			if errors.Is(err, ErrRecipeNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "El plato no tiene ficha técnica")
			}
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Costo no disponible: hay ingredientes sin costo promedio")
		}
		return c.JSON(DishCostResponse{DishID: id, Cost: cost})
	}
}

// GET /api/dishes/:id/sufficiency?cantidad=N
func SufficiencyHandler(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		qty := c.QueryFloat("cantidad", 1)
		if qty <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "cantidad debe ser mayor que 0")
		}

		var shortfalls []Shortfall
		var err error
		s.View(func(d *models.Document) {
			shortfalls, err = CheckSufficiency(d, id, qty)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "El plato no tiene ficha técnica")
		}
		if shortfalls == nil {
			shortfalls = []Shortfall{}
		}
		return c.JSON(SufficiencyResponse{
			Sufficient: len(shortfalls) == 0,
			Shortfalls: shortfalls,
		})
	}
}
