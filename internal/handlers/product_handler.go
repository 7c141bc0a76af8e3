package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"catalogo/internal/models"
	"catalogo/internal/repositories"
	"catalogo/internal/services"
	"catalogo/internal/validation"
)

// ProductHandler handles HTTP requests for catalog products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts retrieves products ordered by ascending ID. Optional
// limit and offset query parameters page through the catalog.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	products, err := h.service.ListProducts(limit, offset)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := parseProductID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		return h.respondRepositoryError(c, err, id, "retrieve")
	}
	return c.JSON(product)
}

// HandleCreateProduct validates the request body and creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	product, err := parseProductPayload(c)
	if err != nil || product == nil {
		// A nil product means the validation response was already written.
		return err
	}

	if err := h.service.CreateProduct(product); err != nil {
		return h.respondRepositoryError(c, err, 0, "create")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct validates the request body and replaces the mutable
// fields of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := parseProductID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	product, err := parseProductPayload(c)
	if err != nil || product == nil {
		return err
	}

	product.ID = id
	if err := h.service.UpdateProduct(product); err != nil {
		return h.respondRepositoryError(c, err, id, "update")
	}
	return c.JSON(product)
}

// HandleDeleteProduct permanently removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := parseProductID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	if err := h.service.DeleteProduct(id); err != nil {
		return h.respondRepositoryError(c, err, id, "delete")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseProductPayload reads the request body as an untyped payload and runs it
// through the validator. When validation fails it writes the 400 response
// listing every offending field and returns a nil product.
func parseProductPayload(c *fiber.Ctx) (*models.Product, error) {
	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	product, err := validation.ProductFromPayload(payload)
	if err != nil {
		var fieldErrs *validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  fieldErrs.Fields,
			})
		}
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	return product, nil
}

func parseProductID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	return uint(id), err == nil
}

// respondRepositoryError is the single place repository errors become HTTP
// responses. Store failures are logged here and reported without internal
// detail.
func (h *ProductHandler) respondRepositoryError(c *fiber.Ctx, err error, id uint, action string) error {
	switch {
	case errors.Is(err, repositories.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %d not found", id),
		})
	case errors.Is(err, repositories.ErrDuplicateName):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "A product with that name already exists",
		})
	default:
		log.Printf("Error on product %s: %v", action, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": fmt.Sprintf("Could not %s product", action),
		})
	}
}
