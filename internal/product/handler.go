package product

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/allproducts", h.listProducts)
	app.Get("/product/:id", h.getProduct)
	app.Post("/getrelatedproducts", h.getRelatedProducts)
	app.Get("/newcollections", h.getNewCollections)
	app.Get("/featureproducts", h.getFeatureProducts)
	app.Post("/addreview", h.addReview)
	app.Post("/addrating", h.addRating)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/addproduct", h.addProduct)
	app.Put("/editproduct/:id", h.editProduct)
	app.Post("/removeproduct/:id", h.removeProduct)
	app.Post("/addavailability/:id", h.setAvailability)
}

type productRequest struct {
	Name        string      `json:"name"`
	Images      []string    `json:"image"`
	Category    string      `json:"category"`
	CategoryFor []string    `json:"categoryFor"`
	NewPrice    float64     `json:"new_price"`
	OldPrice    float64     `json:"old_price"`
	Description Description `json:"description"`
	Rating      float64     `json:"rating"`
	RatingCount int         `json:"no_of_rators"`
	Available   *bool       `json:"available"`
}

func validateProductPayload(p *productRequest) map[string]string {
	errs := map[string]string{}
	if p.Name == "" {
		errs["name"] = "name is required"
	}
	if len(p.Images) == 0 {
		errs["image"] = "at least one image is required"
	}
	if p.Category == "" {
		errs["category"] = "category is required"
	}
	if len(p.CategoryFor) == 0 {
		errs["categoryFor"] = "at least one audience tag is required"
	}
	if p.NewPrice < 0 {
		errs["new_price"] = "new_price must be >= 0"
	}
	if p.OldPrice < 0 {
		errs["old_price"] = "old_price must be >= 0"
	}
	if p.Rating < 0 || p.Rating > 5 {
		errs["rating"] = "rating must be between 0 and 5"
	}
	return errs
}

func (p *productRequest) toProduct() Product {
	available := true
	if p.Available != nil {
		available = *p.Available
	}
	return Product{
		Name:        p.Name,
		Images:      p.Images,
		Category:    p.Category,
		CategoryFor: p.CategoryFor,
		NewPrice:    p.NewPrice,
		OldPrice:    p.OldPrice,
		Description: p.Description,
		Rating:      p.Rating,
		RatingCount: p.RatingCount,
		Available:   available,
	}
}

func (h *Handler) addProduct(c *fiber.Ctx) error {
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if ves := validateProductPayload(payload); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid product payload", "errors": ves})
	}

	created, err := h.service.Create(payload.toProduct())
	if err != nil {
		log.Printf("add product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to save product"})
	}
	return c.JSON(fiber.Map{"success": true, "name": created.Name, "id": created.ID})
}

func (h *Handler) editProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}

	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if ves := validateProductPayload(payload); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid product payload", "errors": ves})
	}

	updated, err := h.service.Update(id, payload.toProduct())
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
		}
		log.Printf("edit product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update product"})
	}
	return c.JSON(updated)
}

func (h *Handler) removeProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}
	if err := h.service.Delete(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
		}
		log.Printf("remove product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to remove product"})
	}
	return c.JSON(fiber.Map{"success": true, "id": id})
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}
	p, err := h.service.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
		}
		log.Printf("get product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load product"})
	}
	return c.JSON(p)
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	products, total, err := h.service.List(ListFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Pet:      c.Query("pet"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		log.Printf("list products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load products"})
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

type relatedRequest struct {
	Category string `json:"category"`
}

func (h *Handler) getRelatedProducts(c *fiber.Ctx) error {
	payload := new(relatedRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	products, err := h.service.Related(payload.Category)
	if err != nil {
		log.Printf("related products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load related products"})
	}
	return c.JSON(products)
}

func (h *Handler) getNewCollections(c *fiber.Ctx) error {
	products, err := h.service.NewCollections()
	if err != nil {
		log.Printf("new collections: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load new collections"})
	}
	return c.JSON(products)
}

func (h *Handler) getFeatureProducts(c *fiber.Ctx) error {
	products, err := h.service.Featured()
	if err != nil {
		log.Printf("feature products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load feature products"})
	}
	return c.JSON(products)
}

type reviewRequest struct {
	ItemID int     `json:"itemId"`
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
}

func (h *Handler) addReview(c *fiber.Ctx) error {
	payload := new(reviewRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.Rating < 0 || payload.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "rating must be between 0 and 5"})
	}

	if err := h.service.AddReview(payload.ItemID, payload.Text, payload.Rating); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
		}
		log.Printf("add review for %d: %v", payload.ItemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Error adding review"})
	}
	// legacy raw-text acknowledgment kept for the storefront
	return c.SendString("Review added successfully")
}

func (h *Handler) addRating(c *fiber.Ctx) error {
	payload := new(reviewRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.Rating < 0 || payload.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "rating must be between 0 and 5"})
	}

	if err := h.service.AddRating(payload.ItemID, payload.Rating); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
		}
		log.Printf("add rating for %d: %v", payload.ItemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Error adding rating"})
	}
	return c.SendString("ratingAdded")
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

func (h *Handler) setAvailability(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}
	payload := new(availabilityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.Available == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "available flag is required"})
	}

	if err := h.service.SetAvailability(id, *payload.Available); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
		}
		log.Printf("set availability for %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update availability"})
	}
	return c.SendString("AvailableStateAdded")
}
