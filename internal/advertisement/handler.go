package advertisement

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/alladvertisements", h.listAdvertisements)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	// route spelling predates this codebase; the admin frontend posts here
	app.Post("/addAdertisement", h.addAdvertisement)
}

type addRequest struct {
	Image    string `json:"ad_image"`
	Category string `json:"ad_category"`
}

func (h *Handler) addAdvertisement(c *fiber.Ctx) error {
	payload := new(addRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "ad_image is required"})
	}

	created, err := h.service.Create(Advertisement{Image: payload.Image, Category: payload.Category})
	if err != nil {
		log.Printf("add advertisement: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to save advertisement"})
	}
	return c.JSON(fiber.Map{"success": true, "adid": created.ID})
}

func (h *Handler) listAdvertisements(c *fiber.Ctx) error {
	ads, err := h.service.List()
	if err != nil {
		log.Printf("list advertisements: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load advertisements"})
	}
	return c.JSON(ads)
}
