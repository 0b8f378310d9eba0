package order

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/poopooshop/shop-backend/internal/product"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/orderconfirmation", h.placeOrder)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/orders", h.listOrders)
	app.Get("/orders/product/:productId", h.listOrdersByProduct)
	app.Put("/orders/:id", h.updateOrderStatus)
	app.Post("/removeorder", h.removeOrders)
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	payload := new(PlaceRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	created, err := h.service.Place(*payload)
	if err != nil {
		switch e := err.(type) {
		case *ValidationError:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid order request", "errors": e.Fields})
		case *ProductNotFoundError:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": e.Error()})
		default:
			log.Printf("place order: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to process order"})
		}
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"user_id":  created.Email,
		"order_id": created.ID,
	})
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	var finished *bool
	switch q := c.Query("isFinished"); q {
	case "":
	case "true", "false":
		v := q == "true"
		finished = &v
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "isFinished must be true or false"})
	}

	orders, err := h.service.List(finished)
	if err != nil {
		log.Printf("list orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load orders"})
	}
	return c.JSON(orders)
}

func (h *Handler) listOrdersByProduct(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid product id"})
	}

	orders, err := h.service.ListByProduct(productID)
	if err != nil {
		if err == product.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
		}
		log.Printf("orders by product %d: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load orders"})
	}
	return c.JSON(orders)
}

type statusRequest struct {
	IsFinish *bool `json:"isFinish"`
}

func (h *Handler) updateOrderStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid id"})
	}
	payload := new(statusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.IsFinish == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "isFinish flag is required"})
	}

	if err := h.service.SetFinished(id, *payload.IsFinish); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Order not found"})
		}
		log.Printf("update order %d status: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update order"})
	}
	return c.JSON(fiber.Map{"success": true, "id": id, "isFinish": *payload.IsFinish})
}

type removeOrdersRequest struct {
	ProductID int `json:"product_id"`
}

func (h *Handler) removeOrders(c *fiber.Ctx) error {
	payload := new(removeOrdersRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	removed, err := h.service.RemoveByProduct(payload.ProductID)
	if err != nil {
		if err == product.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
		}
		log.Printf("remove orders for product %d: %v", payload.ProductID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to remove orders"})
	}
	return c.JSON(fiber.Map{"success": true, "product_id": payload.ProductID, "removed": removed})
}
