package upload

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	store ObjectStore
}

func NewHandler(store ObjectStore) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/upload", h.presign)
	app.Post("/upload", h.upload)
}

// presign hands the client a short-lived URL to PUT the image directly.
func (h *Handler) presign(c *fiber.Ctx) error {
	filename := c.Query("filename")
	contentType := c.Query("contentType")
	if filename == "" || contentType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "filename and contentType are required",
		})
	}

	url, err := h.store.PresignPut(c.Context(), filename, contentType)
	if err != nil {
		log.Printf("upload: presign %s: %v", filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "internal server error",
		})
	}
	return c.JSON(fiber.Map{"url": url})
}

// upload accepts multipart form files under the "images" field and
// stores each one, returning the public URLs in form order.
func (h *Handler) upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid multipart form",
		})
	}

	files := form.File["images"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "no images provided",
		})
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "unreadable file: " + fh.Filename,
			})
		}
		url, err := h.store.Upload(c.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
		f.Close()
		if err != nil {
			log.Printf("upload: store %s: %v", fh.Filename, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "internal server error",
			})
		}
		urls = append(urls, url)
	}

	return c.JSON(fiber.Map{
		"success":    1,
		"image_urls": urls,
	})
}
