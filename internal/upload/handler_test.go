package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// stubStore records calls and hands back predictable URLs.
type stubStore struct {
	presigned []string
	uploaded  []string
	err       error
}

func (s *stubStore) PresignPut(_ context.Context, filename, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.presigned = append(s.presigned, filename)
	return "https://bucket.s3.test/presigned/" + filename, nil
}

func (s *stubStore) Upload(_ context.Context, filename, contentType string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	io.Copy(io.Discard, body)
	s.uploaded = append(s.uploaded, filename)
	return "https://bucket.s3.test/images/" + filename, nil
}

func newUploadApp(store ObjectStore) *fiber.App {
	app := fiber.New()
	NewHandler(store).RegisterProtectedRoutes(app)
	return app
}

func TestPresignRequiresParams(t *testing.T) {
	app := newUploadApp(&stubStore{})

	res, _ := app.Test(httptest.NewRequest("GET", "/upload?filename=a.png", nil))
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without contentType, got %d", res.StatusCode)
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/upload?filename=a.png&contentType=image/png", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.URL == "" {
		t.Fatal("expected presigned url in response")
	}
}

func TestUploadMultipart(t *testing.T) {
	store := &stubStore{}
	app := newUploadApp(store)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range []string{"front.png", "back.png"} {
		fw, err := w.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		fw.Write([]byte("fake image bytes"))
	}
	w.Close()

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 200, got %d: %s", res.StatusCode, b)
	}

	var body struct {
		Success   int      `json:"success"`
		ImageURLs []string `json:"image_urls"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success != 1 || len(body.ImageURLs) != 2 {
		t.Fatalf("unexpected response: %+v", body)
	}
	if len(store.uploaded) != 2 || store.uploaded[0] != "front.png" {
		t.Fatalf("store saw %v", store.uploaded)
	}
}

func TestUploadRejectsEmptyForm(t *testing.T) {
	app := newUploadApp(&stubStore{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	w.Close()

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty form, got %d", res.StatusCode)
	}
}

func TestUploadStoreFailure(t *testing.T) {
	app := newUploadApp(&stubStore{err: errors.New("s3 down")})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, _ := w.CreateFormFile("images", "a.png")
	fw.Write([]byte("x"))
	w.Close()

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500 when storage fails, got %d", res.StatusCode)
	}
}
