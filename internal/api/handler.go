// Package api exposes the reconciliation workflow over HTTP: statement
// upload with comparison, candidate validation and override deactivation.
package api

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/statement-recon/internal/workflow"
)

const version = "1.0.0"

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Runner *workflow.Runner
}

// Register sets up the API routes.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/compare", h.HandleCompare)
	app.Post("/api/validate", h.HandleValidate)
	app.Post("/api/deactivate", h.HandleDeactivate)
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

// HandleCompare accepts a multipart statement upload plus optional password
// and runs the full comparison.
func (h *Handler) HandleCompare(c *fiber.Ctx) error {
	path, cleanup, err := h.saveUpload(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}
	defer cleanup()

	result, err := h.Runner.Compare(c.UserContext(), path, c.FormValue("password"))
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"result":  result,
	})
}

// HandleValidate accepts a statement upload plus candidate parser source in
// the "code" form field and runs the promotion trial.
func (h *Handler) HandleValidate(c *fiber.Ctx) error {
	path, cleanup, err := h.saveUpload(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}
	defer cleanup()

	result, err := h.Runner.ValidateCandidate(c.UserContext(), path, c.FormValue("password"), c.FormValue("code"))
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"result":  result,
	})
}

// HandleDeactivate removes a promoted override. Idempotent.
func (h *Handler) HandleDeactivate(c *fiber.Ctx) error {
	if err := h.Runner.Deactivate(); err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"success": true})
}

// saveUpload stores the uploaded PDF in a temp file and returns its path
// plus a cleanup func.
func (h *Handler) saveUpload(c *fiber.Ctx) (string, func(), error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("no file uploaded; use form field 'file'")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return "", nil, fmt.Errorf("only PDF files are supported")
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmp.Close()

	if err := c.SaveFile(fileHeader, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("saving upload: %w", err)
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}
