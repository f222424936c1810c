package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"theforum/internal/export"
	"theforum/internal/service"
)

// GetNewsletter returns the compiled newsletter document for a month key
// such as "June-2025". The key is used verbatim.
//
// @Summary Compile a month's newsletter
// @Tags newsletters
// @Produce json
// @Param month path string true "Month key, e.g. June-2025"
// @Success 200 {object} newsletter.Document
// @Failure 500 {object} errorPayload
// @Router /newsletters/{month} [get]
func GetNewsletter(svc service.NewsletterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Compile(c.UserContext(), c.Params("month"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// ExportNewsletter streams a month's newsletter as a downloadable file.
//
// @Summary Export a month's newsletter
// @Tags newsletters
// @Produce application/pdf
// @Produce text/html
// @Produce text/markdown
// @Param month path string true "Month key, e.g. June-2025"
// @Param format query string false "pdf (default), html or md"
// @Success 200 {file} file
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /newsletters/{month}/export [get]
func ExportNewsletter(svc service.NewsletterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		format, err := export.ParseFormat(c.Query("format"))
		if err != nil {
			return writeServiceError(c, err)
		}

		art, err := svc.Export(c.UserContext(), c.Params("month"), format)
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, art.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", art.Filename))
		return c.Status(fiber.StatusOK).Send(art.Data)
	}
}
