package schema

import (
	"errors"

	"go-reports/internal/connectors"

	"github.com/gofiber/fiber/v2"
)

type SchemaController struct {
	SchemaService SchemaService
}

func NewSchemaController(schemaService SchemaService) *SchemaController {
	return &SchemaController{SchemaService: schemaService}
}

// Resolve godoc
func (c *SchemaController) Resolve(ctx *fiber.Ctx) error {
	var src connectors.Source
	if err := ctx.BodyParser(&src); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	columns, err := c.SchemaService.GetColumns(ctx.Context(), src)
	if err != nil {
		if errors.Is(err, connectors.ErrSchemaUnavailable) {
			// Recoverable: the client renders an empty column list
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":   "schema unavailable",
				"columns": []any{},
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"columns": columns})
}

// Tables godoc
func (c *SchemaController) Tables(ctx *fiber.Ctx) error {
	tables, err := c.SchemaService.ListTables(ctx.Context())
	if err != nil {
		if errors.Is(err, connectors.ErrSchemaUnavailable) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":  "no table catalog available",
				"tables": []any{},
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"tables": tables})
}

// Invalidate godoc
func (c *SchemaController) Invalidate(ctx *fiber.Ctx) error {
	var src connectors.Source
	if err := ctx.BodyParser(&src); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	c.SchemaService.Invalidate(src)
	return ctx.SendStatus(fiber.StatusNoContent)
}
