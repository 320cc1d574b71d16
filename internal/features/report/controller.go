package report

import (
	"errors"
	"fmt"

	"go-reports/internal/connectors"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// Create godoc
func (c *ReportController) Create(ctx *fiber.Ctx) error {
	cfg := NewReportConfig()
	if err := ctx.BodyParser(cfg); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	id, err := c.ReportService.SaveConfig(ctx.Context(), cfg)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "config": cfg})
}

// List godoc
func (c *ReportController) List(ctx *fiber.Ctx) error {
	configs, err := c.ReportService.ListConfigs(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(configs)
}

// Get godoc
func (c *ReportController) Get(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	cfg, err := c.ReportService.GetConfig(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, ErrConfigurationNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Configuration not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(cfg)
}

// Update godoc
func (c *ReportController) Update(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	cfg, err := c.ReportService.GetConfig(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, ErrConfigurationNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Configuration not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctx.BodyParser(cfg); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if _, err := c.ReportService.SaveConfig(ctx.Context(), cfg); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(cfg)
}

// Delete godoc
func (c *ReportController) Delete(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if err := c.ReportService.DeleteConfig(ctx.Context(), id); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// Run godoc
func (c *ReportController) Run(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	page := ctx.QueryInt("page", 1)
	pageSize := ctx.QueryInt("pageSize", 25)
	search := ctx.Query("search", "")

	run, err := c.ReportService.RunByID(ctx.Context(), id, page, pageSize, search)
	if err != nil {
		return runError(ctx, err)
	}
	return ctx.JSON(run)
}

// RunDraft runs an unsaved configuration sent in the request body
func (c *ReportController) RunDraft(ctx *fiber.Ctx) error {
	var request struct {
		Config   *ReportConfig `json:"config"`
		Page     int           `json:"page"`
		PageSize int           `json:"pageSize"`
		Search   string        `json:"search"`
	}
	if err := ctx.BodyParser(&request); err != nil || request.Config == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	run, err := c.ReportService.Run(ctx.Context(), request.Config, request.Page, request.PageSize, request.Search)
	if err != nil {
		return runError(ctx, err)
	}
	return ctx.JSON(run)
}

// ApplyTemplate godoc
func (c *ReportController) ApplyTemplate(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	name := TemplateName(ctx.Params("name"))

	cfg, err := c.ReportService.ApplyTemplate(ctx.Context(), id, name)
	if err != nil {
		if errors.Is(err, ErrConfigurationNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Configuration not found"})
		}
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(cfg)
}

// Templates lists the selectable template presets
func (c *ReportController) Templates(ctx *fiber.Ctx) error {
	return ctx.JSON(TemplateNames())
}

// MutateLayout godoc
func (c *ReportController) MutateLayout(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	var mutation LayoutMutation
	if err := ctx.BodyParser(&mutation); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	cfg, err := c.ReportService.MutateLayout(ctx.Context(), id, mutation)
	if err != nil {
		if errors.Is(err, ErrConfigurationNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Configuration not found"})
		}
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(cfg)
}

// Export godoc
func (c *ReportController) Export(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	format := ctx.Query("format", "csv")

	var data []byte
	var filename string
	var err error

	switch format {
	case "csv":
		data, filename, err = c.ReportService.ExportCSV(ctx.Context(), id)
		ctx.Set("Content-Type", "text/csv")
	case "xlsx":
		data, filename, err = c.ReportService.ExportExcel(ctx.Context(), id)
		ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	default:
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("unsupported format: %s", format)})
	}

	if err != nil {
		return runError(ctx, err)
	}

	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(data)
}

func runError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrConfigurationNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Configuration not found"})
	case errors.Is(err, connectors.ErrSchemaUnavailable):
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "schema unavailable"})
	case errors.Is(err, connectors.ErrRowFetchFailed):
		// The client keeps its last rendered page and shows an indicator
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "row fetch failed"})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
