package report

import (
	"go-reports/internal/config"
	"go-reports/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
	Config           *config.Config
}

func NewReportApi(reportController *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		ReportController: reportController,
		Config:           config,
	}
}

func (api *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/report-configs", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/", api.ReportController.Create)
	group.Get("/", api.ReportController.List)
	group.Get("/templates", api.ReportController.Templates)
	group.Post("/run", api.ReportController.RunDraft)
	group.Get("/:id", api.ReportController.Get)
	group.Put("/:id", api.ReportController.Update)
	group.Delete("/:id", api.ReportController.Delete)
	group.Get("/:id/run", api.ReportController.Run)
	group.Get("/:id/export", api.ReportController.Export)
	group.Post("/:id/template/:name", api.ReportController.ApplyTemplate)
	group.Patch("/:id/layout", api.ReportController.MutateLayout)
}
