package schema

import (
	"go-reports/internal/config"
	"go-reports/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SchemaApi struct {
	SchemaController *SchemaController
	Config           *config.Config
}

func NewSchemaApi(schemaController *SchemaController, config *config.Config) *SchemaApi {
	return &SchemaApi{
		SchemaController: schemaController,
		Config:           config,
	}
}

func (api *SchemaApi) Setup(app *fiber.App) {
	group := app.Group("/api/schema", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Get("/tables", api.SchemaController.Tables)
	group.Post("/resolve", api.SchemaController.Resolve)
	group.Post("/invalidate", api.SchemaController.Invalidate)
}
