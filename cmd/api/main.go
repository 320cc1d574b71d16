package main

import (
	"context"
	"fmt"
	common_api "go-reports/internal/common/api"
	"go-reports/internal/config"
	"go-reports/internal/connectors"
	"go-reports/internal/database"
	"go-reports/internal/features/report"
	"go-reports/internal/features/schema"
	"go-reports/internal/features/system"
	"go-reports/internal/logger"
	"go-reports/internal/middleware"
	"go-reports/pkg/utils"
	"log"

	_ "go-reports/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Use custom CORS middleware
	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// NewConnectorRegistry wires the configured data source connectors
// and ties their cleanup to the Fx lifecycle.
func NewConnectorRegistry(lc fx.Lifecycle, cfg *config.Config, zapLogger *zap.Logger) (*connectors.Registry, error) {
	var conns []connectors.Connector

	if cfg.SourceDSN != "" {
		sqlConn, err := connectors.NewSQLConnector(cfg.SourceDriver, cfg.SourceDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s source: %w", cfg.SourceDriver, err)
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return sqlConn.Close()
			},
		})
		conns = append(conns, sqlConn)
	}

	if cfg.BIBaseURL != "" {
		conns = append(conns, connectors.NewBIConnector(cfg.BIBaseURL, cfg.BIApiKey))
	}

	if len(conns) == 0 {
		zapLogger.Warn("No data source connectors configured; schema resolution will be unavailable")
	}

	return connectors.NewRegistry(conns...), nil
}

// @title           Paginated Reports API
// @version         1.0
// @description     Interactive tabular report designer backed by relational and BI data sources.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Data source connectors
			NewConnectorRegistry,

			// Initialize Repository
			report.NewReportConfigRepository,

			// Initialize Service
			func(registry *connectors.Registry, zapLogger *zap.Logger, cfg *config.Config) schema.SchemaService {
				return schema.NewSchemaService(registry, zapLogger, cfg.SchemaCacheTTL)
			},
			schema.NewRefresher,
			report.NewReportService,

			// Initialize Controller
			schema.NewSchemaController,
			report.NewReportController,

			// Initialize API Routes
			AsRoute(schema.NewSchemaApi),
			AsRoute(report.NewReportApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,

			// Schema cache refresh scheduler
			func(lc fx.Lifecycle, refresher *schema.Refresher) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return refresher.Start(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return refresher.Stop()
					},
				})
			},
		),
	)

	app.Run()
}
