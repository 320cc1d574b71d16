package main

import (
	"context"

	"go-reports/internal/config"
	"go-reports/internal/connectors"
	"go-reports/internal/database"
	"go-reports/internal/features/report"
	"go-reports/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// demoConfigs builds the example report configurations used for local
// development. Each one exercises a different designer feature.
func demoConfigs() []*report.ReportConfig {
	orders := report.NewReportConfig()
	orders.Name = "Orders by Region"
	orders.Description = "Regional order totals with per-group aggregates"
	orders.SourceType = connectors.SourceTypeRelational
	orders.SourceConfig.Relational = &connectors.RelationalSource{
		SchemaName: "public",
		TableName:  "orders",
	}
	orders.Columns = report.ColumnLayout{
		Order:    []string{"region", "customer", "amount", "status"},
		Selected: []string{"region", "customer", "amount", "status"},
		Widths:   map[string]int{"region": 120, "customer": 200, "amount": 110, "status": 90},
	}
	orders.Grouping = report.GroupingConfig{
		Enabled: true,
		Columns: []string{"region"},
		Aggregations: map[string]report.Aggregation{
			"amount": report.AggregationSum,
		},
	}
	orders.Totals = report.TotalsConfig{Enabled: true}
	_ = report.ApplyTemplate(orders, report.TemplateSummary)

	invoices := report.NewReportConfig()
	invoices.Name = "Open Invoices"
	invoices.Description = "Invoice listing with overdue highlighting"
	invoices.SourceType = connectors.SourceTypeRelational
	invoices.SourceConfig.Relational = &connectors.RelationalSource{
		SchemaName: "public",
		TableName:  "invoices",
	}
	invoices.Columns = report.ColumnLayout{
		Order:    []string{"invoice_no", "customer", "due_date", "amount"},
		Selected: []string{"invoice_no", "customer", "due_date", "amount"},
		Widths:   map[string]int{"invoice_no": 100, "customer": 200, "due_date": 120, "amount": 110},
	}
	invoices.Formatting = []report.FormatRule{
		{
			ID:        "overdue",
			Column:    "amount",
			Condition: report.ConditionGreater,
			Value:     1000,
			Format:    report.RuleFormat{BackgroundColor: "#ffeb3b", FontWeight: "bold"},
			Enabled:   true,
		},
	}
	invoices.Sorting = report.SortSpec{Column: "due_date", Order: report.SortAsc}
	_ = report.ApplyTemplate(invoices, report.TemplateInvoice)

	return []*report.ReportConfig{orders, invoices}
}

// Seed inserts the demo report configurations, skipping any whose name
// already exists.
func Seed(
	lc fx.Lifecycle,
	repo report.ReportConfigRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("🌱 Seeding demo report configurations...")

				existing, err := repo.List(context.Background())
				if err != nil {
					logger.Error("Failed to list existing configurations", zap.Error(err))
					return
				}
				seen := make(map[string]bool, len(existing))
				for _, cfg := range existing {
					seen[cfg.Name] = true
				}

				for _, cfg := range demoConfigs() {
					if seen[cfg.Name] {
						logger.Info("Configuration exists, skipping", zap.String("name", cfg.Name))
						continue
					}
					if err := repo.Create(context.Background(), cfg); err != nil {
						logger.Error("Failed to seed configuration", zap.String("name", cfg.Name), zap.Error(err))
						continue
					}
					logger.Info("Seeded configuration", zap.String("name", cfg.Name))
				}

				logger.Info("✅ Seeding complete")
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			report.NewReportConfigRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
