package report

import (
	"context"
	"fmt"
	"strings"
	"sync"

	common_models "go-reports/internal/common/models"
	"go-reports/internal/connectors"
	"go-reports/internal/features/schema"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RunResult is the normalized row/column view the engine emits for the
// renderer and the export writers.
type RunResult struct {
	Columns         []common_models.ColumnDescriptor `json:"columns"` // visible, in layout order
	Widths          map[string]int                   `json:"widths"`
	Rows            []map[string]any                 `json:"rows"`
	Styles          []map[string]CellStyle           `json:"styles"` // per row, matching cells only
	Groups          []GroupedRows                    `json:"groups,omitempty"`
	Totals          map[string]any                   `json:"totals,omitempty"`
	TotalsPageScope bool                             `json:"totalsPageScope"`
	Total           int64                            `json:"total"`
	Page            int                              `json:"page"`
	PageSize        int                              `json:"pageSize"`
	TotalPages      int                              `json:"totalPages"`
	RowHeight       int                              `json:"rowHeight"`
	RequestKey      RequestKey                       `json:"requestKey"`
	Superseded      bool                             `json:"superseded"`
}

// LayoutMutation is one column-layout operation applied to a saved
// configuration.
type LayoutMutation struct {
	Action       string   `json:"action"` // "reorder", "resize", "select"
	MovedColumn  string   `json:"movedColumn,omitempty"`
	TargetColumn string   `json:"targetColumn,omitempty"`
	Column       string   `json:"column,omitempty"`
	WidthPixels  int      `json:"widthPixels,omitempty"`
	Columns      []string `json:"columns,omitempty"`
}

type ReportService interface {
	SaveConfig(ctx context.Context, cfg *ReportConfig) (string, error)
	GetConfig(ctx context.Context, id string) (*ReportConfig, error)
	ListConfigs(ctx context.Context) ([]ReportConfig, error)
	DeleteConfig(ctx context.Context, id string) error
	ApplyTemplate(ctx context.Context, id string, name TemplateName) (*ReportConfig, error)
	MutateLayout(ctx context.Context, id string, mutation LayoutMutation) (*ReportConfig, error)
	Run(ctx context.Context, cfg *ReportConfig, page, pageSize int, searchTerm string) (*RunResult, error)
	RunByID(ctx context.Context, id string, page, pageSize int, searchTerm string) (*RunResult, error)
	ExportCSV(ctx context.Context, id string) ([]byte, string, error)
	ExportExcel(ctx context.Context, id string) ([]byte, string, error)
}

type ReportServiceImpl struct {
	ConfigRepo    ReportConfigRepository
	SchemaService schema.SchemaService
	Registry      *connectors.Registry
	Logger        *zap.Logger

	mu     sync.Mutex
	latest map[string]*LatestWins // per-config supersession tracking
}

func NewReportService(configRepo ReportConfigRepository, schemaService schema.SchemaService, registry *connectors.Registry, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{
		ConfigRepo:    configRepo,
		SchemaService: schemaService,
		Registry:      registry,
		Logger:        logger,
		latest:        make(map[string]*LatestWins),
	}
}

// SaveConfig persists the configuration: a new id on first save, an in-place
// update (bumping lastModified) afterwards. Last save wins; there is no
// optimistic-concurrency check.
func (s *ReportServiceImpl) SaveConfig(ctx context.Context, cfg *ReportConfig) (string, error) {
	if cfg.Name == "" {
		return "", fmt.Errorf("configuration name is required")
	}

	if cfg.ID.IsZero() {
		cfg.ID = primitive.NewObjectID()
		if err := s.ConfigRepo.Create(ctx, cfg); err != nil {
			return "", err
		}
		return cfg.ID.Hex(), nil
	}

	if err := s.ConfigRepo.Update(ctx, cfg.ID.Hex(), cfg); err != nil {
		return "", err
	}
	return cfg.ID.Hex(), nil
}

// GetConfig loads a configuration whole; the caller replaces its entire
// in-memory state in one step, never field by field.
func (s *ReportServiceImpl) GetConfig(ctx context.Context, id string) (*ReportConfig, error) {
	return s.ConfigRepo.Get(ctx, id)
}

func (s *ReportServiceImpl) ListConfigs(ctx context.Context) ([]ReportConfig, error) {
	return s.ConfigRepo.List(ctx)
}

func (s *ReportServiceImpl) DeleteConfig(ctx context.Context, id string) error {
	return s.ConfigRepo.Delete(ctx, id)
}

// ApplyTemplate loads, mutates the display fields, persists, and returns the
// updated configuration.
func (s *ReportServiceImpl) ApplyTemplate(ctx context.Context, id string, name TemplateName) (*ReportConfig, error) {
	cfg, err := s.ConfigRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ApplyTemplate(cfg, name); err != nil {
		return nil, err
	}
	if err := s.ConfigRepo.Update(ctx, id, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MutateLayout applies one reorder/resize/select operation and persists
func (s *ReportServiceImpl) MutateLayout(ctx context.Context, id string, mutation LayoutMutation) (*ReportConfig, error) {
	cfg, err := s.ConfigRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch mutation.Action {
	case "reorder":
		cfg.Columns.Reorder(mutation.MovedColumn, mutation.TargetColumn)
	case "resize":
		cfg.Columns.Resize(mutation.Column, mutation.WidthPixels)
	case "select":
		cfg.Columns.SetSelected(mutation.Columns)
	default:
		return nil, fmt.Errorf("unknown layout action: %s", mutation.Action)
	}

	if err := s.ConfigRepo.Update(ctx, id, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunByID loads and runs a saved configuration
func (s *ReportServiceImpl) RunByID(ctx context.Context, id string, page, pageSize int, searchTerm string) (*RunResult, error) {
	cfg, err := s.ConfigRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, cfg, page, pageSize, searchTerm)
}

// Run resolves the schema, reconciles the layout, fetches one page from the
// provider and derives the grouped view, cell styles and totals row. The
// computation layers never fail a render; only schema resolution and the row
// fetch surface errors.
func (s *ReportServiceImpl) Run(ctx context.Context, cfg *ReportConfig, page, pageSize int, searchTerm string) (*RunResult, error) {
	if pageSize < 1 {
		pageSize = 25
	}

	columns, err := s.SchemaService.GetColumns(ctx, cfg.Source())
	if err != nil {
		return nil, err
	}
	cfg.Columns.Reconcile(columns)

	req := BuildRequest(cfg, page, pageSize, searchTerm, cfg.Sorting.Column, cfg.Sorting.Order)
	if req == nil {
		return nil, fmt.Errorf("%w: source selection incomplete", connectors.ErrRowFetchFailed)
	}

	key := KeyFor(cfg.Source(), req)
	guard := s.guardFor(cfg)
	guard.Issue(key)

	conn, err := s.Registry.ForSource(cfg.Source())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", connectors.ErrRowFetchFailed, err)
	}

	result, err := conn.Query(ctx, cfg.Source(), *req)
	if err != nil {
		return nil, err
	}

	rows := result.Items
	EvaluateComputedColumns(rows, cfg.ComputedColumns)
	rows = applyFilters(rows, cfg.Filters)

	byName := make(map[string]common_models.ColumnDescriptor, len(columns))
	for _, col := range columns {
		byName[col.Name] = col
	}
	visibleNames := make(map[string]bool)
	var visible []common_models.ColumnDescriptor
	for _, name := range cfg.Columns.Visible() {
		if col, ok := byName[name]; ok {
			visible = append(visible, col)
			visibleNames[name] = true
		}
	}

	// The totals label lives in the first non-numeric column in schema
	// order, independent of how the layout reorders the display.
	var schemaOrdered []common_models.ColumnDescriptor
	for _, col := range columns {
		if visibleNames[col.Name] {
			schemaOrdered = append(schemaOrdered, col)
		}
	}

	styles := make([]map[string]CellStyle, len(rows))
	for i, row := range rows {
		cellStyles := make(map[string]CellStyle)
		for _, col := range visible {
			if style := StyleFor(cfg.Formatting, row[col.Name], col.Name); !style.IsZero() {
				cellStyles[col.Name] = style
			}
		}
		styles[i] = cellStyles
	}

	run := &RunResult{
		Columns:         visible,
		Widths:          cfg.Columns.Widths,
		Rows:            rows,
		Styles:          styles,
		Groups:          GroupRows(rows, cfg.Grouping),
		Totals:          ComputeTotals(rows, schemaOrdered, cfg.Totals),
		TotalsPageScope: true,
		Total:           result.Total,
		Page:            result.Page,
		PageSize:        result.PageSize,
		TotalPages:      result.TotalPages,
		RowHeight:       cfg.RowHeight,
		RequestKey:      key,
		Superseded:      !guard.Accept(key),
	}
	return run, nil
}

func (s *ReportServiceImpl) guardFor(cfg *ReportConfig) *LatestWins {
	id := cfg.ID.Hex()
	s.mu.Lock()
	defer s.mu.Unlock()
	guard, ok := s.latest[id]
	if !ok {
		guard = &LatestWins{}
		s.latest[id] = guard
	}
	return guard
}

// applyFilters keeps rows whose column value contains the filter text,
// case-insensitively. Filters with empty text are ignored.
func applyFilters(rows []map[string]any, filters map[string]string) []map[string]any {
	active := make(map[string]string, len(filters))
	for col, text := range filters {
		if strings.TrimSpace(text) != "" {
			active[col] = strings.ToLower(strings.TrimSpace(text))
		}
	}
	if len(active) == 0 {
		return rows
	}

	filtered := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		keep := true
		for col, text := range active {
			if !strings.Contains(strings.ToLower(stringify(row[col])), text) {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
