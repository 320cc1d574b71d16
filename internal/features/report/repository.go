package report

import (
	"context"
	"errors"
	"time"

	"go-reports/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrConfigurationNotFound is returned when a load-by-id misses. It is
// surfaced to the user and never corrupts the in-memory configuration.
var ErrConfigurationNotFound = errors.New("configuration not found")

// ReportConfigRepository is the injected storage port for report
// configurations, swappable for any durable store.
type ReportConfigRepository interface {
	Create(ctx context.Context, cfg *ReportConfig) error
	Get(ctx context.Context, id string) (*ReportConfig, error)
	List(ctx context.Context) ([]ReportConfig, error)
	Update(ctx context.Context, id string, cfg *ReportConfig) error
	Delete(ctx context.Context, id string) error
}

type ReportConfigRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewReportConfigRepository(db *database.MongodbDB) ReportConfigRepository {
	return &ReportConfigRepositoryImpl{
		Collection: db.DB.Collection("report_configs"),
	}
}

func (r *ReportConfigRepositoryImpl) Create(ctx context.Context, cfg *ReportConfig) error {
	now := time.Now()
	cfg.DateCreated = now
	cfg.LastModified = now
	_, err := r.Collection.InsertOne(ctx, cfg)
	return err
}

func (r *ReportConfigRepositoryImpl) Get(ctx context.Context, id string) (*ReportConfig, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrConfigurationNotFound
	}
	var cfg ReportConfig
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrConfigurationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// List returns every saved configuration, newest first. A stable order is
// part of the contract.
func (r *ReportConfigRepositoryImpl) List(ctx context.Context) ([]ReportConfig, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateCreated", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var configs []ReportConfig
	if err := cursor.All(ctx, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *ReportConfigRepositoryImpl) Update(ctx context.Context, id string, cfg *ReportConfig) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrConfigurationNotFound
	}
	cfg.LastModified = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":            cfg.Name,
			"description":     cfg.Description,
			"sourceType":      cfg.SourceType,
			"sourceConfig":    cfg.SourceConfig,
			"columns":         cfg.Columns,
			"filters":         cfg.Filters,
			"sorting":         cfg.Sorting,
			"grouping":        cfg.Grouping,
			"formatting":      cfg.Formatting,
			"totals":          cfg.Totals,
			"template":        cfg.Template,
			"exportSettings":  cfg.ExportSettings,
			"computedColumns": cfg.ComputedColumns,
			"rowHeight":       cfg.RowHeight,
			"lastModified":    cfg.LastModified,
		},
	}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConfigurationNotFound
	}
	return nil
}

func (r *ReportConfigRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrConfigurationNotFound
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
