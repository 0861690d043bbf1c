package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"canal-denuncies/models"
	"canal-denuncies/store"

	"github.com/apex/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	reportsCollection  = "reports"
	settingsCollection = "settings"
)

// Client is the process-wide MongoDB connection.
var Client *mongo.Client

// InitDB connects to MongoDB and verifies the connection with a ping.
func InitDB(ctx context.Context, uri string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}

	Client = client
	log.Info("connected to MongoDB")
	return nil
}

// DisconnectDB closes the connection opened by InitDB.
func DisconnectDB() {
	if Client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Disconnect(ctx); err != nil {
		log.WithError(err).Error("disconnect MongoDB")
		return
	}
	log.Info("disconnected from MongoDB")
}

// ReportRepo is the MongoDB implementation of store.Remote.
type ReportRepo struct {
	reports  *mongo.Collection
	settings *mongo.Collection
}

func NewReportRepo(client *mongo.Client, database string) *ReportRepo {
	d := client.Database(database)
	return &ReportRepo{
		reports:  d.Collection(reportsCollection),
		settings: d.Collection(settingsCollection),
	}
}

// EnsureIndexes creates the createdAt index used by FindAll.
func (r *ReportRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	return err
}

func (r *ReportRepo) FindAll(ctx context.Context) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.reports.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepo) FindByID(ctx context.Context, id string) (models.Report, error) {
	var report models.Report
	err := r.reports.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Report{}, store.ErrNotFound
	}
	if err != nil {
		return models.Report{}, err
	}
	return report, nil
}

// ReplaceAll upserts every given report and removes the ones not in the list.
func (r *ReportRepo) ReplaceAll(ctx context.Context, reports []models.Report) error {
	ids := make([]string, 0, len(reports))
	writes := make([]mongo.WriteModel, 0, len(reports))
	for _, rep := range reports {
		ids = append(ids, rep.ID)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": rep.ID}).
			SetReplacement(rep).
			SetUpsert(true))
	}

	if len(writes) > 0 {
		if _, err := r.reports.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
			return fmt.Errorf("bulk replace: %w", err)
		}
	}
	if _, err := r.reports.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}}); err != nil {
		return fmt.Errorf("prune removed reports: %w", err)
	}
	return nil
}

func (r *ReportRepo) Insert(ctx context.Context, report models.Report) error {
	_, err := r.reports.InsertOne(ctx, report)
	return err
}

func (r *ReportRepo) Delete(ctx context.Context, id string) error {
	res, err := r.reports.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *ReportRepo) FindSettings(ctx context.Context) (models.AppSettings, bool, error) {
	var settings models.AppSettings
	err := r.settings.FindOne(ctx, bson.M{"_id": models.SettingsID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AppSettings{}, false, nil
	}
	if err != nil {
		return models.AppSettings{}, false, err
	}
	return settings, true, nil
}

func (r *ReportRepo) SaveSettings(ctx context.Context, settings models.AppSettings) error {
	settings.ID = models.SettingsID
	_, err := r.settings.ReplaceOne(ctx,
		bson.M{"_id": models.SettingsID},
		settings,
		options.Replace().SetUpsert(true),
	)
	return err
}

var _ store.Remote = (*ReportRepo)(nil)
