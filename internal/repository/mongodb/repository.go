package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/repository"
)

const (
	operationalCollection = "operational_data"
	employeeCollection    = "karyawan"
	settingsCollection    = "settings"
	analysisCollection    = "analysis_reports"
	countersCollection    = "counters"
)

// MongoDBRepository implements repository.Store on MongoDB.
type MongoDBRepository struct {
	client       *mongo.Client
	db           *mongo.Database
	upsertByDate bool
	logger       *zap.Logger
	now          func() time.Time
}

var _ repository.Store = (*MongoDBRepository)(nil)

// NewMongoDBRepository connects, pings and makes sure the date index exists.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, upsertByDate bool, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &MongoDBRepository{
		client:       client,
		db:           client.Database(dbName),
		upsertByDate: upsertByDate,
		logger:       logger,
		now:          time.Now,
	}

	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return r, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(operationalCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_date"),
	})
	if err != nil {
		return fmt.Errorf("create operational date index: %w", err)
	}

	_, err = r.db.Collection(employeeCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_id"),
	})
	if err != nil {
		return fmt.Errorf("create employee id index: %w", err)
	}
	return nil
}

// nextIDs reserves n sequential ids for a collection and returns the first.
func (r *MongoDBRepository) nextIDs(ctx context.Context, collection string, n int) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": int64(n)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("reserve ids for %s: %w", collection, err)
	}
	return counter.Seq - int64(n) + 1, nil
}

// ListOperational returns every record, newest date first.
func (r *MongoDBRepository) ListOperational(ctx context.Context) ([]models.OperationalRecord, error) {
	cursor, err := r.db.Collection(operationalCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find operational data: %w", err)
	}

	records := make([]models.OperationalRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode operational data: %w", err)
	}
	return records, nil
}

// InsertOperational writes the batch in one call. Without upsert the batch is
// rejected before any write when a date repeats or is already stored.
func (r *MongoDBRepository) InsertOperational(ctx context.Context, records []models.OperationalRecord) ([]models.OperationalRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	coll := r.db.Collection(operationalCollection)
	if !r.upsertByDate {
		if err := rejectStoredDates(ctx, coll, records); err != nil {
			return nil, err
		}
	}

	first, err := r.nextIDs(ctx, operationalCollection, len(records))
	if err != nil {
		return nil, err
	}
	stored := make([]models.OperationalRecord, len(records))
	for i, rec := range records {
		rec.ID = first + int64(i)
		stored[i] = rec
	}

	if r.upsertByDate {
		writes := make([]mongo.WriteModel, 0, len(stored))
		for _, rec := range stored {
			writes = append(writes, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"date": rec.Date}).
				SetReplacement(rec).
				SetUpsert(true))
		}
		if _, err := coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
			return nil, fmt.Errorf("upsert operational data: %w", err)
		}
		r.logger.Debug("operational batch upserted", zap.Int("rows", len(stored)))
		return stored, nil
	}

	docs := make([]interface{}, 0, len(stored))
	for _, rec := range stored {
		docs = append(docs, rec)
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert operational data: %w", err)
	}
	r.logger.Debug("operational batch inserted", zap.Int("rows", len(stored)))
	return stored, nil
}

// rejectStoredDates fails when the batch repeats a date or hits one already in
// the collection. The unique index still guards concurrent writers.
func rejectStoredDates(ctx context.Context, coll *mongo.Collection, records []models.OperationalRecord) error {
	if date, dup := repeatedDate(records); dup {
		return fmt.Errorf("duplicate key value violates unique constraint on date %s", date)
	}

	var existing models.OperationalRecord
	err := coll.FindOne(ctx,
		bson.M{"date": bson.M{"$in": batchDates(records)}},
		options.FindOne().SetProjection(bson.M{"date": 1}),
	).Decode(&existing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check existing dates: %w", err)
	}
	return fmt.Errorf("duplicate key value violates unique constraint on date %s", existing.Date)
}

func repeatedDate(records []models.OperationalRecord) (string, bool) {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Date]; ok {
			return rec.Date, true
		}
		seen[rec.Date] = struct{}{}
	}
	return "", false
}

func batchDates(records []models.OperationalRecord) []string {
	dates := make([]string, 0, len(records))
	for _, rec := range records {
		dates = append(dates, rec.Date)
	}
	return dates
}

// UpdateOperational replaces the inputs and derived fields stored under rec.Date.
func (r *MongoDBRepository) UpdateOperational(ctx context.Context, rec models.OperationalRecord) (models.OperationalRecord, error) {
	set, err := setDocument(rec, "id", "date")
	if err != nil {
		return models.OperationalRecord{}, err
	}

	var updated models.OperationalRecord
	err = r.db.Collection(operationalCollection).FindOneAndUpdate(ctx,
		bson.M{"date": rec.Date},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.OperationalRecord{}, models.ErrNotFound
	}
	if err != nil {
		return models.OperationalRecord{}, fmt.Errorf("update operational %s: %w", rec.Date, err)
	}
	return updated, nil
}

func (r *MongoDBRepository) DeleteOperational(ctx context.Context, date string) error {
	res, err := r.db.Collection(operationalCollection).DeleteOne(ctx, bson.M{"date": date})
	if err != nil {
		return fmt.Errorf("delete operational %s: %w", date, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoDBRepository) DeleteAllOperational(ctx context.Context) error {
	res, err := r.db.Collection(operationalCollection).DeleteMany(ctx,
		bson.M{"date": bson.M{"$ne": repository.SafeguardDate}})
	if err != nil {
		return fmt.Errorf("delete all operational data: %w", err)
	}
	r.logger.Info("operational data cleared", zap.Int64("deleted", res.DeletedCount))
	return nil
}

// ListEmployees returns every employee ordered by name.
func (r *MongoDBRepository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	cursor, err := r.db.Collection(employeeCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "nama", Value: 1}, {Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}

	employees := make([]models.Employee, 0)
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	return employees, nil
}

func (r *MongoDBRepository) InsertEmployees(ctx context.Context, employees []models.Employee) ([]models.Employee, error) {
	if len(employees) == 0 {
		return nil, nil
	}

	first, err := r.nextIDs(ctx, employeeCollection, len(employees))
	if err != nil {
		return nil, err
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	stored := make([]models.Employee, len(employees))
	docs := make([]interface{}, len(employees))
	for i, emp := range employees {
		emp.ID = first + int64(i)
		emp.CreatedAt = now
		stored[i] = emp
		docs[i] = emp
	}

	if _, err := r.db.Collection(employeeCollection).InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert employees: %w", err)
	}
	return stored, nil
}

// UpdateEmployee replaces the whole profile so that cleared fields are
// removed too; id and created_at are carried over from the stored document.
func (r *MongoDBRepository) UpdateEmployee(ctx context.Context, emp models.Employee) (models.Employee, error) {
	coll := r.db.Collection(employeeCollection)

	var existing models.Employee
	err := coll.FindOne(ctx, bson.M{"id": emp.ID}).Decode(&existing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Employee{}, models.ErrNotFound
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("find employee %d: %w", emp.ID, err)
	}

	emp.CreatedAt = existing.CreatedAt
	res, err := coll.ReplaceOne(ctx, bson.M{"id": emp.ID}, emp)
	if err != nil {
		return models.Employee{}, fmt.Errorf("update employee %d: %w", emp.ID, err)
	}
	if res.MatchedCount == 0 {
		return models.Employee{}, models.ErrNotFound
	}
	return emp, nil
}

func (r *MongoDBRepository) DeleteEmployee(ctx context.Context, id int64) error {
	res, err := r.db.Collection(employeeCollection).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoDBRepository) DeleteAllEmployees(ctx context.Context) error {
	res, err := r.db.Collection(employeeCollection).DeleteMany(ctx,
		bson.M{"id": bson.M{"$ne": repository.SafeguardEmployeeID}})
	if err != nil {
		return fmt.Errorf("delete all employees: %w", err)
	}
	r.logger.Info("employee data cleared", zap.Int64("deleted", res.DeletedCount))
	return nil
}

func (r *MongoDBRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var doc struct {
		Value string `bson:"value"`
	}
	err := r.db.Collection(settingsCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return doc.Value, nil
}

func (r *MongoDBRepository) PutSetting(ctx context.Context, key, value string) error {
	_, err := r.db.Collection(settingsCollection).UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"value": value, "updated_at": r.now().UTC()}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put setting %s: %w", key, err)
	}
	return nil
}

// SaveAnalysis saves a generated analysis to the database.
func (r *MongoDBRepository) SaveAnalysis(ctx context.Context, report models.AnalysisReport) error {
	if _, err := r.db.Collection(analysisCollection).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert analysis report: %w", err)
	}
	return nil
}

func (r *MongoDBRepository) LatestAnalysis(ctx context.Context) (models.AnalysisReport, error) {
	var report models.AnalysisReport
	err := r.db.Collection(analysisCollection).FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.AnalysisReport{}, models.ErrNotFound
	}
	if err != nil {
		return models.AnalysisReport{}, fmt.Errorf("find latest analysis: %w", err)
	}
	return report, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// setDocument marshals v into a $set document without the given keys.
func setDocument(v interface{}, omit ...string) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal update: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal update: %w", err)
	}
	for _, key := range omit {
		delete(doc, key)
	}
	return doc, nil
}
