package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/fishfarm/internal/domain/models"
	"github.com/mamadbah2/fishfarm/internal/repository"
)

const (
	usersCollection     = "users"
	settingsCollection  = "farm_settings"
	batchesCollection   = "batches"
	feedPlansCollection = "feed_plans"
)

var newestFirst = bson.D{{Key: "created_at", Value: -1}}

// MongoDBRepository stores every farm record in MongoDB. All queries are
// scoped by owner.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
	now    func() time.Time
}

// NewMongoDBRepository connects and pings the server.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
		now:    time.Now,
	}, nil
}

// EnsureIndexes creates the indexes the queries rely on.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	ownerNewest := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}

	collections := []string{batchesCollection, feedPlansCollection}
	for _, kind := range models.SectionKinds() {
		collections = append(collections, kind.Collection())
	}
	for _, name := range collections {
		if _, err := r.db.Collection(name).Indexes().CreateOne(ctx, ownerNewest); err != nil {
			return fmt.Errorf("create owner index on %s: %w", name, err)
		}
	}

	r.logger.Debug("mongodb indexes ensured", zap.Int("collections", len(collections)+1))
	return nil
}

// CreateUser inserts a new account. The email must be unused.
func (r *MongoDBRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user.ID = primitive.NewObjectID().Hex()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now().UTC()
	}

	if _, err := r.db.Collection(usersCollection).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, repository.ErrDuplicate
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// FindUserByEmail loads an account by its login email.
func (r *MongoDBRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, notFound(err, "find user by email")
	}
	return user, nil
}

// FindUserByID loads an account by id.
func (r *MongoDBRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := r.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return models.User{}, notFound(err, "find user by id")
	}
	return user, nil
}

// GetSettings returns repository.ErrNotFound when the user never saved settings.
func (r *MongoDBRepository) GetSettings(ctx context.Context, userID string) (models.FarmSettings, error) {
	var settings models.FarmSettings
	err := r.db.Collection(settingsCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&settings)
	if err != nil {
		return models.FarmSettings{}, notFound(err, "find settings")
	}
	return settings, nil
}

// UpsertSettings creates or replaces the settings of settings.UserID.
func (r *MongoDBRepository) UpsertSettings(ctx context.Context, settings models.FarmSettings) error {
	settings.UpdatedAt = r.now().UTC()
	_, err := r.db.Collection(settingsCollection).ReplaceOne(ctx,
		bson.M{"_id": settings.UserID},
		settings,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}

// ListBatches returns every batch of the user, newest first.
func (r *MongoDBRepository) ListBatches(ctx context.Context, userID string) ([]models.Batch, error) {
	return r.findBatches(ctx, bson.M{"user_id": userID})
}

// ListActiveBatches returns the user's batches still being raised.
func (r *MongoDBRepository) ListActiveBatches(ctx context.Context, userID string) ([]models.Batch, error) {
	return r.findBatches(ctx, bson.M{"user_id": userID, "status": models.BatchStatusActive})
}

// FindBatch loads one batch owned by userID.
func (r *MongoDBRepository) FindBatch(ctx context.Context, userID, id string) (models.Batch, error) {
	var batch models.Batch
	err := r.db.Collection(batchesCollection).FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&batch)
	if err != nil {
		return models.Batch{}, notFound(err, "find batch")
	}
	return batch, nil
}

// ListOwners returns the ids of users that have at least one active batch.
func (r *MongoDBRepository) ListOwners(ctx context.Context) ([]string, error) {
	values, err := r.db.Collection(batchesCollection).Distinct(ctx, "user_id", bson.M{"status": models.BatchStatusActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list batch owners: %w", err)
	}

	owners := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok && id != "" {
			owners = append(owners, id)
		}
	}
	return owners, nil
}

// CreateBatch inserts a batch and returns it with its generated id.
func (r *MongoDBRepository) CreateBatch(ctx context.Context, batch models.Batch) (models.Batch, error) {
	batch.ID = primitive.NewObjectID().Hex()
	batch.CreatedAt = r.now().UTC()

	if _, err := r.db.Collection(batchesCollection).InsertOne(ctx, batch); err != nil {
		return models.Batch{}, fmt.Errorf("failed to insert batch: %w", err)
	}
	return batch, nil
}

// DeleteBatch removes a batch owned by userID.
func (r *MongoDBRepository) DeleteBatch(ctx context.Context, userID, id string) error {
	return r.deleteOwned(ctx, batchesCollection, userID, id)
}

// ListSectionRecords returns the journal of one section, newest first.
func (r *MongoDBRepository) ListSectionRecords(ctx context.Context, kind models.SectionKind, userID string) ([]models.SectionRecord, error) {
	cursor, err := r.db.Collection(kind.Collection()).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", kind, err)
	}

	records := make([]models.SectionRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s records: %w", kind, err)
	}
	return records, nil
}

// CreateSectionRecord inserts a journal entry into the record's section.
func (r *MongoDBRepository) CreateSectionRecord(ctx context.Context, record models.SectionRecord) (models.SectionRecord, error) {
	record.ID = primitive.NewObjectID().Hex()
	record.CreatedAt = r.now().UTC()

	if _, err := r.db.Collection(record.Section.Collection()).InsertOne(ctx, record); err != nil {
		return models.SectionRecord{}, fmt.Errorf("failed to insert %s record: %w", record.Section, err)
	}
	return record, nil
}

// DeleteSectionRecord removes a journal entry owned by userID.
func (r *MongoDBRepository) DeleteSectionRecord(ctx context.Context, kind models.SectionKind, userID, id string) error {
	return r.deleteOwned(ctx, kind.Collection(), userID, id)
}

// SaveFeedPlan stores a daily feed plan snapshot.
func (r *MongoDBRepository) SaveFeedPlan(ctx context.Context, plan models.FeedPlan) error {
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = r.now().UTC()
	}
	if _, err := r.db.Collection(feedPlansCollection).InsertOne(ctx, plan); err != nil {
		return fmt.Errorf("failed to insert feed plan: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) findBatches(ctx context.Context, filter bson.M) ([]models.Batch, error) {
	cursor, err := r.db.Collection(batchesCollection).Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}

	batches := make([]models.Batch, 0)
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, fmt.Errorf("failed to decode batches: %w", err)
	}
	return batches, nil
}

func (r *MongoDBRepository) deleteOwned(ctx context.Context, collection, userID, id string) error {
	res, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", collection, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func notFound(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
