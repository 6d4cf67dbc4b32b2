package dataset

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/errors"
)

// MongoStore keeps the editable datasets in MongoDB, one collection per
// category, one document per record. An empty collection is seeded from the
// embedded defaults on first read so a fresh database behaves like a fresh
// install.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore wraps an existing client connection.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{db: client.Database(database)}
}

func (s *MongoStore) collection(category string) *mongo.Collection {
	return s.db.Collection(category)
}

// seedIfEmpty inserts the shipped defaults into an empty collection.
func (s *MongoStore) seedIfEmpty(ctx context.Context, category string) error {
	count, err := s.collection(category).EstimatedDocumentCount(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "count %s documents", category)
	}
	if count > 0 {
		return nil
	}

	raw, err := defaultRecords(category)
	if err != nil {
		return err
	}
	docs := make([]any, len(raw))
	for i, r := range raw {
		docs[i] = r
	}
	if _, err := s.collection(category).InsertMany(ctx, docs); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "seed %s defaults", category)
	}
	return nil
}

// LoadAll returns the stored entities of a category, sorted by name.
func (s *MongoStore) LoadAll(ctx context.Context, category string) ([]entity.Entity, error) {
	if err := errors.ValidateCategoryName(category); err != nil {
		return nil, err
	}
	if !ValidCategory(category) {
		return nil, errors.New(errors.ErrCodeInvalidCategory, "unknown dataset category: %s", category)
	}
	if err := s.seedIfEmpty(ctx, category); err != nil {
		return nil, err
	}

	cursor, err := s.collection(category).Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"Name": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "query %s", category)
	}
	defer cursor.Close(ctx)

	var raw []map[string]any
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode %s document", category)
		}
		delete(doc, "_id")
		raw = append(raw, plainMap(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "iterate %s", category)
	}
	return normalizeAll(category, raw)
}

// Add inserts a new record.
func (s *MongoStore) Add(ctx context.Context, category string, fields map[string]any) (entity.Entity, error) {
	name, _ := fields["Name"].(string)
	if name == "" {
		return entity.Entity{}, errors.New(errors.ErrCodeInvalidInput, "record needs a Name field")
	}
	if err := s.seedIfEmpty(ctx, category); err != nil {
		return entity.Entity{}, err
	}

	count, err := s.collection(category).CountDocuments(ctx, bson.M{"Name": name})
	if err != nil {
		return entity.Entity{}, errors.Wrap(errors.ErrCodeStore, err, "check %s for %q", category, name)
	}
	if count > 0 {
		return entity.Entity{}, errors.New(errors.ErrCodeInvalidInput, "record %q already exists in %s", name, category)
	}

	if _, err := s.collection(category).InsertOne(ctx, fields); err != nil {
		return entity.Entity{}, errors.Wrap(errors.ErrCodeStore, err, "insert %q into %s", name, category)
	}

	norm, ok := normalizers[category]
	if !ok {
		return entity.Entity{}, errors.New(errors.ErrCodeInvalidCategory, "unknown dataset category: %s", category)
	}
	normalized, ok := norm(fields)
	if !ok {
		return entity.Entity{}, errors.New(errors.ErrCodeInvalidInput, "record %q misses required fields for %s", name, category)
	}
	return entity.New(normalized), nil
}

// Update replaces the record with the given name.
func (s *MongoStore) Update(ctx context.Context, category, name string, fields map[string]any) error {
	if _, ok := fields["Name"]; !ok {
		fields["Name"] = name
	}
	res, err := s.collection(category).ReplaceOne(ctx, bson.M{"Name": name}, fields)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "update %q in %s", name, category)
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeEntityNotFound, "no record %q in %s", name, category)
	}
	return nil
}

// Remove deletes the record with the given name.
func (s *MongoStore) Remove(ctx context.Context, category, name string) error {
	res, err := s.collection(category).DeleteOne(ctx, bson.M{"Name": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "remove %q from %s", name, category)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeEntityNotFound, "no record %q in %s", name, category)
	}
	return nil
}

// Reset drops the collection; the next read reseeds the defaults.
func (s *MongoStore) Reset(ctx context.Context, category string) error {
	if _, err := defaultRecords(category); err != nil {
		return err
	}
	if err := s.collection(category).Drop(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "reset %s", category)
	}
	return nil
}

// plainMap converts BSON container types back to the JSON shapes the entity
// accessors expect. Driver decoding yields bson.M and primitive.A, which are
// named types and fail []any / map[string]any assertions.
func plainMap(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return plainMap(t)
	case map[string]any:
		return plainMap(t)
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return v
	}
}

var _ Store = (*MongoStore)(nil)
