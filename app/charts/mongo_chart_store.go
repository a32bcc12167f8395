package charts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoChartStore struct {
	coll *mongo.Collection
}

func NewMongoChartStore(db *mongo.Database) *MongoChartStore {
	return &MongoChartStore{coll: db.Collection("charts")}
}

var _ ChartStore = &MongoChartStore{}

type chartDoc struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Name       string        `bson:"name"`
	ConfigJSON string        `bson:"config_json"`
	CreatedAt  time.Time     `bson:"created_at"`
}

func (d chartDoc) toSavedChart() SavedChart {
	return SavedChart{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		ConfigJSON: d.ConfigJSON,
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

func (s *MongoChartStore) Init(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("creating charts index: %w", err)
	}
	return nil
}

func (s *MongoChartStore) Save(ctx context.Context, name string, configJSON string) (SavedChart, error) {
	doc := chartDoc{
		ID:         bson.NewObjectID(),
		Name:       name,
		ConfigJSON: configJSON,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return SavedChart{}, fmt.Errorf("inserting chart: %w", err)
	}
	return doc.toSavedChart(), nil
}

func (s *MongoChartStore) Get(ctx context.Context, id string) (SavedChart, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return SavedChart{}, ErrChartNotFound
	}
	var doc chartDoc
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return SavedChart{}, ErrChartNotFound
	}
	if err != nil {
		return SavedChart{}, fmt.Errorf("loading chart %s: %w", id, err)
	}
	return doc.toSavedChart(), nil
}

func (s *MongoChartStore) List(ctx context.Context) ([]SavedChart, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing charts: %w", err)
	}
	var docs []chartDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding charts: %w", err)
	}
	out := make([]SavedChart, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toSavedChart())
	}
	return out, nil
}
