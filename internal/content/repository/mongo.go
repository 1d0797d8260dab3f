package repository

import (
	"context"
	"errors"

	"github.com/khanhtoandng/me-sub001/internal/content"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection. Documents use
// the entity UUID as _id.
type MongoRepo[T content.Entity] struct {
	col    *mongo.Collection
	newDoc func() T
}

func NewMongoRepo[T content.Entity](col *mongo.Collection, newDoc func() T) *MongoRepo[T] {
	return &MongoRepo[T]{col: col, newDoc: newDoc}
}

func (m *MongoRepo[T]) Create(ctx context.Context, e T) error {
	_, err := m.col.InsertOne(ctx, e)
	return err
}

func (m *MongoRepo[T]) Get(ctx context.Context, id string) (T, error) {
	d := m.newDoc()
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(d); err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, content.ErrNotFound
		}
		return zero, err
	}
	return d, nil
}

func (m *MongoRepo[T]) List(ctx context.Context, q content.Query) ([]T, error) {
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	filter := q.Match
	if filter == nil {
		filter = bson.M{}
	}
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]T, 0)
	for cur.Next(ctx) {
		d := m.newDoc()
		if err := cur.Decode(d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, cur.Err()
}

func (m *MongoRepo[T]) Replace(ctx context.Context, e T) error {
	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": e.GetID()}, e)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return content.ErrNotFound
	}
	return nil
}

func (m *MongoRepo[T]) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return content.ErrNotFound
	}
	return nil
}
