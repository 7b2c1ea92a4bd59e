package report

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// inserter is the part of *mongo.Collection used by MongoSink
type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoSink stores each summary as a document in the julia.runs collection
type MongoSink struct {
	client *mongo.Client
	runs   inserter
}

func NewMongoSink(ctx context.Context, uri string) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	return &MongoSink{
		client: client,
		runs:   client.Database("julia").Collection("runs"),
	}, nil
}

func (sink *MongoSink) Publish(ctx context.Context, s Summary) error {
	if _, err := sink.runs.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("mongo insert: %w", err)
	}
	return nil
}

func (sink *MongoSink) Close() error {
	if sink.client == nil {
		return nil
	}
	return sink.client.Disconnect(context.Background())
}
