package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultDatabase   = "issuegraph"
	defaultCollection = "runs"
)

// MongoArchive stores runs in a MongoDB collection.
type MongoArchive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoArchive connects to MongoDB at uri and verifies the connection.
func NewMongoArchive(ctx context.Context, uri string) (*MongoArchive, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &MongoArchive{
		client: client,
		coll:   client.Database(defaultDatabase).Collection(defaultCollection),
	}, nil
}

// Save stores one extraction run.
func (a *MongoArchive) Save(ctx context.Context, run *Run) error {
	if _, err := a.coll.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Latest returns the most recent run for a repo and root issue.
func (a *MongoArchive) Latest(ctx context.Context, repo string, rootIssue int) (*Run, error) {
	filter := bson.M{"repo": repo, "root_issue": rootIssue}
	opts := options.FindOne().SetSort(bson.D{{Key: "extracted_at", Value: -1}})

	var run Run
	err := a.coll.FindOne(ctx, filter, opts).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	return &run, nil
}

// List returns up to limit runs for a repo, newest first.
func (a *MongoArchive) List(ctx context.Context, repo string, limit int) ([]Run, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "extracted_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := a.coll.Find(ctx, bson.M{"repo": repo}, opts)
	if err != nil {
		return nil, fmt.Errorf("find runs: %w", err)
	}
	defer cur.Close(ctx)

	var runs []Run
	if err := cur.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	return runs, nil
}

// Close disconnects from MongoDB.
func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

var _ Archive = (*MongoArchive)(nil)
