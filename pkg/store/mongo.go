package store

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pvlab/sunrack/pkg/errors"
)

// MongoStore is a MongoDB-backed Store for shared deployments.
type MongoStore struct {
	client   *mongo.Client
	projects *mongo.Collection
	layouts  *mongo.Collection
}

// NewMongoStore connects to MongoDB and returns a store using the given
// database. Collections "projects" and "layouts" are created lazily.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}
	db := client.Database(database)
	return &MongoStore{
		client:   client,
		projects: db.Collection("projects"),
		layouts:  db.Collection("layouts"),
	}, nil
}

// SaveProject inserts or updates a project.
func (s *MongoStore) SaveProject(ctx context.Context, p *Project) error {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	} else if p.CreatedAt.IsZero() {
		var existing Project
		err := s.projects.FindOne(ctx, bson.M{"_id": p.ID}).Decode(&existing)
		if err == nil {
			p.CreatedAt = existing.CreatedAt
		} else {
			p.CreatedAt = now
		}
	}
	p.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	if _, err := s.projects.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save project %s", p.ID)
	}
	return nil
}

// Project returns a project by ID.
func (s *MongoStore) Project(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := s.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeProjectNotFound, "project %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load project %s", id)
	}
	return &p, nil
}

// ListProjects returns all projects, newest first.
func (s *MongoStore) ListProjects(ctx context.Context) ([]Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.projects.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list projects")
	}
	defer cursor.Close(ctx)

	var out []Project
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode projects")
	}
	return out, nil
}

// DeleteProject removes a project and all its layouts.
func (s *MongoStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.projects.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete project %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeProjectNotFound, "project %s not found", id)
	}
	if _, err := s.layouts.DeleteMany(ctx, bson.M{"project_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layouts for project %s", id)
	}
	return nil
}

// SaveLayout inserts a layout.
func (s *MongoStore) SaveLayout(ctx context.Context, l *Layout) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	if _, err := s.layouts.InsertOne(ctx, l); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save layout %s", l.ID)
	}
	return nil
}

// Layout returns a layout by ID.
func (s *MongoStore) Layout(ctx context.Context, id string) (*Layout, error) {
	var l Layout
	err := s.layouts.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeLayoutNotFound, "layout %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load layout %s", id)
	}
	return &l, nil
}

// LayoutsForProject returns all layouts for a project, newest first.
func (s *MongoStore) LayoutsForProject(ctx context.Context, projectID string) ([]Layout, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.layouts.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list layouts for project %s", projectID)
	}
	defer cursor.Close(ctx)

	var out []Layout
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode layouts")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
