// Package store persists projects and their computed layouts.
//
// A Project pairs a site boundary with a layout configuration; a Layout
// records one placement result for a project. Two backends are provided:
// an in-memory store for tests and single-shot CLI runs, and a MongoDB
// store for shared deployments. Both are safe for concurrent use.
package store

import (
	"context"
	"time"

	"github.com/pvlab/sunrack/pkg/geom"
	"github.com/pvlab/sunrack/pkg/plan"
)

// Project is a named site with its layout configuration.
type Project struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Site      geom.Polygon `json:"site" bson:"site"`
	Config    plan.Config  `json:"config" bson:"config"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// Layout records one placement result for a project.
type Layout struct {
	ID        string      `json:"id" bson:"_id"`
	ProjectID string      `json:"project_id" bson:"project_id"`
	Result    plan.Result `json:"result" bson:"result"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// Store is the persistence interface for projects and layouts.
type Store interface {
	// SaveProject inserts or updates a project. A missing ID is
	// assigned; CreatedAt/UpdatedAt are maintained by the store.
	SaveProject(ctx context.Context, p *Project) error

	// Project returns a project by ID, or a PROJECT_NOT_FOUND error.
	Project(ctx context.Context, id string) (*Project, error)

	// ListProjects returns all projects, newest first.
	ListProjects(ctx context.Context) ([]Project, error)

	// DeleteProject removes a project and all its layouts.
	DeleteProject(ctx context.Context, id string) error

	// SaveLayout inserts a layout. A missing ID is assigned.
	SaveLayout(ctx context.Context, l *Layout) error

	// Layout returns a layout by ID, or a LAYOUT_NOT_FOUND error.
	Layout(ctx context.Context, id string) (*Layout, error)

	// LayoutsForProject returns all layouts for a project, newest first.
	LayoutsForProject(ctx context.Context, projectID string) ([]Layout, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
