package store

import (
	"context"
	"testing"
	"time"

	"github.com/pvlab/sunrack/pkg/errors"
	"github.com/pvlab/sunrack/pkg/geom"
	"github.com/pvlab/sunrack/pkg/plan"
)

func testProject(name string) *Project {
	return &Project{
		Name: name,
		Site: geom.NewPolygon(
			geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100),
		),
		Config: plan.Config{
			Latitude:     23.0225,
			ModuleLength: 2.278,
			ModuleWidth:  1.134,
			ModulePower:  545,
			TiltAngle:    15,
			WalkwayWidth: 3,
			Margin:       5,
		},
	}
}

func TestMemoryStoreProjectCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p := testProject("Kutch Block A")
	if err := s.SaveProject(ctx, p); err != nil {
		t.Fatal(err)
	}
	if p.ID == "" {
		t.Fatal("SaveProject should assign an ID")
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Fatal("SaveProject should set timestamps")
	}

	got, err := s.Project(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Kutch Block A" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Site.Len() != 4 {
		t.Errorf("Site vertices = %d, want 4", got.Site.Len())
	}

	if err := s.DeleteProject(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Project(ctx, p.ID); !errors.Is(err, errors.ErrCodeProjectNotFound) {
		t.Errorf("deleted project lookup should fail with PROJECT_NOT_FOUND, got %v", err)
	}
}

func TestMemoryStoreUpdatePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p := testProject("original")
	if err := s.SaveProject(ctx, p); err != nil {
		t.Fatal(err)
	}
	created := p.CreatedAt

	time.Sleep(time.Millisecond)
	p.Name = "renamed"
	if err := s.SaveProject(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := s.Project(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "renamed" {
		t.Errorf("Name = %q, want renamed", got.Name)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on update: %v vs %v", got.CreatedAt, created)
	}
	if !got.UpdatedAt.After(created) {
		t.Errorf("UpdatedAt %v should advance past %v", got.UpdatedAt, created)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, name := range []string{"first", "second", "third"} {
		if err := s.SaveProject(ctx, testProject(name)); err != nil {
			t.Fatal(err)
		}
		time.Sleep(time.Millisecond)
	}

	projects, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 3 {
		t.Fatalf("got %d projects, want 3", len(projects))
	}
	if projects[0].Name != "third" || projects[2].Name != "first" {
		t.Errorf("order = %q, %q, %q, want newest first",
			projects[0].Name, projects[1].Name, projects[2].Name)
	}
}

func TestMemoryStoreLayouts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p := testProject("with layouts")
	if err := s.SaveProject(ctx, p); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		l := &Layout{
			ProjectID: p.ID,
			Result:    plan.Result{TotalModules: 1264, Rows: 16},
		}
		if err := s.SaveLayout(ctx, l); err != nil {
			t.Fatal(err)
		}
		if l.ID == "" {
			t.Fatal("SaveLayout should assign an ID")
		}
		time.Sleep(time.Millisecond)
	}

	layouts, err := s.LayoutsForProject(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(layouts) != 2 {
		t.Fatalf("got %d layouts, want 2", len(layouts))
	}
	if layouts[0].CreatedAt.Before(layouts[1].CreatedAt) {
		t.Error("layouts should list newest first")
	}

	got, err := s.Layout(ctx, layouts[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Result.TotalModules != 1264 {
		t.Errorf("TotalModules = %d, want 1264", got.Result.TotalModules)
	}

	if _, err := s.Layout(ctx, "nope"); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("missing layout should fail with LAYOUT_NOT_FOUND, got %v", err)
	}
}

func TestMemoryStoreCascadeDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p := testProject("doomed")
	if err := s.SaveProject(ctx, p); err != nil {
		t.Fatal(err)
	}
	l := &Layout{ProjectID: p.ID}
	if err := s.SaveLayout(ctx, l); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteProject(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Layout(ctx, l.ID); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("cascade delete should remove layouts, got %v", err)
	}

	if err := s.DeleteProject(ctx, "missing"); !errors.Is(err, errors.ErrCodeProjectNotFound) {
		t.Errorf("deleting a missing project should fail with PROJECT_NOT_FOUND, got %v", err)
	}
}
