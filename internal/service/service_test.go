package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agency-admin-api/internal/config"
	"github.com/agency-admin-api/internal/mocks"
	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/repository"
	"github.com/agency-admin-api/internal/service"
	"github.com/agency-admin-api/internal/storage"
	"github.com/agency-admin-api/internal/validation"
	"github.com/rs/zerolog"
)

func newTestServices() (*mocks.MockBackend, *repository.Repositories, *service.Services) {
	backend := mocks.NewMockBackend(nil)
	repos := repository.NewRepositories(backend, nil)
	cfg := &config.Config{Import: config.ImportConfig{MaxUploadSize: 10 * 1024 * 1024}}
	return backend, repos, service.NewServices(repos, cfg, zerolog.Nop())
}

func TestContentService_CreateValidates(t *testing.T) {
	backend, _, svc := newTestServices()
	ctx := context.Background()

	_, err := svc.Projects.Create(ctx, &models.Project{Title: "No client", Category: "SaaS", Status: models.ProjectStatusCompleted})
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected validation errors, got %v", err)
	}
	if backend.Calls("insert") != 0 {
		t.Error("Expected no store call for invalid record")
	}

	created, err := svc.Projects.Create(ctx, &models.Project{Title: "E-commerce Redesign", Client: "Style Co", Category: "Web App", Status: models.ProjectStatusInProgress})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected id to be assigned")
	}
}

func TestContentService_UpdateValidatesMergedRecord(t *testing.T) {
	_, _, svc := newTestServices()
	ctx := context.Background()

	created, _ := svc.Blogs.Create(ctx, &models.Blog{Title: "Draft post", Author: "Admin", Status: models.BlogStatusDraft})

	// Publishing without content is rejected
	_, err := svc.Blogs.Update(ctx, created.ID, repository.Patch{"status": "Published"})
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected validation errors, got %v", err)
	}

	updated, err := svc.Blogs.Update(ctx, created.ID, repository.Patch{"status": "Published", "content": "# Hello"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != models.BlogStatusPublished || updated.Content != "# Hello" || updated.Title != "Draft post" {
		t.Errorf("Unexpected merged record %+v", updated)
	}
}

func TestContentService_UpdateWrongTypeIsValidationError(t *testing.T) {
	_, _, svc := newTestServices()
	ctx := context.Background()
	created, _ := svc.Team.Create(ctx, &models.TeamMember{Name: "Ada", Role: "CTO"})

	_, err := svc.Team.Update(ctx, created.ID, repository.Patch{"name": 42})
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected validation error for wrong type, got %v", err)
	}
}

func TestContentService_UpdateMissing(t *testing.T) {
	_, _, svc := newTestServices()
	_, err := svc.Jobs.Update(context.Background(), "missing", repository.Patch{"status": "Closed"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestContentService_Replace(t *testing.T) {
	_, _, svc := newTestServices()
	ctx := context.Background()
	created, _ := svc.Jobs.Create(ctx, &models.Job{Role: "Designer", Location: "Remote", Type: models.JobTypeRemote, Status: models.JobStatusOpen, Department: "Design"})

	replaced, err := svc.Jobs.Replace(ctx, created.ID, &models.Job{Role: "Lead Designer", Location: "Berlin", Type: models.JobTypeFullTime, Status: models.JobStatusClosed})
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if replaced.Role != "Lead Designer" || replaced.Department != "" {
		t.Errorf("Expected every editable field replaced, got %+v", replaced)
	}
	if replaced.ID != created.ID {
		t.Error("Expected id preserved")
	}
}

func TestContentService_ReplaceClearsSocialLinks(t *testing.T) {
	_, _, svc := newTestServices()
	ctx := context.Background()
	created, _ := svc.Team.Create(ctx, &models.TeamMember{Name: "Ada", Role: "CTO", SocialLinks: &models.SocialLinks{GitHub: "https://github.com/a"}})

	replaced, err := svc.Team.Replace(ctx, created.ID, &models.TeamMember{Name: "Ada", Role: "CTO"})
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if replaced.SocialLinks != nil {
		t.Errorf("Expected social links cleared, got %+v", replaced.SocialLinks)
	}
}

func TestContentService_UpdateDropsUnknownFields(t *testing.T) {
	backend, _, svc := newTestServices()
	ctx := context.Background()
	created, _ := svc.Team.Create(ctx, &models.TeamMember{Name: "Ada", Role: "CTO"})

	updated, err := svc.Team.Update(ctx, created.ID, repository.Patch{"junk": map[string]any{"x": 1}, "bio": "Founder"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Bio != "Founder" {
		t.Errorf("Expected bio to be updated, got %q", updated.Bio)
	}

	docs, err := backend.List(ctx, models.CollectionTeam)
	if err != nil || len(docs) != 1 {
		t.Fatalf("List failed: %d %v", len(docs), err)
	}
	if _, ok := docs[0]["junk"]; ok {
		t.Errorf("Expected unknown field not to be stored, got %v", docs[0])
	}
}

func TestStats(t *testing.T) {
	_, _, svc := newTestServices()
	ctx := context.Background()

	svc.Projects.Create(ctx, &models.Project{Title: "A", Client: "B", Category: "SaaS", Status: models.ProjectStatusCompleted})
	svc.Jobs.Create(ctx, &models.Job{Role: "Dev", Location: "Remote", Type: models.JobTypeRemote, Status: models.JobStatusOpen})
	svc.Jobs.Create(ctx, &models.Job{Role: "Ops", Location: "Remote", Type: models.JobTypeContract, Status: models.JobStatusClosed})
	svc.Team.Create(ctx, &models.TeamMember{Name: "Ada", Role: "CTO"})

	stats, err := svc.Stats.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	want := service.Stats{TotalProjects: 1, TotalBlogs: 0, OpenJobs: 1, TeamMembers: 1, Services: 0}
	if *stats != want {
		t.Errorf("Expected %+v, got %+v", want, *stats)
	}
}

func TestStats_ListFailure(t *testing.T) {
	backend, _, svc := newTestServices()
	backend.ListError = errors.New("offline")

	stats, err := svc.Stats.Stats(context.Background())
	if !storage.IsKind(err, storage.KindList) {
		t.Errorf("Expected list error, got %v", err)
	}
	if stats == nil || stats.TotalProjects != 0 {
		t.Errorf("Expected zeroed stats, got %+v", stats)
	}
}

func TestExport_Formats(t *testing.T) {
	_, _, svc := newTestServices()
	ctx := context.Background()
	svc.Team.Create(ctx, &models.TeamMember{Name: "Ada", Role: "CTO", SocialLinks: &models.SocialLinks{GitHub: "https://github.com/ada"}})
	svc.Team.Create(ctx, &models.TeamMember{Name: "Ben", Role: "Designer"})

	t.Run("ndjson", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := svc.Export.Stream(ctx, &buf, "team", service.FormatNDJSON)
		if err != nil || n != 2 {
			t.Fatalf("Stream failed: %d %v", n, err)
		}
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("Expected 2 lines, got %d", len(lines))
		}
		var first models.TeamMember
		if err := json.Unmarshal([]byte(lines[0]), &first); err != nil || first.Name != "Ben" {
			t.Errorf("Expected newest first, got %+v (%v)", first, err)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if _, err := svc.Export.Stream(ctx, &buf, "team", service.FormatJSON); err != nil {
			t.Fatalf("Stream failed: %v", err)
		}
		var members []models.TeamMember
		if err := json.Unmarshal(buf.Bytes(), &members); err != nil || len(members) != 2 {
			t.Errorf("Expected JSON array of 2, got %q (%v)", buf.String(), err)
		}
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		if _, err := svc.Export.Stream(ctx, &buf, "team", service.FormatCSV); err != nil {
			t.Fatalf("Stream failed: %v", err)
		}
		rows, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("Invalid CSV: %v", err)
		}
		if len(rows) != 3 || rows[0][1] != "name" {
			t.Fatalf("Unexpected rows %v", rows)
		}
		if rows[2][1] != "Ada" || rows[2][7] != "https://github.com/ada" {
			t.Errorf("Expected flattened social links, got %v", rows[2])
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := svc.Export.Stream(ctx, &bytes.Buffer{}, "articles", service.FormatJSON); err == nil {
			t.Error("Expected unknown resource error")
		}
		if _, err := svc.Export.Stream(ctx, &bytes.Buffer{}, "team", "xml"); err == nil {
			t.Error("Expected unsupported format error")
		}
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestExport_WriteFailure(t *testing.T) {
	_, _, svc := newTestServices()
	ctx := context.Background()
	svc.Blogs.Create(ctx, &models.Blog{Title: "Long", Author: "Admin", Status: models.BlogStatusPublished, Content: strings.Repeat("x", 8192)})

	for _, format := range []string{service.FormatNDJSON, service.FormatJSON, service.FormatCSV} {
		if _, err := svc.Export.Stream(ctx, failingWriter{}, "blogs", format); err == nil {
			t.Errorf("%s: expected write error", format)
		}
	}
}

func TestExport_GetCount(t *testing.T) {
	_, _, svc := newTestServices()
	ctx := context.Background()
	svc.Team.Create(ctx, &models.TeamMember{Name: "Ada", Role: "CTO"})

	if n, err := svc.Export.GetCount(ctx, "team"); err != nil || n != 1 {
		t.Errorf("Expected 1, got %d %v", n, err)
	}
	if _, err := svc.Export.GetCount(ctx, "users"); err == nil {
		t.Error("Expected error for unknown resource")
	}
}

func TestImport_ReportsLineErrors(t *testing.T) {
	_, repos, svc := newTestServices()
	ctx := context.Background()

	input := strings.Join([]string{
		`{"name":"Web Development","description":"Sites","icon":"Code"}`,
		``,
		`{"name":"","description":"Missing name","icon":"Cloud"}`,
		`{not json`,
		`{"id":"keep-out","name":"SEO","description":"Search","icon":"Search"}`,
	}, "\n")

	result, err := svc.Import.Import(ctx, "services", strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Total != 4 || result.Created != 2 || result.Failed != 2 {
		t.Errorf("Unexpected result %+v", result)
	}
	if len(result.Errors) != 2 || result.Errors[0].Line != 3 || result.Errors[0].Field != "name" || result.Errors[1].Line != 4 {
		t.Errorf("Unexpected errors %+v", result.Errors)
	}

	services := repos.Services.ListAll(ctx).Records
	for _, s := range services {
		if s.ID == "keep-out" {
			t.Error("Expected imported ids to be reassigned")
		}
	}
}

func TestImport_StoreFailureAborts(t *testing.T) {
	backend, _, svc := newTestServices()
	backend.InsertError = errors.New("disk full")

	result, err := svc.Import.Import(context.Background(), "projects", strings.NewReader(`{"title":"A","client":"B","category":"SaaS","status":"Completed"}`))
	if !storage.IsKind(err, storage.KindMutation) {
		t.Fatalf("Expected mutation error, got %v", err)
	}
	if result.Created != 0 || result.Total != 1 {
		t.Errorf("Unexpected result %+v", result)
	}
}

func TestExportImport_KeepsDisplayDate(t *testing.T) {
	ctx := context.Background()

	then := time.Date(2023, 11, 2, 9, 0, 0, 0, time.UTC)
	source := repository.NewRepositories(mocks.NewMockBackend(nil), nil, repository.WithClock(func() time.Time { return then }))
	if _, err := source.Projects.Create(ctx, &models.Project{Title: "Rebrand", Client: "Style Co", Category: "Branding", Status: models.ProjectStatusCompleted}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	cfg := &config.Config{Import: config.ImportConfig{MaxUploadSize: 1024 * 1024}}
	exporter := service.NewServices(source, cfg, zerolog.Nop())

	var buf bytes.Buffer
	if _, err := exporter.Export.Stream(ctx, &buf, "projects", service.FormatNDJSON); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	target := repository.NewRepositories(mocks.NewMockBackend(nil), nil, repository.WithClock(func() time.Time { return now }))
	importer := service.NewServices(target, cfg, zerolog.Nop())

	buf.WriteString(`{"title":"No date","client":"Pulse","category":"SaaS","status":"On Hold"}` + "\n")
	result, err := importer.Import.Import(ctx, "projects", &buf)
	if err != nil || result.Created != 2 {
		t.Fatalf("Import failed: %+v %v", result, err)
	}

	dates := map[string]string{}
	for _, p := range target.Projects.ListAll(ctx).Records {
		dates[p.Title] = p.Date
	}
	if dates["Rebrand"] != "Nov 2, 2023" {
		t.Errorf("Expected exported date to survive, got %q", dates["Rebrand"])
	}
	if dates["No date"] != "Mar 5, 2024" {
		t.Errorf("Expected missing date to be stamped, got %q", dates["No date"])
	}
}

func TestImport_UnknownResource(t *testing.T) {
	_, _, svc := newTestServices()
	if _, err := svc.Import.Import(context.Background(), "users", strings.NewReader("")); err == nil {
		t.Error("Expected unknown resource error")
	}
}
