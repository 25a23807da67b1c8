package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agency-admin-api/internal/mocks"
	"github.com/agency-admin-api/internal/models"
	"github.com/agency-admin-api/internal/repository"
	"github.com/agency-admin-api/internal/storage"
)

var fixedNow = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

func newRepos(backend *mocks.MockBackend) *repository.Repositories {
	return repository.NewRepositories(backend, nil, repository.WithClock(func() time.Time { return fixedNow }))
}

func TestCreateProject_AssignsIDAndDate(t *testing.T) {
	backend := mocks.NewMockBackend(nil)
	repos := newRepos(backend)
	ctx := context.Background()

	p := &models.Project{Title: "E-commerce Redesign", Client: "Style Co", Category: "Web App", Status: models.ProjectStatusInProgress}
	created, err := repos.Projects.Create(ctx, p)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == "" {
		t.Error("Expected non-empty id")
	}
	if created.Date != "Mar 5, 2024" {
		t.Errorf("Expected date Mar 5, 2024, got %q", created.Date)
	}
	if created.CreatedAt.IsZero() {
		t.Error("Expected createdAt to be set")
	}

	res := repos.Projects.ListAll(ctx)
	if res.Err != nil {
		t.Fatalf("ListAll failed: %v", res.Err)
	}
	if len(res.Records) != 1 || res.Records[0].Title != "E-commerce Redesign" {
		t.Fatalf("Expected the new project to be listed, got %+v", res.Records)
	}
}

func TestRestore_KeepsValidDate(t *testing.T) {
	repos := newRepos(mocks.NewMockBackend(nil))
	ctx := context.Background()

	tests := []struct {
		date string
		want string
	}{
		{"Nov 2, 2023", "Nov 2, 2023"},
		{"", "Mar 5, 2024"},
		{"yesterday", "Mar 5, 2024"},
	}

	for _, tt := range tests {
		restored, err := repos.Blogs.Restore(ctx, &models.Blog{Title: "Go", Author: "Admin", Status: models.BlogStatusDraft, Date: tt.date})
		if err != nil {
			t.Fatalf("Restore failed: %v", err)
		}
		if restored.Date != tt.want {
			t.Errorf("date %q: got %q, want %q", tt.date, restored.Date, tt.want)
		}
	}

	created, _ := repos.Blogs.Create(ctx, &models.Blog{Title: "Go", Author: "Admin", Status: models.BlogStatusDraft, Date: "Nov 2, 2023"})
	if created.Date != "Mar 5, 2024" {
		t.Errorf("Expected Create to stamp the date, got %q", created.Date)
	}
}

func TestCreate_NewestFirst(t *testing.T) {
	repos := newRepos(mocks.NewMockBackend(nil))
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := repos.Blogs.Create(ctx, &models.Blog{Title: title, Author: "Admin", Status: models.BlogStatusDraft}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	res := repos.Blogs.ListAll(ctx)
	if len(res.Records) != 3 {
		t.Fatalf("Expected 3 blogs, got %d", len(res.Records))
	}
	if res.Records[0].Title != "third" || res.Records[2].Title != "first" {
		t.Errorf("Expected newest first, got %s..%s", res.Records[0].Title, res.Records[2].Title)
	}
}

func TestUpdate_MergesAndProtectsReservedFields(t *testing.T) {
	repos := newRepos(mocks.NewMockBackend(nil))
	ctx := context.Background()

	created, err := repos.Jobs.Create(ctx, &models.Job{Role: "Designer", Location: "Remote", Type: models.JobTypeRemote, Status: models.JobStatusOpen, Department: "Design"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = repos.Jobs.Update(ctx, created.ID, repository.Patch{
		"status":    "Closed",
		"id":        "hijack",
		"createdAt": "1999-01-01T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repos.Jobs.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != models.JobStatusClosed {
		t.Errorf("Expected Closed, got %s", got.Status)
	}
	if got.Department != "Design" {
		t.Errorf("Expected untouched department, got %q", got.Department)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("Expected createdAt preserved, got %v", got.CreatedAt)
	}
	if got.UpdatedAt == nil {
		t.Error("Expected updatedAt to be set")
	}
}

func TestPatchFrom_DropsReservedFields(t *testing.T) {
	p := &models.Project{ID: "p1", Title: "T", Client: "C", Category: "SaaS", Status: models.ProjectStatusCompleted, Date: "Jan 1, 2024", CreatedAt: fixedNow}

	patch, err := repository.PatchFrom(p)
	if err != nil {
		t.Fatalf("PatchFrom failed: %v", err)
	}
	for _, f := range []string{"id", "date", "createdAt"} {
		if _, ok := patch[f]; ok {
			t.Errorf("Expected %s to be dropped", f)
		}
	}
	if patch["title"] != "T" || patch["imageUrl"] != "" {
		t.Errorf("Expected editable fields in patch, got %v", patch)
	}
}

func TestDelete_RemovesOnlyTarget(t *testing.T) {
	repos := newRepos(mocks.NewMockBackend(nil))
	ctx := context.Background()

	a, _ := repos.Team.Create(ctx, &models.TeamMember{Name: "Ada", Role: "CTO"})
	b, _ := repos.Team.Create(ctx, &models.TeamMember{Name: "Ben", Role: "Designer"})

	if err := repos.Team.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repos.Team.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Second delete should be a no-op, got %v", err)
	}

	res := repos.Team.ListAll(ctx)
	if len(res.Records) != 1 || res.Records[0].ID != b.ID {
		t.Errorf("Expected only %s to remain, got %+v", b.ID, res.Records)
	}
}

func TestListAll_FailureYieldsEmptyListAndListError(t *testing.T) {
	backend := mocks.NewMockBackend(nil)
	backend.ListError = errors.New("connection refused")
	repos := newRepos(backend)

	res := repos.Projects.ListAll(context.Background())
	if res.Records == nil || len(res.Records) != 0 {
		t.Errorf("Expected empty non-nil records, got %v", res.Records)
	}
	if !storage.IsKind(res.Err, storage.KindList) {
		t.Errorf("Expected list error, got %v", res.Err)
	}
}

func TestMutationFailuresAreClassified(t *testing.T) {
	backend := mocks.NewMockBackend(nil)
	repos := newRepos(backend)
	ctx := context.Background()

	created, _ := repos.Projects.Create(ctx, &models.Project{Title: "A", Client: "B", Category: "SaaS", Status: models.ProjectStatusOnHold})

	boom := errors.New("permission denied")
	backend.InsertError = boom
	backend.PatchError = boom
	backend.RemoveError = boom

	_, err := repos.Projects.Create(ctx, models.NewProject())
	if !storage.IsKind(err, storage.KindMutation) || !errors.Is(err, boom) {
		t.Errorf("Expected mutation error wrapping cause, got %v", err)
	}
	if err := repos.Projects.Update(ctx, created.ID, repository.Patch{"title": "x"}); !storage.IsKind(err, storage.KindMutation) {
		t.Errorf("Expected mutation error on update, got %v", err)
	}
	if err := repos.Projects.Delete(ctx, created.ID); !storage.IsKind(err, storage.KindMutation) {
		t.Errorf("Expected mutation error on delete, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repos := newRepos(mocks.NewMockBackend(nil))
	_, err := repos.Services.Get(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestByResource(t *testing.T) {
	repos := newRepos(mocks.NewMockBackend(nil))
	ctx := context.Background()

	store, ok := repos.ByResource("team")
	if !ok {
		t.Fatal("Expected team resource")
	}
	if store.Collection() != models.CollectionTeam {
		t.Errorf("Expected collection %s, got %s", models.CollectionTeam, store.Collection())
	}

	rec := store.NewRecord()
	member, ok := rec.(*models.TeamMember)
	if !ok {
		t.Fatalf("Expected *TeamMember, got %T", rec)
	}
	member.Name, member.Role = "Cleo", "PM"
	if _, err := store.CreateRecord(ctx, member); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}
	if _, err := store.CreateRecord(ctx, models.NewProject()); err == nil {
		t.Error("Expected error for record of another collection")
	}

	n, err := store.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Expected count 1, got %d (%v)", n, err)
	}

	if _, ok := repos.ByResource("articles"); ok {
		t.Error("Expected unknown resource to be rejected")
	}
}

func TestSeparateServicesBackend(t *testing.T) {
	static := storage.NewStatic(map[string][]storage.Document{
		models.CollectionServices: {{"id": "s1", "name": "Web Development", "description": "Sites", "icon": "Code"}},
	})
	repos := repository.NewRepositories(mocks.NewMockBackend(nil), static)

	res := repos.Services.ListAll(context.Background())
	if res.Err != nil || len(res.Records) != 1 || res.Records[0].Icon != "Code" {
		t.Fatalf("Expected static service, got %+v (%v)", res.Records, res.Err)
	}

	_, err := repos.Services.Create(context.Background(), models.NewServiceItem())
	if !errors.Is(err, storage.ErrReadOnly) {
		t.Errorf("Expected ErrReadOnly, got %v", err)
	}
}
