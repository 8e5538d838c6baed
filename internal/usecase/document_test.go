package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hubfolio/hubfolio/internal/domain"
)

// --- mocks ---

type mockDocRepo struct {
	docs map[string]domain.Document
}

func newMockDocRepo() *mockDocRepo {
	return &mockDocRepo{docs: map[string]domain.Document{}}
}

func docKey(owner, slug string) string { return owner + "#" + slug }

func (m *mockDocRepo) Get(ctx context.Context, ownerKey, slug string) (domain.Document, error) {
	d, ok := m.docs[docKey(ownerKey, slug)]
	if !ok {
		return domain.Document{}, domain.NotFoundError{Resource: "document"}
	}
	return d, nil
}

func (m *mockDocRepo) Upsert(ctx context.Context, doc domain.Document) (domain.UpsertOutcome, error) {
	key := docKey(doc.OwnerKey, doc.Slug)
	_, existed := m.docs[key]
	m.docs[key] = doc
	if existed {
		return domain.UpsertUpdated, nil
	}
	return domain.UpsertCreated, nil
}

func (m *mockDocRepo) ListByPrefix(ctx context.Context, ownerKey, prefix string) ([]domain.Document, error) {
	var out []domain.Document
	for key, d := range m.docs {
		if strings.HasPrefix(key, ownerKey+"#") && (d.Slug == prefix || strings.HasPrefix(d.Slug, prefix+"/")) {
			out = append(out, d)
		}
	}
	return out, nil
}

type mockAppRepo struct {
	apps       map[string]domain.App
	bumped     []string
	deleted    []string
	syncReport domain.SyncReport
	syncCalls  int
}

func newMockAppRepo(apps ...domain.App) *mockAppRepo {
	m := &mockAppRepo{apps: map[string]domain.App{}}
	for _, a := range apps {
		m.apps[a.ID] = a
	}
	return m
}

func (m *mockAppRepo) Get(ctx context.Context, id string) (domain.App, error) {
	a, ok := m.apps[id]
	if !ok {
		return domain.App{}, domain.NotFoundError{Resource: "app"}
	}
	return a, nil
}

func (m *mockAppRepo) Create(ctx context.Context, app domain.App) (domain.App, error) {
	m.apps[app.ID] = app
	return app, nil
}

func (m *mockAppRepo) List(ctx context.Context, ownerKey string) ([]domain.App, error) {
	var out []domain.App
	for _, a := range m.apps {
		if a.OwnerKey == ownerKey {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAppRepo) FindOwning(ctx context.Context, ownerKey, slug string) (domain.App, error) {
	best := domain.App{}
	found := false
	for _, a := range m.apps {
		if a.OwnerKey != ownerKey {
			continue
		}
		if slug == a.Slug || strings.HasPrefix(slug, a.Slug+"/") {
			if !found || len(a.Slug) > len(best.Slug) {
				best = a
				found = true
			}
		}
	}
	if !found {
		return domain.App{}, domain.NotFoundError{Resource: "app"}
	}
	return best, nil
}

func (m *mockAppRepo) BumpTemplateVersion(ctx context.Context, id string, at time.Time) error {
	m.bumped = append(m.bumped, id)
	return nil
}

func (m *mockAppRepo) DeleteCascade(ctx context.Context, app domain.App) error {
	m.deleted = append(m.deleted, app.ID)
	delete(m.apps, app.ID)
	return nil
}

func (m *mockAppRepo) SyncFromTemplate(ctx context.Context, source, dest domain.App, overwrite bool) (domain.SyncReport, error) {
	m.syncCalls++
	return m.syncReport, nil
}

type mockVarRepo struct {
	vars map[string]map[string]string
}

func newMockVarRepo() *mockVarRepo {
	return &mockVarRepo{vars: map[string]map[string]string{}}
}

func (m *mockVarRepo) Upsert(ctx context.Context, v domain.Variable) (domain.UpsertOutcome, error) {
	if m.vars[v.UserKey] == nil {
		m.vars[v.UserKey] = map[string]string{}
	}
	_, existed := m.vars[v.UserKey][v.Key]
	m.vars[v.UserKey][v.Key] = v.Value
	if existed {
		return domain.UpsertUpdated, nil
	}
	return domain.UpsertCreated, nil
}

func (m *mockVarRepo) List(ctx context.Context, userKey string) ([]domain.Variable, error) {
	var out []domain.Variable
	for k, v := range m.vars[userKey] {
		out = append(out, domain.Variable{UserKey: userKey, Key: k, Value: v})
	}
	return out, nil
}

func (m *mockVarRepo) Delete(ctx context.Context, userKey, key string) error {
	delete(m.vars[userKey], key)
	return nil
}

func (m *mockVarRepo) Map(ctx context.Context, userKey string) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range m.vars[userKey] {
		out[k] = v
	}
	return out, nil
}

// --- tests ---

func newDocumentUsecase() (*DocumentUsecase, *mockDocRepo, *mockAppRepo, *mockVarRepo) {
	docs := newMockDocRepo()
	apps := newMockAppRepo()
	vars := newMockVarRepo()
	return NewDocumentUsecase(docs, apps, vars), docs, apps, vars
}

func contentText(tree map[string]any) string {
	content := tree["content"].([]any)
	if len(content) == 0 {
		return ""
	}
	node := content[0].(map[string]any)
	props, _ := node["props"].(map[string]any)
	text, _ := props["text"].(string)
	return text
}

func pageTree(text string) any {
	return []any{map[string]any{"type": "Text", "props": map[string]any{"text": text}}}
}

func TestDocumentPublishVisibilityBoundary(t *testing.T) {
	uc, _, _, _ := newDocumentUsecase()
	ctx := context.Background()

	_, outcome, err := uc.Save(ctx, SaveInput{OwnerKey: "u1", Slug: "hub/home", Tree: pageTree("v1")})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if outcome != domain.UpsertCreated {
		t.Fatalf("expected created, got %s", outcome)
	}

	tree, _, err := uc.GetPublic(ctx, "u1", "hub/home")
	if err != nil {
		t.Fatalf("public read failed: %v", err)
	}
	if len(tree["content"].([]any)) != 0 {
		t.Fatalf("draft must not be publicly visible")
	}

	if _, err := uc.Publish(ctx, "u1", "hub/home"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	tree, digest, err := uc.GetPublic(ctx, "u1", "hub/home")
	if err != nil {
		t.Fatalf("public read failed: %v", err)
	}
	if contentText(tree) != "v1" {
		t.Fatalf("expected published content, got %v", tree)
	}
	if digest == "" {
		t.Fatalf("expected a digest for published content")
	}

	// A draft-only edit after publish must not leak until the next publish.
	if _, _, err := uc.Save(ctx, SaveInput{OwnerKey: "u1", Slug: "hub/home", Tree: pageTree("v2")}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	tree, _, _ = uc.GetPublic(ctx, "u1", "hub/home")
	if contentText(tree) != "v1" {
		t.Fatalf("draft edit leaked into public read: %v", tree)
	}

	if _, err := uc.Publish(ctx, "u1", "hub/home"); err != nil {
		t.Fatalf("republish failed: %v", err)
	}
	tree, _, _ = uc.GetPublic(ctx, "u1", "hub/home")
	if contentText(tree) != "v2" {
		t.Fatalf("republish did not refresh the snapshot: %v", tree)
	}
}

func TestDocumentSaveAsDraftUnpublishes(t *testing.T) {
	uc, _, _, _ := newDocumentUsecase()
	ctx := context.Background()

	published := domain.DocumentStatusPublished
	draft := domain.DocumentStatusDraft

	if _, _, err := uc.Save(ctx, SaveInput{OwnerKey: "u1", Slug: "hub/home", Tree: pageTree("v1"), Status: &published}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	tree, _, _ := uc.GetPublic(ctx, "u1", "hub/home")
	if contentText(tree) != "v1" {
		t.Fatalf("explicit publish-on-save not served: %v", tree)
	}

	if _, _, err := uc.Save(ctx, SaveInput{OwnerKey: "u1", Slug: "hub/home", Tree: pageTree("v2"), Status: &draft}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	tree, _, _ = uc.GetPublic(ctx, "u1", "hub/home")
	if len(tree["content"].([]any)) != 0 {
		t.Fatalf("document reverted to draft must go dark publicly")
	}
}

func TestDocumentGetPublicAbsentSlug(t *testing.T) {
	uc, _, _, _ := newDocumentUsecase()

	tree, digest, err := uc.GetPublic(context.Background(), "u1", "never/built")
	if err != nil {
		t.Fatalf("absent slug must not error: %v", err)
	}
	if len(tree["content"].([]any)) != 0 || digest != "" {
		t.Fatalf("expected the empty root, got %v", tree)
	}
}

func TestDocumentGetPublicSubstitutesVariables(t *testing.T) {
	uc, _, _, vars := newDocumentUsecase()
	ctx := context.Background()

	if _, err := vars.Upsert(ctx, domain.Variable{UserKey: "u1", Key: "name", Value: "Alice"}); err != nil {
		t.Fatalf("variable upsert failed: %v", err)
	}

	published := domain.DocumentStatusPublished
	input := SaveInput{
		OwnerKey: "u1",
		Slug:     "hub/home",
		Tree:     pageTree("Hi {{name}}, contact {{missing}}"),
		Status:   &published,
	}
	if _, _, err := uc.Save(ctx, input); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	tree, _, err := uc.GetPublic(ctx, "u1", "hub/home")
	if err != nil {
		t.Fatalf("public read failed: %v", err)
	}
	if got := contentText(tree); got != "Hi Alice, contact {{missing}}" {
		t.Fatalf("unexpected substitution result: %q", got)
	}
}

func TestDocumentSaveValidation(t *testing.T) {
	uc, _, _, _ := newDocumentUsecase()
	ctx := context.Background()

	if _, _, err := uc.Save(ctx, SaveInput{OwnerKey: "u1", Slug: ""}); err == nil {
		t.Fatalf("expected validation error for empty slug")
	}
	if _, _, err := uc.Save(ctx, SaveInput{OwnerKey: "", Slug: "a"}); err == nil {
		t.Fatalf("expected validation error for empty owner")
	}
	bogus := domain.DocumentStatus("archived")
	if _, _, err := uc.Save(ctx, SaveInput{OwnerKey: "u1", Slug: "a", Status: &bogus}); err == nil {
		t.Fatalf("expected validation error for bogus status")
	}
}

func TestDocumentPublishBumpsOwningTemplate(t *testing.T) {
	docs := newMockDocRepo()
	vars := newMockVarRepo()
	apps := newMockAppRepo(
		domain.App{ID: "a1", OwnerKey: "u1", Slug: "tpl", IsTemplate: true},
		domain.App{ID: "a2", OwnerKey: "u1", Slug: "plain"},
	)
	uc := NewDocumentUsecase(docs, apps, vars)
	ctx := context.Background()

	if _, _, err := uc.Save(ctx, SaveInput{OwnerKey: "u1", Slug: "tpl/home", Tree: pageTree("x")}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := uc.Publish(ctx, "u1", "tpl/home"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(apps.bumped) != 1 || apps.bumped[0] != "a1" {
		t.Fatalf("expected template version bump for a1, got %v", apps.bumped)
	}

	if _, _, err := uc.Save(ctx, SaveInput{OwnerKey: "u1", Slug: "plain/home", Tree: pageTree("x")}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := uc.Publish(ctx, "u1", "plain/home"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(apps.bumped) != 1 {
		t.Fatalf("non-template app must not be bumped: %v", apps.bumped)
	}
}
