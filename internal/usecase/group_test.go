package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hubfolio/hubfolio/internal/domain"
)

type mockGroupRepo struct {
	groups      map[string]domain.Group
	subs        map[string]domain.GroupSubscription
	cloneCalls  int
	upsertCalls int
}

func newMockGroupRepo(groups ...domain.Group) *mockGroupRepo {
	m := &mockGroupRepo{
		groups: map[string]domain.Group{},
		subs:   map[string]domain.GroupSubscription{},
	}
	for _, g := range groups {
		m.groups[g.ID] = g
	}
	return m
}

func subKey(userKey, groupID string) string { return userKey + "#" + groupID }

func (m *mockGroupRepo) Get(ctx context.Context, id string) (domain.Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return domain.Group{}, domain.NotFoundError{Resource: "group"}
	}
	return g, nil
}

func (m *mockGroupRepo) Upsert(ctx context.Context, group domain.Group) (domain.Group, domain.UpsertOutcome, error) {
	m.upsertCalls++
	for _, g := range m.groups {
		sameOwner := (g.OwnerKey == nil && group.OwnerKey == nil) ||
			(g.OwnerKey != nil && group.OwnerKey != nil && *g.OwnerKey == *group.OwnerKey)
		if sameOwner && g.Name == group.Name {
			group.ID = g.ID
			group.Version = g.Version + 1
			m.groups[g.ID] = group
			return group, domain.UpsertUpdated, nil
		}
	}
	group.ID = fmt.Sprintf("g%d", len(m.groups)+1)
	group.Version = 1
	m.groups[group.ID] = group
	return group, domain.UpsertCreated, nil
}

func (m *mockGroupRepo) Delete(ctx context.Context, ownerKey, id string) error {
	delete(m.groups, id)
	return nil
}

func (m *mockGroupRepo) ListOwned(ctx context.Context, ownerKey string) ([]domain.Group, error) {
	var out []domain.Group
	for _, g := range m.groups {
		if g.OwnerKey != nil && *g.OwnerKey == ownerKey {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockGroupRepo) ListPublic(ctx context.Context) ([]domain.Group, error) {
	var out []domain.Group
	for _, g := range m.groups {
		if g.Public {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *mockGroupRepo) GetSubscription(ctx context.Context, userKey, groupID string) (domain.GroupSubscription, error) {
	s, ok := m.subs[subKey(userKey, groupID)]
	if !ok {
		return domain.GroupSubscription{}, domain.NotFoundError{Resource: "subscription"}
	}
	return s, nil
}

func (m *mockGroupRepo) AcceptClone(ctx context.Context, source domain.Group, userKey string) (domain.Group, error) {
	m.cloneCalls++
	clone := domain.CloneGroup(source, userKey, source.Name)
	clone.ID = fmt.Sprintf("clone-%d", m.cloneCalls)
	m.groups[clone.ID] = clone
	m.subs[subKey(userKey, source.ID)] = domain.GroupSubscription{
		UserKey:       userKey,
		GroupID:       source.ID,
		Status:        domain.SubscriptionAccepted,
		ClonedGroupID: &clone.ID,
		UpdatedAt:     time.Now(),
	}
	return clone, nil
}

func publicGroup(id, owner string) domain.Group {
	return domain.Group{ID: id, OwnerKey: &owner, Name: "Links", Public: true, Version: 3}
}

func TestGroupAcceptRejectsPrivateAndOwned(t *testing.T) {
	owner := "owner"
	private := domain.Group{ID: "g1", OwnerKey: &owner, Name: "Secret"}
	repo := newMockGroupRepo(private, publicGroup("g2", owner))
	uc := NewGroupUsecase(repo)
	ctx := context.Background()

	if _, err := uc.Accept(ctx, "visitor", "g1"); err == nil {
		t.Fatalf("accepting a private group must fail")
	}
	if _, err := uc.Accept(ctx, owner, "g2"); err == nil {
		t.Fatalf("accepting an owned group must fail")
	}
	if _, err := uc.Accept(ctx, "visitor", "nope"); err == nil {
		t.Fatalf("accepting a missing group must fail")
	}
	if repo.cloneCalls != 0 {
		t.Fatalf("no clone may be produced on rejection")
	}
}

func TestGroupAcceptIdempotent(t *testing.T) {
	repo := newMockGroupRepo(publicGroup("g1", "owner"))
	uc := NewGroupUsecase(repo)
	ctx := context.Background()

	first, err := uc.Accept(ctx, "visitor", "g1")
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	second, err := uc.Accept(ctx, "visitor", "g1")
	if err != nil {
		t.Fatalf("re-accept failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("re-accept returned a different clone: %s vs %s", first.ID, second.ID)
	}
	if repo.cloneCalls != 1 {
		t.Fatalf("expected exactly one clone, got %d", repo.cloneCalls)
	}
}

func TestGroupAcceptReclonesAfterCloneDeletion(t *testing.T) {
	repo := newMockGroupRepo(publicGroup("g1", "owner"))
	uc := NewGroupUsecase(repo)
	ctx := context.Background()

	first, err := uc.Accept(ctx, "visitor", "g1")
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if err := uc.Delete(ctx, "visitor", first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	second, err := uc.Accept(ctx, "visitor", "g1")
	if err != nil {
		t.Fatalf("accept after deletion failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("expected a fresh clone after the recorded one was deleted")
	}
	if repo.cloneCalls != 2 {
		t.Fatalf("expected two clones, got %d", repo.cloneCalls)
	}
}

func TestGroupSubtreeSanitizesAndGates(t *testing.T) {
	owner := "owner"
	shared := domain.Group{
		ID:       "g1",
		OwnerKey: &owner,
		Name:     "Links",
		Public:   true,
		Tree: map[string]any{
			"type":  "Section",
			"id":    "editor-internal",
			"props": map[string]any{"title": "hi"},
		},
	}
	private := domain.Group{ID: "g2", OwnerKey: &owner, Name: "Secret", Tree: map[string]any{"type": "Text"}}
	repo := newMockGroupRepo(shared, private)
	uc := NewGroupUsecase(repo)
	ctx := context.Background()

	subtree, err := uc.Subtree(ctx, "visitor", "g1")
	if err != nil {
		t.Fatalf("subtree failed: %v", err)
	}
	node, ok := subtree.(map[string]any)
	if !ok {
		t.Fatalf("expected an object, got %T", subtree)
	}
	if _, present := node["id"]; present {
		t.Fatalf("ephemeral id must be stripped from the pasted copy")
	}
	if node["type"] != "Section" {
		t.Fatalf("non-ephemeral keys must survive, got %+v", node)
	}

	if _, err := uc.Subtree(ctx, "visitor", "g2"); err == nil {
		t.Fatalf("private group subtree must be hidden from non-owners")
	}
	if _, err := uc.Subtree(ctx, owner, "g2"); err != nil {
		t.Fatalf("owner must read own private group subtree: %v", err)
	}
}

func TestGroupUpsertValidation(t *testing.T) {
	repo := newMockGroupRepo()
	uc := NewGroupUsecase(repo)

	if _, _, err := uc.Upsert(context.Background(), GroupUpsertInput{Name: "  "}); err == nil {
		t.Fatalf("expected validation error for blank name")
	}
	if repo.upsertCalls != 0 {
		t.Fatalf("validation failures must not reach the repository")
	}
}

func TestGroupUpsertVersionSemantics(t *testing.T) {
	repo := newMockGroupRepo()
	uc := NewGroupUsecase(repo)
	ctx := context.Background()
	owner := "u1"

	g1, outcome, err := uc.Upsert(ctx, GroupUpsertInput{OwnerKey: &owner, Name: "Footer"})
	if err != nil || outcome != domain.UpsertCreated || g1.Version != 1 {
		t.Fatalf("expected fresh group at version 1, got %+v (%s, %v)", g1, outcome, err)
	}

	g2, outcome, err := uc.Upsert(ctx, GroupUpsertInput{OwnerKey: &owner, Name: "Footer"})
	if err != nil || outcome != domain.UpsertUpdated || g2.Version != 2 || g2.ID != g1.ID {
		t.Fatalf("expected same group at version 2, got %+v (%s, %v)", g2, outcome, err)
	}
}
