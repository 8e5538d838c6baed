package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/hubfolio/hubfolio/internal/domain"
)

func TestVariableUpsertValidatesKey(t *testing.T) {
	uc := NewVariableUsecase(newMockVarRepo())
	ctx := context.Background()

	cases := []domain.Variable{
		{UserKey: "", Key: "name"},
		{UserKey: "u1", Key: ""},
		{UserKey: "u1", Key: "has space"},
		{UserKey: "u1", Key: "brace{"},
	}
	for _, v := range cases {
		if _, err := uc.Upsert(ctx, v); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", v, err)
		}
	}

	if _, err := uc.Upsert(ctx, domain.Variable{UserKey: "u1", Key: "phone.work", Value: "123"}); err != nil {
		t.Fatalf("valid key rejected: %v", err)
	}
}

func TestVariableMapRoundTrip(t *testing.T) {
	repo := newMockVarRepo()
	uc := NewVariableUsecase(repo)
	ctx := context.Background()

	if _, err := uc.Upsert(ctx, domain.Variable{UserKey: "u1", Key: "name", Value: "Alice"}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if _, err := uc.Upsert(ctx, domain.Variable{UserKey: "u1", Key: "city", Value: "Lisbon"}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	m, err := uc.Map(ctx, "u1")
	if err != nil {
		t.Fatalf("map failed: %v", err)
	}
	if m["name"] != "Alice" || m["city"] != "Lisbon" {
		t.Fatalf("unexpected map: %v", m)
	}

	if err := uc.Delete(ctx, "u1", "city"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	m, _ = uc.Map(ctx, "u1")
	if _, ok := m["city"]; ok {
		t.Fatalf("deleted variable still present")
	}
}
