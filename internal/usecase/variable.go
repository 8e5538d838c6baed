package usecase

import (
	"context"
	"regexp"

	"github.com/hubfolio/hubfolio/internal/domain"
)

// Variable keys share the placeholder token charset, so every saved key is
// addressable from page content.
var variableKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type VariableUsecase struct {
	vars VariableRepository
}

func NewVariableUsecase(vars VariableRepository) *VariableUsecase {
	return &VariableUsecase{vars: vars}
}

func (uc *VariableUsecase) Upsert(ctx context.Context, v domain.Variable) (domain.UpsertOutcome, error) {
	if v.UserKey == "" {
		return "", domain.ValidationError{Message: "user key is empty"}
	}
	if !variableKeyPattern.MatchString(v.Key) {
		return "", domain.ValidationError{Message: "invalid variable key"}
	}
	return uc.vars.Upsert(ctx, v)
}

func (uc *VariableUsecase) List(ctx context.Context, userKey string) ([]domain.Variable, error) {
	return uc.vars.List(ctx, userKey)
}

func (uc *VariableUsecase) Delete(ctx context.Context, userKey, key string) error {
	return uc.vars.Delete(ctx, userKey, key)
}

// Map returns the key to value mapping fed into substitution.
func (uc *VariableUsecase) Map(ctx context.Context, userKey string) (map[string]string, error) {
	return uc.vars.Map(ctx, userKey)
}
