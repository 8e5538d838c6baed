package service

import (
	"context"
	"strings"

	"github.com/hubfolio/hubfolio/internal/domain"
)

type VariableStore interface {
	List(ctx context.Context, userKey string) ([]domain.Variable, error)
}

// VCardService renders a user's profile variables as a vCard 3.0 so a page
// can offer a save-contact link.
type VCardService struct {
	vars VariableStore
}

func NewVCardService(vars VariableStore) *VCardService {
	return &VCardService{vars: vars}
}

// vCard property per well-known variable key. Unknown keys are skipped.
var vcardFields = map[string]string{
	"name":    "FN",
	"org":     "ORG",
	"title":   "TITLE",
	"email":   "EMAIL",
	"phone":   "TEL",
	"website": "URL",
	"bio":     "NOTE",
}

func escapeVCard(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
		"\r", "",
	)
	return r.Replace(s)
}

func (s *VCardService) Render(ctx context.Context, ownerKey string) (string, error) {
	vars, err := s.vars.List(ctx, ownerKey)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\n")
	b.WriteString("VERSION:3.0\r\n")

	hasName := false
	for _, v := range vars {
		prop, ok := vcardFields[v.Key]
		if !ok || v.Value == "" {
			continue
		}
		if prop == "FN" {
			hasName = true
		}
		b.WriteString(prop)
		b.WriteString(":")
		b.WriteString(escapeVCard(v.Value))
		b.WriteString("\r\n")
	}
	if !hasName {
		b.WriteString("FN:")
		b.WriteString(escapeVCard(ownerKey))
		b.WriteString("\r\n")
	}

	b.WriteString("END:VCARD\r\n")
	return b.String(), nil
}
