// Package matching learns which category a user files a statement
// description under and suggests it for later imports.
package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fundsio/funds/internal/transaction"
)

var ErrInvalidInput = errors.New("pattern and category are required")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindMatch returns the category of the longest pattern contained in
	// description, or "" when none matches.
	FindMatch(ctx context.Context, ownerID uuid.UUID, description string) (string, error)
	CreateMapping(ctx context.Context, ownerID uuid.UUID, pattern, category string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns "" if nothing matches.
func (s *Service) Suggest(ctx context.Context, ownerID uuid.UUID, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, ownerID, description)
}

func (s *Service) Learn(ctx context.Context, ownerID uuid.UUID, pattern, category string) error {
	pattern = strings.TrimSpace(pattern)
	category = strings.TrimSpace(category)

	if pattern == "" || category == "" {
		return ErrInvalidInput
	}

	return s.repo.CreateMapping(ctx, ownerID, pattern, category)
}

// Categorize fills the category of rows that have none from learned
// mappings.
func (s *Service) Categorize(ctx context.Context, ownerID uuid.UUID, rows []transaction.CreateParams) error {
	for i := range rows {
		if rows[i].Category != "" {
			continue
		}

		category, err := s.Suggest(ctx, ownerID, rows[i].Description)
		if err != nil {
			return fmt.Errorf("suggesting category for %q: %w", rows[i].Description, err)
		}

		rows[i].Category = category
	}

	return nil
}
