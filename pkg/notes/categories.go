package notes

import (
	"context"

	"github.com/pkg/errors"
)

// categoryService implements the CategoryService interface
type categoryService struct {
	resource
}

// List retrieves all categories
func (s *categoryService) List(ctx context.Context) ([]*Category, error) {
	raw, err := s.list(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get categories")
	}

	p, err := decodePage[*Category](raw)
	if err != nil {
		return nil, err
	}
	return p.Results, nil
}

// Get retrieves a single category
func (s *categoryService) Get(ctx context.Context, categoryID int64) (*Category, error) {
	var category Category
	if err := s.get(ctx, categoryID, &category); err != nil {
		return nil, errors.Wrapf(err, "failed to get category %d", categoryID)
	}
	return &category, nil
}

// subjectService implements the SubjectService interface
type subjectService struct {
	resource
}

// List retrieves all subjects
func (s *subjectService) List(ctx context.Context) ([]*Subject, error) {
	raw, err := s.list(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get subjects")
	}

	p, err := decodePage[*Subject](raw)
	if err != nil {
		return nil, err
	}
	return p.Results, nil
}

// Get retrieves a single subject
func (s *subjectService) Get(ctx context.Context, subjectID int64) (*Subject, error) {
	var subject Subject
	if err := s.get(ctx, subjectID, &subject); err != nil {
		return nil, errors.Wrapf(err, "failed to get subject %d", subjectID)
	}
	return &subject, nil
}
