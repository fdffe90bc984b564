package notes

import (
	"context"

	"github.com/pkg/errors"
)

// noteService implements the NoteService interface
type noteService struct {
	resource
}

// List retrieves notes
func (s *noteService) List(ctx context.Context, params *ListParams) (*NoteList, error) {
	raw, err := s.list(ctx, params.Values())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get notes")
	}
	return decodeNoteList(raw)
}

// Get retrieves a single note by ID
func (s *noteService) Get(ctx context.Context, noteID int64) (*Note, error) {
	var note Note
	if err := s.get(ctx, noteID, &note); err != nil {
		return nil, errors.Wrapf(err, "failed to get note %d", noteID)
	}
	return &note, nil
}

// Create creates a new note
func (s *noteService) Create(ctx context.Context, params *CreateNoteParams) (*Note, error) {
	if params == nil {
		return nil, errors.New("note params are required")
	}

	body := *params
	// category_ids and subject_ids are required lists, never null
	if body.CategoryIDs == nil {
		body.CategoryIDs = []int64{}
	}
	if body.SubjectIDs == nil {
		body.SubjectIDs = []int64{}
	}

	var note Note
	if err := s.create(ctx, &body, &note); err != nil {
		return nil, errors.Wrap(err, "failed to create note")
	}
	return &note, nil
}

// Update partially updates a note
func (s *noteService) Update(ctx context.Context, noteID int64, params *UpdateNoteParams) (*Note, error) {
	if params == nil {
		params = &UpdateNoteParams{}
	}

	var note Note
	if err := s.update(ctx, noteID, params, &note); err != nil {
		return nil, errors.Wrapf(err, "failed to update note %d", noteID)
	}
	return &note, nil
}

// Delete deletes a note
func (s *noteService) Delete(ctx context.Context, noteID int64) error {
	if err := s.delete(ctx, noteID); err != nil {
		return errors.Wrapf(err, "failed to delete note %d", noteID)
	}
	return nil
}

// Search retrieves notes matching query
func (s *noteService) Search(ctx context.Context, query string) (*NoteList, error) {
	raw, err := s.search(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search notes")
	}
	return decodeNoteList(raw)
}

// Analyze requests a summary, sentiment and keywords for a note
func (s *noteService) Analyze(ctx context.Context, noteID int64) (*Analysis, error) {
	var analysis Analysis
	if err := s.analyze(ctx, noteID, &analysis); err != nil {
		return nil, errors.Wrapf(err, "failed to analyze note %d", noteID)
	}
	return &analysis, nil
}

func decodeNoteList(raw []byte) (*NoteList, error) {
	p, err := decodePage[*Note](raw)
	if err != nil {
		return nil, err
	}
	return &NoteList{
		Count:    p.Count,
		Next:     p.Next,
		Previous: p.Previous,
		Notes:    p.Results,
	}, nil
}
