package notes

import (
	"context"
)

// AuthService handles authentication
type AuthService interface {
	// Login exchanges credentials for a token pair and stores it
	Login(ctx context.Context, credentials Credentials) (*TokenPair, error)

	// Logout forgets the stored credentials. It never calls the API.
	Logout(ctx context.Context)

	// RefreshToken exchanges the stored refresh token for a new access token
	RefreshToken(ctx context.Context) (string, error)

	// Register creates a new account
	Register(ctx context.Context, params *RegisterParams) (*Profile, error)

	// GetProfile retrieves the logged-in user's profile
	GetProfile(ctx context.Context) (*Profile, error)

	// IsAuthenticated reports whether an access token is stored
	IsAuthenticated(ctx context.Context) bool

	// Status describes the stored credentials
	Status(ctx context.Context) (*SessionStatus, error)
}

// NoteService handles all note-related operations
type NoteService interface {
	// List retrieves notes
	List(ctx context.Context, params *ListParams) (*NoteList, error)

	// Get retrieves a single note by ID
	Get(ctx context.Context, noteID int64) (*Note, error)

	// Create creates a new note
	Create(ctx context.Context, params *CreateNoteParams) (*Note, error)

	// Update partially updates a note
	Update(ctx context.Context, noteID int64, params *UpdateNoteParams) (*Note, error)

	// Delete deletes a note
	Delete(ctx context.Context, noteID int64) error

	// Search retrieves notes matching query
	Search(ctx context.Context, query string) (*NoteList, error)

	// Analyze requests a summary, sentiment and keywords for a note
	Analyze(ctx context.Context, noteID int64) (*Analysis, error)
}

// TaskService handles all task-related operations
type TaskService interface {
	// List retrieves tasks
	List(ctx context.Context, params *ListParams) (*TaskList, error)

	// Get retrieves a single task by ID
	Get(ctx context.Context, taskID int64) (*Task, error)

	// Create creates a new task
	Create(ctx context.Context, params *CreateTaskParams) (*Task, error)

	// Update partially updates a task
	Update(ctx context.Context, taskID int64, params *UpdateTaskParams) (*Task, error)

	// Delete deletes a task
	Delete(ctx context.Context, taskID int64) error

	// Search retrieves tasks matching query
	Search(ctx context.Context, query string) (*TaskList, error)

	// Analyze requests an analysis of a task
	Analyze(ctx context.Context, taskID int64) (*Analysis, error)
}

// CategoryService handles note categories
type CategoryService interface {
	// List retrieves all categories
	List(ctx context.Context) ([]*Category, error)

	// Get retrieves a single category
	Get(ctx context.Context, categoryID int64) (*Category, error)
}

// SubjectService handles note subjects
type SubjectService interface {
	// List retrieves all subjects
	List(ctx context.Context) ([]*Subject, error)

	// Get retrieves a single subject
	Get(ctx context.Context, subjectID int64) (*Subject, error)
}
