package notes

import (
	"net/url"
	"strconv"
	"time"

	internalTypes "github.com/eshaffer321/notes-go/internal/types"
)

// TokenPair is the access/refresh token pair issued at login
type TokenPair = internalTypes.TokenPair

// Credentials are the login credentials
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterParams contains parameters for creating an account
type RegisterParams struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DateOfBirth *Date  `json:"date_of_birth,omitempty"`
}

// Profile represents the logged-in user
type Profile struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DateOfBirth *Date     `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	IsActive    bool      `json:"is_active"`
}

// SessionStatus describes the stored credentials
type SessionStatus struct {
	Authenticated   bool      `json:"authenticated"`
	HasRefreshToken bool      `json:"hasRefreshToken"`
	UserID          string    `json:"userId,omitempty"`
	ExpiresAt       time.Time `json:"expiresAt,omitempty"`
	Expired         bool      `json:"expired"`
}

// Category represents a note category
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Subject represents a note subject
type Subject struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// File represents an attachment on a note
type File struct {
	ID         int64     `json:"id"`
	Note       int64     `json:"note"`
	File       string    `json:"file"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Note represents a note
type Note struct {
	ID         int64       `json:"id"`
	User       int64       `json:"user"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Completed  bool        `json:"completed"`
	Categories []*Category `json:"categories"`
	Subjects   []*Subject  `json:"subjects"`
	Files      []*File     `json:"files"`
}

// CreateNoteParams contains parameters for creating a note
type CreateNoteParams struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Completed   bool    `json:"completed,omitempty"`
	CategoryIDs []int64 `json:"category_ids"`
	SubjectIDs  []int64 `json:"subject_ids"`
}

// UpdateNoteParams contains parameters for a partial note update.
// Nil fields are left unchanged.
type UpdateNoteParams struct {
	Title       *string  `json:"title,omitempty"`
	Content     *string  `json:"content,omitempty"`
	Completed   *bool    `json:"completed,omitempty"`
	CategoryIDs *[]int64 `json:"category_ids,omitempty"`
	SubjectIDs  *[]int64 `json:"subject_ids,omitempty"`
}

// NoteList is one page of notes
type NoteList struct {
	Count    int     `json:"count"`
	Next     string  `json:"next,omitempty"`
	Previous string  `json:"previous,omitempty"`
	Notes    []*Note `json:"results"`
}

// Task represents a task
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	DueDate     *Date     `json:"due_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTaskParams contains parameters for creating a task
type CreateTaskParams struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed,omitempty"`
	DueDate     *Date  `json:"due_date,omitempty"`
}

// UpdateTaskParams contains parameters for a partial task update
type UpdateTaskParams struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
	DueDate     *Date   `json:"due_date,omitempty"`
}

// TaskList is one page of tasks
type TaskList struct {
	Count    int     `json:"count"`
	Next     string  `json:"next,omitempty"`
	Previous string  `json:"previous,omitempty"`
	Tasks    []*Task `json:"results"`
}

// Analysis is the server-side analysis of a note or task
type Analysis struct {
	ID        int64     `json:"id"`
	Note      int64     `json:"note,omitempty"`
	Summary   string    `json:"summary"`
	Sentiment string    `json:"sentiment"`
	Keywords  []string  `json:"keywords"`
	CreatedAt time.Time `json:"created_at"`
}

// Sentiment values reported by Analyze
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// ListParams filters and paginates list calls
type ListParams struct {
	Page      int
	PageSize  int
	Ordering  string
	Completed *bool

	// Extra carries any additional query parameters verbatim
	Extra map[string]string
}

// Values encodes the parameters as a query string
func (p *ListParams) Values() url.Values {
	values := url.Values{}
	if p == nil {
		return values
	}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Ordering != "" {
		values.Set("ordering", p.Ordering)
	}
	if p.Completed != nil {
		values.Set("completed", strconv.FormatBool(*p.Completed))
	}
	for k, v := range p.Extra {
		values.Set(k, v)
	}
	return values
}

// String returns a pointer to s, for update params
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b, for update params
func Bool(b bool) *bool {
	return &b
}
