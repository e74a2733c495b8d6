package models

import (
	"errors"
	"time"
)

// Store level errors.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type Category string

const (
	CategoryGeneral  Category = "General"
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryIdeas    Category = "Ideas"
	CategoryToDo     Category = "To-Do"
)

var Categories = []Category{CategoryGeneral, CategoryWork, CategoryPersonal, CategoryIdeas, CategoryToDo}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Note struct {
	ID        string    `json:"id"`
	Owner     string    `json:"user"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n Note) OwnerID() string { return n.Owner }

type Task struct {
	ID          string     `json:"id"`
	Owner       string     `json:"user"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t Task) OwnerID() string { return t.Owner }

// NoteInput is the client-controlled part of a note. It has no owner field:
// ownership always comes from the authenticated identity.
type NoteInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category Category `json:"category,omitempty"`
}

type NotePatch struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Category *Category `json:"category,omitempty"`
}

type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// TaskPatch fields left nil are kept. ClearDueDate removes the due date.
type TaskPatch struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Priority     *Priority  `json:"priority,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ClearDueDate bool       `json:"-"`
	Completed    *bool      `json:"completed,omitempty"`
}

type NoteFilter struct {
	Category Category
	Query    string
}

type TaskStatus string

const (
	StatusAll       TaskStatus = "all"
	StatusCompleted TaskStatus = "completed"
	StatusPending   TaskStatus = "pending"
)

type TaskFilter struct {
	Status   TaskStatus
	Priority Priority
	Query    string
}

type Stats struct {
	TotalNotes     int `json:"totalNotes"`
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	PendingTasks   int `json:"pendingTasks"`
}
