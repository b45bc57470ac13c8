package model

import "time"

// Profile is the signed-in user's identity as returned by the auth service.
type Profile struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

type Task struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// DueDate is YYYY-MM-DD; empty means no due date.
	DueDate string `json:"dueDate,omitempty"`
	// CategoryID may reference a deleted category. Dangling references are
	// tolerated and render as uncategorized.
	CategoryID string `json:"category,omitempty"`

	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Note struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID string `json:"category,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Category is a user-defined tag referenced by id from tasks and notes.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CategoryIcons is the fixed icon set categories may use.
// The first entry is the default.
var CategoryIcons = []string{
	"folder",
	"tag",
	"bookmark",
	"star",
	"flag",
	"circle",
	"heart",
	"home",
	"building",
	"car",
	"plane",
	"book",
	"briefcase",
	"money",
	"calendar",
	"clock",
	"user",
}

func DefaultCategoryIcon() string { return CategoryIcons[0] }

func ValidCategoryIcon(icon string) bool {
	for _, i := range CategoryIcons {
		if i == icon {
			return true
		}
	}
	return false
}
