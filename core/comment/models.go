package comment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tesina/core"
)

// AuthorRole is the role a comment was submitted under. It is a closed
// two-variant tag validated once at the boundary and carried as a typed
// value thereafter.
type AuthorRole string

const (
	RoleStudent AuthorRole = "student"
	RoleTeacher AuthorRole = "teacher"
)

func (r AuthorRole) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Thread groups all comment submissions by one user on one task.
// At most one thread exists per (user, task) pair; it is created lazily on
// the first submission, is never mutated afterwards and acts purely as a
// grouping key for its versions.
type Thread struct {
	ID        int       `json:"comment_id"`
	TaskID    int       `json:"task_id"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"-"` // UTC
}

// Version is one immutable comment submission within a thread's history.
// ThreadID is nullable: deleting a thread clears the reference instead of
// removing history.
type Version struct {
	ID        int        `json:"commentVersion_id"`
	ThreadID  null.Int   `json:"-"`
	Body      string     `json:"comment"`
	Role      AuthorRole `json:"role"`
	CreatedAt time.Time  `json:"datecomment"` // UTC
}

// ThreadView is the read-side projection of a thread: its identifying
// fields emitted once, with all versions nested newest-first.
type ThreadView struct {
	Thread
	Versions []Version `json:"versions"`
}

// NewComment contains information needed to add a comment to a task.
type NewComment struct {
	Comment string     `json:"comment" validate:"required"`
	Role    AuthorRole `json:"role" validate:"required,authorrole"`
	UserID  int        `json:"user_id" validate:"required"`
}

func (nc *NewComment) Validate(validate *validator.Validate) error {
	nc.Comment = core.CleanString(nc.Comment)
	return validate.Struct(nc)
}
