package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tesina/core"
	"github.com/trezcool/tesina/core/comment"
)

const (
	threadCols  = `id, task_id, user_id, created_at`
	versionCols = `id, comment_id, comment, role, created_at`
)

type threadRow struct {
	ID        int       `db:"id"`
	TaskID    int       `db:"task_id"`
	UserID    int       `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type versionRow struct {
	ID        int       `db:"id"`
	ThreadID  null.Int  `db:"comment_id"`
	Body      string    `db:"comment"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

// threadVersionRow is one row of the thread/version join used by the
// nested projection.
type threadVersionRow struct {
	ThreadID  int       `db:"thread_id"`
	TaskID    int       `db:"task_id"`
	UserID    int       `db:"user_id"`
	VersionID int       `db:"version_id"`
	CommentID null.Int  `db:"comment_id"`
	Body      string    `db:"comment"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

type commentRepository struct {
	db *sqlx.DB
}

var _ comment.Repository = (*commentRepository)(nil) // interface compliance check

func NewCommentRepository(db *sqlx.DB) *commentRepository {
	return &commentRepository{db: db}
}

func (repo commentRepository) fromThreadRow(r threadRow) comment.Thread {
	return comment.Thread{
		ID:        r.ID,
		TaskID:    r.TaskID,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
	}
}

func (repo commentRepository) fromVersionRow(r versionRow) comment.Version {
	return comment.Version{
		ID:        r.ID,
		ThreadID:  r.ThreadID,
		Body:      r.Body,
		Role:      comment.AuthorRole(r.Role),
		CreatedAt: r.CreatedAt,
	}
}

func (repo commentRepository) GetOrCreateThread(ctx context.Context, userID, taskID int, exec ...core.DBExecutor) (comment.Thread, error) {
	exe := getExec(repo.db, exec)

	// Insert-if-absent: concurrent callers race on the UNIQUE(user_id, task_id)
	// constraint and the loser re-reads the winner's row.
	q := `INSERT INTO comment (user_id, task_id) VALUES ($1, $2)
	      ON CONFLICT (user_id, task_id) DO NOTHING
	      RETURNING ` + threadCols
	var r threadRow
	err := sqlx.GetContext(ctx, exe, &r, q, userID, taskID)
	if err == nil {
		return repo.fromThreadRow(r), nil
	}
	if errors.Cause(err) != sql.ErrNoRows {
		return comment.Thread{}, errors.Wrap(err, "inserting comment thread")
	}

	err = sqlx.GetContext(ctx, exe, &r, `SELECT `+threadCols+` FROM comment WHERE user_id = $1 AND task_id = $2`, userID, taskID)
	if err != nil {
		return comment.Thread{}, errors.Wrap(err, "finding comment thread")
	}
	return repo.fromThreadRow(r), nil
}

func (repo commentRepository) CreateVersion(ctx context.Context, v comment.Version, exec ...core.DBExecutor) (comment.Version, error) {
	q := `INSERT INTO comment_version (comment_id, comment, role, created_at)
	      VALUES ($1, $2, $3, $4)
	      RETURNING ` + versionCols
	var r versionRow
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, q, v.ThreadID, v.Body, string(v.Role), v.CreatedAt.UTC())
	if err != nil {
		return comment.Version{}, errors.Wrap(err, "inserting comment version")
	}
	return repo.fromVersionRow(r), nil
}

func (repo commentRepository) QueryThreadsWithVersions(ctx context.Context, taskID, userID int, exec ...core.DBExecutor) ([]comment.ThreadView, error) {
	// The inner join drops threads without versions; ordering fixes the
	// projection: threads by id ascending, versions newest-first.
	q := `SELECT c.id AS thread_id, c.task_id, c.user_id,
	             v.id AS version_id, v.comment_id, v.comment, v.role, v.created_at
	      FROM comment c
	      INNER JOIN comment_version v ON v.comment_id = c.id
	      WHERE c.task_id = $1 AND c.user_id = $2
	      ORDER BY c.id ASC, v.created_at DESC, v.id DESC`
	var rows []threadVersionRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q, taskID, userID); err != nil {
		return nil, errors.Wrap(err, "querying comment threads")
	}

	var views []comment.ThreadView
	for _, r := range rows {
		n := len(views)
		if n == 0 || views[n-1].ID != r.ThreadID {
			views = append(views, comment.ThreadView{
				Thread: comment.Thread{ID: r.ThreadID, TaskID: r.TaskID, UserID: r.UserID},
			})
			n++
		}
		views[n-1].Versions = append(views[n-1].Versions, comment.Version{
			ID:        r.VersionID,
			ThreadID:  r.CommentID,
			Body:      r.Body,
			Role:      comment.AuthorRole(r.Role),
			CreatedAt: r.CreatedAt,
		})
	}
	return views, nil
}
