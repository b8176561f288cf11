package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tesina/core"
	"github.com/trezcool/tesina/core/task"
)

const (
	taskCols       = `id, course_id, title, description, start_date, end_date, start_time, end_time, created_by, created_at, updated_at`
	submissionCols = `id, task_id, user_id, reference, submitted_at`
)

type taskRow struct {
	ID          int       `db:"id"`
	CourseID    int       `db:"course_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	StartDate   time.Time `db:"start_date"`
	EndDate     time.Time `db:"end_date"`
	StartTime   string    `db:"start_time"`
	EndTime     string    `db:"end_time"`
	CreatedBy   int       `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type submissionRow struct {
	ID          int       `db:"id"`
	TaskID      int       `db:"task_id"`
	UserID      int       `db:"user_id"`
	Reference   string    `db:"reference"`
	SubmittedAt time.Time `db:"submitted_at"`
}

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) *taskRepository {
	return &taskRepository{db: db}
}

func (repo taskRepository) fromRow(r taskRow) task.Task {
	return task.Task{
		ID:          r.ID,
		CourseID:    r.CourseID,
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" err to task.ErrNotFound
func (repo taskRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return task.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo taskRepository) CreateTask(ctx context.Context, t task.Task, exec ...core.DBExecutor) (task.Task, error) {
	q := `INSERT INTO task (course_id, title, description, start_date, end_date, start_time, end_time, created_by, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	      RETURNING ` + taskCols
	var r taskRow
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, q,
		t.CourseID, t.Title, t.Description, t.StartDate.UTC(), t.EndDate.UTC(), t.StartTime, t.EndTime,
		t.CreatedBy, t.CreatedAt.UTC(), t.UpdatedAt.UTC())
	if err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	return repo.fromRow(r), nil
}

func (repo taskRepository) QueryTasks(ctx context.Context, filter *task.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]task.Task, error) {
	var (
		clauses []string
		args    []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.CourseID != 0 {
			clauses = append(clauses, "course_id = "+arg(filter.CourseID))
		}
		// tasks with Title or Description matching the search keyword
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			clauses = append(clauses, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
		}
	}

	q := `SELECT ` + taskCols + ` FROM task`
	if len(clauses) > 0 {
		q += " WHERE " + strings.Join(clauses, " AND ")
	}
	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		q += " ORDER BY " + strings.Join(orderList, ", ")
	}

	var rows []taskRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	tasks := make([]task.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, repo.fromRow(r))
	}
	return tasks, nil
}

func (repo taskRepository) GetTask(ctx context.Context, filter task.GetFilter, exec ...core.DBExecutor) (task.Task, error) {
	if filter.ID <= 0 {
		return task.Task{}, task.ErrNotFound
	}
	var r taskRow
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, `SELECT `+taskCols+` FROM task WHERE id = $1`, filter.ID)
	if err != nil {
		return task.Task{}, repo.trapNoRowsErr(err, "finding task by ID")
	}
	return repo.fromRow(r), nil
}

func (repo taskRepository) UpdateTask(ctx context.Context, t task.Task, exec ...core.DBExecutor) (task.Task, error) {
	var (
		sets []string
		args []interface{}
	)
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	// only save set fields
	if t.Title != "" {
		set("title", t.Title)
	}
	if t.Description != "" {
		set("description", t.Description)
	}
	if !t.StartDate.IsZero() {
		set("start_date", t.StartDate.UTC())
	}
	if !t.EndDate.IsZero() {
		set("end_date", t.EndDate.UTC())
	}
	if t.StartTime != "" {
		set("start_time", t.StartTime)
	}
	if t.EndTime != "" {
		set("end_time", t.EndTime)
	}
	if !t.UpdatedAt.IsZero() {
		set("updated_at", t.UpdatedAt.UTC())
	}
	if len(sets) == 0 {
		return repo.GetTask(ctx, task.GetFilter{ID: t.ID}, exec...)
	}

	args = append(args, t.ID)
	q := fmt.Sprintf(`UPDATE task SET %s WHERE id = $%d RETURNING `+taskCols, strings.Join(sets, ", "), len(args))
	var r taskRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, q, args...); err != nil {
		return task.Task{}, repo.trapNoRowsErr(err, "updating task")
	}
	return repo.fromRow(r), nil
}

func (repo taskRepository) DeleteTasksByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error) {
	res, err := getExec(repo.db, exec).ExecContext(ctx, `DELETE FROM task WHERE id = ANY($1)`, int64Array(ids))
	if err != nil {
		return 0, errors.Wrap(err, "deleting tasks")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting tasks")
	}
	return int(cnt), nil
}

func (repo taskRepository) CreateSubmission(ctx context.Context, sub task.Submission, exec ...core.DBExecutor) (task.Submission, error) {
	q := `INSERT INTO submission (task_id, user_id, reference, submitted_at)
	      VALUES ($1, $2, $3, $4)
	      RETURNING ` + submissionCols
	var r submissionRow
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, q, sub.TaskID, sub.UserID, sub.Reference, sub.SubmittedAt.UTC())
	if err != nil {
		return task.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return task.Submission{ID: r.ID, TaskID: r.TaskID, UserID: r.UserID, Reference: r.Reference, SubmittedAt: r.SubmittedAt}, nil
}

func (repo taskRepository) QuerySubmissions(ctx context.Context, taskID int, exec ...core.DBExecutor) ([]task.Submission, error) {
	q := `SELECT ` + submissionCols + ` FROM submission WHERE task_id = $1 ORDER BY submitted_at DESC, id DESC`
	var rows []submissionRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q, taskID); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	subs := make([]task.Submission, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, task.Submission{ID: r.ID, TaskID: r.TaskID, UserID: r.UserID, Reference: r.Reference, SubmittedAt: r.SubmittedAt})
	}
	return subs, nil
}
