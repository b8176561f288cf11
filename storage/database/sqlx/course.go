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
	"github.com/trezcool/tesina/core/course"
)

const (
	sedeCols   = `id, name, city, created_at`
	courseCols = `id, sede_id, name, code, description, created_at, updated_at`
)

type sedeRow struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	City      string    `db:"city"`
	CreatedAt time.Time `db:"created_at"`
}

type courseRow struct {
	ID          int       `db:"id"`
	SedeID      int       `db:"sede_id"`
	Name        string    `db:"name"`
	Code        string    `db:"code"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to course.ErrNotFound
func (repo courseRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return course.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo courseRepository) fromSedeRow(r sedeRow) course.Sede {
	return course.Sede{ID: r.ID, Name: r.Name, City: r.City, CreatedAt: r.CreatedAt}
}

func (repo courseRepository) fromCourseRow(r courseRow) course.Course {
	return course.Course{
		ID:          r.ID,
		SedeID:      r.SedeID,
		Name:        r.Name,
		Code:        r.Code,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (repo courseRepository) CreateSede(ctx context.Context, s course.Sede, exec ...core.DBExecutor) (course.Sede, error) {
	q := `INSERT INTO sede (name, city, created_at) VALUES ($1, $2, $3) RETURNING ` + sedeCols
	var r sedeRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, q, s.Name, s.City, s.CreatedAt.UTC()); err != nil {
		return course.Sede{}, errors.Wrap(err, "inserting sede")
	}
	return repo.fromSedeRow(r), nil
}

func (repo courseRepository) QuerySedes(ctx context.Context, exec ...core.DBExecutor) ([]course.Sede, error) {
	var rows []sedeRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, `SELECT `+sedeCols+` FROM sede ORDER BY id ASC`); err != nil {
		return nil, errors.Wrap(err, "querying sedes")
	}
	sedes := make([]course.Sede, 0, len(rows))
	for _, r := range rows {
		sedes = append(sedes, repo.fromSedeRow(r))
	}
	return sedes, nil
}

func (repo courseRepository) CreateCourse(ctx context.Context, c course.Course, exec ...core.DBExecutor) (course.Course, error) {
	q := `INSERT INTO course (sede_id, name, code, description, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6)
	      RETURNING ` + courseCols
	var r courseRow
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, q, c.SedeID, c.Name, c.Code, c.Description, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return repo.fromCourseRow(r), nil
}

func (repo courseRepository) QueryCourses(ctx context.Context, filter *course.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]course.Course, error) {
	var (
		clauses []string
		args    []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.SedeID != 0 {
			clauses = append(clauses, "sede_id = "+arg(filter.SedeID))
		}
		// courses with Name or Code matching the search keyword
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			clauses = append(clauses, fmt.Sprintf("(name ILIKE %s OR code ILIKE %s)", p, p))
		}
	}

	q := `SELECT ` + courseCols + ` FROM course`
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

	var rows []courseRow
	if err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, repo.fromCourseRow(r))
	}
	return courses, nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, c course.Course, exec ...core.DBExecutor) (course.Course, error) {
	var (
		sets []string
		args []interface{}
	)
	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	// only save set fields
	if c.SedeID != 0 {
		set("sede_id", c.SedeID)
	}
	if c.Name != "" {
		set("name", c.Name)
	}
	if c.Code != "" {
		set("code", c.Code)
	}
	if c.Description != "" {
		set("description", c.Description)
	}
	if !c.UpdatedAt.IsZero() {
		set("updated_at", c.UpdatedAt.UTC())
	}
	if len(sets) == 0 {
		return repo.GetCourse(ctx, c.ID, exec...)
	}

	args = append(args, c.ID)
	q := fmt.Sprintf(`UPDATE course SET %s WHERE id = $%d RETURNING `+courseCols, strings.Join(sets, ", "), len(args))
	var r courseRow
	if err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, q, args...); err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, "updating course")
	}
	return repo.fromCourseRow(r), nil
}

func (repo courseRepository) GetCourse(ctx context.Context, id int, exec ...core.DBExecutor) (course.Course, error) {
	if id <= 0 {
		return course.Course{}, course.ErrNotFound
	}
	var r courseRow
	err := sqlx.GetContext(ctx, getExec(repo.db, exec), &r, `SELECT `+courseCols+` FROM course WHERE id = $1`, id)
	if err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, "finding course by ID")
	}
	return repo.fromCourseRow(r), nil
}
