package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/tesina/core"
	"github.com/trezcool/tesina/core/course"
)

type courseRepository struct {
	db     *courseTable
	sedeDB *sedeTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course, sedeDB: db.sede}
}

func (repo *courseRepository) CreateSede(ctx context.Context, s course.Sede, exec ...core.DBExecutor) (course.Sede, error) {
	repo.sedeDB.Lock()
	defer repo.sedeDB.Unlock()

	repo.sedeDB.lastID++
	s.ID = repo.sedeDB.lastID
	repo.sedeDB.table[s.ID] = &s
	return s, nil
}

func (repo *courseRepository) QuerySedes(ctx context.Context, exec ...core.DBExecutor) ([]course.Sede, error) {
	repo.sedeDB.RLock()
	defer repo.sedeDB.RUnlock()

	sedes := make([]course.Sede, 0, len(repo.sedeDB.table))
	for _, s := range repo.sedeDB.table {
		sedes = append(sedes, *s)
	}
	sort.Slice(sedes, func(i, j int) bool { return sedes[i].ID < sedes[j].ID })
	return sedes, nil
}

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course, exec ...core.DBExecutor) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.lastID++
	c.ID = repo.db.lastID
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) QueryCourses(ctx context.Context, filter *course.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		courses = append(courses, *c)
	}

	if filter != nil {
		if filter.SedeID != 0 {
			var filtered []course.Course
			for _, c := range courses {
				if c.SedeID == filter.SedeID {
					filtered = append(filtered, c)
				}
			}
			courses = filtered
		}
		if courses != nil && filter.Search != "" {
			var filtered []course.Course
			for _, c := range courses {
				if strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) ||
					strings.Contains(strings.ToLower(c.Code), strings.ToLower(filter.Search)) {
					filtered = append(filtered, c)
				}
			}
			courses = filtered
		}
	}

	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, c course.Course, exec ...core.DBExecutor) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	origCourse, ok := repo.db.table[c.ID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	if c.SedeID != 0 {
		origCourse.SedeID = c.SedeID
	}
	if c.Name != "" {
		origCourse.Name = c.Name
	}
	if c.Code != "" {
		origCourse.Code = c.Code
	}
	if c.Description != "" {
		origCourse.Description = c.Description
	}
	if !c.UpdatedAt.IsZero() {
		origCourse.UpdatedAt = c.UpdatedAt
	}

	repo.db.table[c.ID] = origCourse
	return *origCourse, nil
}

func (repo *courseRepository) GetCourse(ctx context.Context, id int, exec ...core.DBExecutor) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return course.Course{}, course.ErrNotFound
}
