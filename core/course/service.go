package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tesina/core"
)

var (
	// errors
	ErrNotFound = errors.New("course not found")

	// NowFunc returns the current time; mockable for tests.
	NowFunc = time.Now
)

type (
	Repository interface {
		CreateSede(ctx context.Context, s Sede, exec ...core.DBExecutor) (Sede, error)
		QuerySedes(ctx context.Context, exec ...core.DBExecutor) ([]Sede, error)
		CreateCourse(ctx context.Context, c Course, exec ...core.DBExecutor) (Course, error)
		// QueryCourses applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Name or Code.
		QueryCourses(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Course, error)
		GetCourse(ctx context.Context, id int, exec ...core.DBExecutor) (Course, error)
		// UpdateCourse only saves set fields.
		UpdateCourse(ctx context.Context, c Course, exec ...core.DBExecutor) (Course, error)
	}

	ServiceInterface interface {
		CreateSede(ns NewSede) (Sede, error)
		QuerySedes() ([]Sede, error)
		Create(nc NewCourse) (Course, error)
		Query(filter *QueryFilter, ordering []core.DBOrdering) ([]Course, error)
		GetByID(id int) (Course, error)
		Update(id int, uc UpdateCourse) (Course, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) CreateSede(ns NewSede) (Sede, error) {
	s := Sede{
		Name:      ns.Name,
		City:      ns.City,
		CreatedAt: NowFunc().UTC(),
	}
	return svc.repo.CreateSede(context.Background(), s)
}

func (svc *service) QuerySedes() ([]Sede, error) {
	return svc.repo.QuerySedes(context.Background())
}

func (svc *service) Create(nc NewCourse) (Course, error) {
	now := NowFunc().UTC()
	c := Course{
		SedeID:      nc.SedeID,
		Name:        nc.Name,
		Code:        nc.Code,
		Description: nc.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCourse(context.Background(), c)
}

func (svc *service) Query(filter *QueryFilter, ordering []core.DBOrdering) ([]Course, error) {
	return svc.repo.QueryCourses(context.Background(), filter, ordering)
}

func (svc *service) GetByID(id int) (Course, error) {
	return svc.repo.GetCourse(context.Background(), id)
}

func (svc *service) Update(id int, uc UpdateCourse) (Course, error) {
	c := Course{
		ID:          id,
		SedeID:      uc.SedeID,
		Name:        uc.Name,
		Code:        uc.Code,
		Description: uc.Description,
		UpdatedAt:   NowFunc().UTC(),
	}
	return svc.repo.UpdateCourse(context.Background(), c)
}
