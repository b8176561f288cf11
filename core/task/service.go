package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/tesina/core"
)

var (
	// errors
	ErrNotFound = errors.New("task not found")

	// NowFunc returns the current time; mockable for tests.
	NowFunc = time.Now
)

type (
	Repository interface {
		CreateTask(ctx context.Context, t Task, exec ...core.DBExecutor) (Task, error)
		// QueryTasks applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Title or Description.
		QueryTasks(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Task, error)
		GetTask(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (Task, error)
		UpdateTask(ctx context.Context, t Task, exec ...core.DBExecutor) (Task, error)
		DeleteTasksByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error)
		CreateSubmission(ctx context.Context, sub Submission, exec ...core.DBExecutor) (Submission, error)
		QuerySubmissions(ctx context.Context, taskID int, exec ...core.DBExecutor) ([]Submission, error)
	}

	ServiceInterface interface {
		Create(nt NewTask, createdBy int) (Task, error)
		Query(filter *QueryFilter, ordering []core.DBOrdering) ([]Task, error)
		GetByID(id int) (Task, error)
		Update(id int, ut UpdateTask) (Task, error)
		Delete(ids ...int) error
		Submit(taskID, userID int) (Submission, error)
		QuerySubmissions(taskID int) ([]Submission, error)
	}

	service struct {
		repo Repository
		conf *core.Config
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, conf *core.Config) *service {
	return &service{repo: repo, conf: conf}
}

func (svc *service) Create(nt NewTask, createdBy int) (Task, error) {
	now := NowFunc().UTC()
	t := Task{
		CourseID:    nt.CourseID,
		Title:       nt.Title,
		Description: nt.Description,
		StartDate:   nt.StartDate,
		EndDate:     nt.EndDate,
		StartTime:   nt.StartTime,
		EndTime:     nt.EndTime,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateTask(context.Background(), t)
}

func (svc *service) Query(filter *QueryFilter, ordering []core.DBOrdering) ([]Task, error) {
	return svc.repo.QueryTasks(context.Background(), filter, ordering)
}

func (svc *service) GetByID(id int) (Task, error) {
	return svc.repo.GetTask(context.Background(), GetFilter{ID: id})
}

func (svc *service) Update(id int, ut UpdateTask) (Task, error) {
	t := Task{
		ID:          id,
		Title:       ut.Title,
		Description: ut.Description,
		StartDate:   ut.StartDate,
		EndDate:     ut.EndDate,
		StartTime:   ut.StartTime,
		EndTime:     ut.EndTime,
		UpdatedAt:   NowFunc().UTC(),
	}
	return svc.repo.UpdateTask(context.Background(), t)
}

func (svc *service) Delete(ids ...int) error {
	_, err := svc.repo.DeleteTasksByID(context.Background(), ids)
	return err
}

// Submit records a submission for (taskID, userID); the task must exist.
// The caller is responsible for window checks on the upload surface.
func (svc *service) Submit(taskID, userID int) (Submission, error) {
	ctx := context.Background()
	if _, err := svc.repo.GetTask(ctx, GetFilter{ID: taskID}); err != nil {
		return Submission{}, err
	}
	sub := Submission{
		TaskID:      taskID,
		UserID:      userID,
		Reference:   uuid.New().String(),
		SubmittedAt: NowFunc().UTC(),
	}
	return svc.repo.CreateSubmission(ctx, sub)
}

func (svc *service) QuerySubmissions(taskID int) ([]Submission, error) {
	return svc.repo.QuerySubmissions(context.Background(), taskID)
}
