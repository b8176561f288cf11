package comment

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tesina/core"
	"github.com/trezcool/tesina/core/task"
)

var (
	// errors
	ErrNotFound          = errors.New("no comments found")
	ErrOutsideDateWindow = errors.New("comments are not accepted outside the task's date range")
	ErrOutsideTimeWindow = errors.New("comments are not accepted outside the task's time range")

	// NowFunc returns the current time; mockable for tests.
	NowFunc = time.Now
)

type (
	Repository interface {
		// GetOrCreateThread resolves the single thread for (userID, taskID),
		// creating it atomically when absent.
		GetOrCreateThread(ctx context.Context, userID, taskID int, exec ...core.DBExecutor) (Thread, error)
		// CreateVersion appends an immutable version row; it never updates
		// a prior version.
		CreateVersion(ctx context.Context, v Version, exec ...core.DBExecutor) (Version, error)
		// QueryThreadsWithVersions loads every thread for (taskID, userID)
		// with its versions nested. Threads are ordered by id ascending,
		// versions newest-first (created_at desc, id desc); threads with no
		// versions are excluded.
		QueryThreadsWithVersions(ctx context.Context, taskID, userID int, exec ...core.DBExecutor) ([]ThreadView, error)
	}

	ServiceInterface interface {
		Add(taskID int, nc NewComment) (Version, error)
		ListForTaskUser(taskID, userID int) ([]ThreadView, error)
	}

	service struct {
		repo     Repository
		taskRepo task.Repository
		conf     *core.Config
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, taskRepo task.Repository, conf *core.Config) *service {
	return &service{
		repo:     repo,
		taskRepo: taskRepo,
		conf:     conf,
	}
}

// Add appends a comment version for (nc.UserID, taskID).
// The task must exist and the current moment must fall inside both of its
// submission windows; the thread is then resolved (created on first use)
// and a new version appended. Versions are never merged: two submissions
// in the same second still yield two rows.
func (svc *service) Add(taskID int, nc NewComment) (Version, error) {
	ctx := context.Background()

	t, err := svc.taskRepo.GetTask(ctx, task.GetFilter{ID: taskID})
	if err != nil {
		return Version{}, err
	}

	now := NowFunc()
	if !t.DateWindowContains(now) {
		return Version{}, core.NewValidationError(ErrOutsideDateWindow)
	}
	if !t.TimeWindowContains(now) {
		return Version{}, core.NewValidationError(ErrOutsideTimeWindow)
	}

	thr, err := svc.repo.GetOrCreateThread(ctx, nc.UserID, taskID)
	if err != nil {
		return Version{}, errors.Wrap(err, "resolving comment thread")
	}

	ver := Version{
		ThreadID:  null.IntFrom(thr.ID),
		Body:      nc.Comment,
		Role:      nc.Role,
		CreatedAt: now.UTC(),
	}
	ver, err = svc.repo.CreateVersion(ctx, ver)
	if err != nil {
		return Version{}, errors.Wrap(err, "appending comment version")
	}
	return ver, nil
}

// ListForTaskUser returns every thread for (taskID, userID) with versions
// nested newest-first. An empty result yields ErrNotFound rather than an
// empty success payload.
func (svc *service) ListForTaskUser(taskID, userID int) ([]ThreadView, error) {
	views, err := svc.repo.QueryThreadsWithVersions(context.Background(), taskID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying comment threads")
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return views, nil
}
