package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/tesina/core"
	"github.com/trezcool/tesina/core/task"
)

type taskRepository struct {
	db    *taskTable
	subDB *submissionTable
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db.task, subDB: db.submission}
}

func (repo *taskRepository) query() []task.Task {
	tasks := make([]task.Task, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		tasks = append(tasks, *t)
	}
	return tasks
}

func (repo *taskRepository) CreateTask(ctx context.Context, t task.Task, exec ...core.DBExecutor) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.lastID++
	t.ID = repo.db.lastID
	repo.db.table[t.ID] = &t
	return t, nil
}

func (repo *taskRepository) QueryTasks(ctx context.Context, filter *task.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := repo.query()

	if filter != nil {
		if filter.CourseID != 0 {
			var filtered []task.Task
			for _, t := range tasks {
				if t.CourseID == filter.CourseID {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}
		if tasks != nil && filter.Search != "" {
			var filtered []task.Task
			for _, t := range tasks {
				if strings.Contains(strings.ToLower(t.Title), strings.ToLower(filter.Search)) ||
					strings.Contains(strings.ToLower(t.Description), strings.ToLower(filter.Search)) {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (repo *taskRepository) GetTask(ctx context.Context, filter task.GetFilter, exec ...core.DBExecutor) (task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[filter.ID]; ok {
		return *t, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) UpdateTask(ctx context.Context, t task.Task, exec ...core.DBExecutor) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	origTask, ok := repo.db.table[t.ID]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}
	if t.Title != "" {
		origTask.Title = t.Title
	}
	if t.Description != "" {
		origTask.Description = t.Description
	}
	if !t.StartDate.IsZero() {
		origTask.StartDate = t.StartDate
	}
	if !t.EndDate.IsZero() {
		origTask.EndDate = t.EndDate
	}
	if t.StartTime != "" {
		origTask.StartTime = t.StartTime
	}
	if t.EndTime != "" {
		origTask.EndTime = t.EndTime
	}
	if !t.UpdatedAt.IsZero() {
		origTask.UpdatedAt = t.UpdatedAt
	}

	repo.db.table[t.ID] = origTask
	return *origTask, nil
}

func (repo *taskRepository) DeleteTasksByID(ctx context.Context, ids []int, exec ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.table[id]; ok {
			delete(repo.db.table, id)
			cnt++
		}
	}
	return cnt, nil
}

func (repo *taskRepository) CreateSubmission(ctx context.Context, sub task.Submission, exec ...core.DBExecutor) (task.Submission, error) {
	repo.subDB.Lock()
	defer repo.subDB.Unlock()

	repo.subDB.lastID++
	sub.ID = repo.subDB.lastID
	repo.subDB.table[sub.ID] = &sub
	return sub, nil
}

func (repo *taskRepository) QuerySubmissions(ctx context.Context, taskID int, exec ...core.DBExecutor) ([]task.Submission, error) {
	repo.subDB.RLock()
	defer repo.subDB.RUnlock()

	var subs []task.Submission
	for _, sub := range repo.subDB.table {
		if sub.TaskID == taskID {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool {
		if !subs[i].SubmittedAt.Equal(subs[j].SubmittedAt) {
			return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
		}
		return subs[i].ID > subs[j].ID
	})
	return subs, nil
}
