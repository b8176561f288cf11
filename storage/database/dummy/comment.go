package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/tesina/core"
	"github.com/trezcool/tesina/core/comment"
)

type commentRepository struct {
	threadDB  *threadTable
	versionDB *versionTable
}

var _ comment.Repository = (*commentRepository)(nil) // interface compliance check

func NewCommentRepository(db *DB) comment.Repository {
	return &commentRepository{threadDB: db.thread, versionDB: db.version}
}

func (repo *commentRepository) GetOrCreateThread(ctx context.Context, userID, taskID int, exec ...core.DBExecutor) (comment.Thread, error) {
	repo.threadDB.Lock()
	defer repo.threadDB.Unlock()

	for _, thr := range repo.threadDB.table {
		if thr.UserID == userID && thr.TaskID == taskID {
			return *thr, nil
		}
	}

	repo.threadDB.lastID++
	thr := comment.Thread{
		ID:        repo.threadDB.lastID,
		TaskID:    taskID,
		UserID:    userID,
		CreatedAt: comment.NowFunc().UTC(),
	}
	repo.threadDB.table[thr.ID] = &thr
	return thr, nil
}

func (repo *commentRepository) CreateVersion(ctx context.Context, v comment.Version, exec ...core.DBExecutor) (comment.Version, error) {
	repo.versionDB.Lock()
	defer repo.versionDB.Unlock()

	repo.versionDB.lastID++
	v.ID = repo.versionDB.lastID
	repo.versionDB.table[v.ID] = &v
	return v, nil
}

func (repo *commentRepository) QueryThreadsWithVersions(ctx context.Context, taskID, userID int, exec ...core.DBExecutor) ([]comment.ThreadView, error) {
	repo.threadDB.RLock()
	defer repo.threadDB.RUnlock()
	repo.versionDB.RLock()
	defer repo.versionDB.RUnlock()

	var threads []comment.Thread
	for _, thr := range repo.threadDB.table {
		if thr.TaskID == taskID && thr.UserID == userID {
			threads = append(threads, *thr)
		}
	}
	sort.Slice(threads, func(i, j int) bool { return threads[i].ID < threads[j].ID })

	var views []comment.ThreadView
	for _, thr := range threads {
		var versions []comment.Version
		for _, v := range repo.versionDB.table {
			if v.ThreadID.Valid && v.ThreadID.Int == thr.ID {
				versions = append(versions, *v)
			}
		}
		if len(versions) == 0 {
			// a thread only shows up once it has versions
			continue
		}
		sort.Slice(versions, func(i, j int) bool {
			if !versions[i].CreatedAt.Equal(versions[j].CreatedAt) {
				return versions[i].CreatedAt.After(versions[j].CreatedAt)
			}
			return versions[i].ID > versions[j].ID
		})
		views = append(views, comment.ThreadView{Thread: thr, Versions: versions})
	}
	return views, nil
}
