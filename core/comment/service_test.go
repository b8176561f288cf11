package comment_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tesina/core"
	"github.com/trezcool/tesina/core/comment"
	"github.com/trezcool/tesina/core/task"
	dummydb "github.com/trezcool/tesina/storage/database/dummy"
	testutil "github.com/trezcool/tesina/tests"
)

var taskRepo task.Repository

func setup(t *testing.T) (comment.ServiceInterface, comment.Repository) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	repo := dummydb.NewCommentRepository(db)
	taskRepo = dummydb.NewTaskRepository(db)
	svc := comment.NewService(repo, taskRepo, core.NewConfig())
	return svc, repo
}

// openTask creates a task whose windows always contain time.Now.
func openTask(t *testing.T, title string) task.Task {
	t.Helper()

	now := time.Now()
	return testutil.CreateTask(
		t, taskRepo, 1, title,
		now.AddDate(0, 0, -1), now.AddDate(0, 0, 1),
		"00:00:00", "23:59:59",
	)
}

func Test_service_Add(t *testing.T) {
	svc, _ := setup(t)

	tsk := openTask(t, "Entrega de avance")

	nc := comment.NewComment{Comment: "first draft", Role: comment.RoleStudent, UserID: 42}
	ver, err := svc.Add(tsk.ID, nc)
	if err != nil {
		t.Fatalf("svc.Add() failed, %v", err)
	}
	if ver.ID == 0 {
		t.Error("svc.Add() did not assign a version ID")
	}
	if !ver.ThreadID.Valid {
		t.Error("svc.Add() did not attach the version to a thread")
	}
	if ver.Body != "first draft" || ver.Role != comment.RoleStudent {
		t.Errorf("svc.Add() = %+v, want body %q role %q", ver, "first draft", comment.RoleStudent)
	}

	t.Run("task not found", func(t *testing.T) {
		_, err := svc.Add(1337, nc)
		if errors.Cause(err) != task.ErrNotFound {
			t.Errorf("svc.Add() error = %v, wantErr %v", err, task.ErrNotFound)
		}
	})

	t.Run("same pair reuses the thread", func(t *testing.T) {
		ver2, err := svc.Add(tsk.ID, comment.NewComment{Comment: "second draft", Role: comment.RoleStudent, UserID: 42})
		if err != nil {
			t.Fatalf("svc.Add() failed, %v", err)
		}
		if ver2.ThreadID.Int != ver.ThreadID.Int {
			t.Errorf("thread ID = %d, want %d", ver2.ThreadID.Int, ver.ThreadID.Int)
		}
		if ver2.ID == ver.ID {
			t.Error("svc.Add() overwrote a prior version instead of appending")
		}
	})

	t.Run("different user gets its own thread", func(t *testing.T) {
		ver3, err := svc.Add(tsk.ID, comment.NewComment{Comment: "looks good", Role: comment.RoleTeacher, UserID: 7})
		if err != nil {
			t.Fatalf("svc.Add() failed, %v", err)
		}
		if ver3.ThreadID.Int == ver.ThreadID.Int {
			t.Error("distinct (user, task) pairs must not share a thread")
		}
	})

	t.Run("prior versions stay intact", func(t *testing.T) {
		views, err := svc.ListForTaskUser(tsk.ID, 42)
		if err != nil {
			t.Fatalf("svc.ListForTaskUser() failed, %v", err)
		}
		if len(views) != 1 {
			t.Fatalf("got %d threads, want 1", len(views))
		}
		if len(views[0].Versions) != 2 {
			t.Fatalf("got %d versions, want 2", len(views[0].Versions))
		}
		bodies := []string{views[0].Versions[0].Body, views[0].Versions[1].Body}
		if bodies[0] != "second draft" || bodies[1] != "first draft" {
			t.Errorf("versions = %v, want newest-first [second draft, first draft]", bodies)
		}
	})
}

func Test_service_Add_dateWindow(t *testing.T) {
	svc, _ := setup(t)
	defer func() { comment.NowFunc = time.Now }()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC)
	tsk := testutil.CreateTask(t, taskRepo, 1, "Entrega final", start, end, "00:00:00", "23:59:59")

	nc := comment.NewComment{Comment: "hola", Role: comment.RoleStudent, UserID: 1}
	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{name: "before start", now: start.Add(-time.Second), wantErr: comment.ErrOutsideDateWindow},
		{name: "at start", now: start},
		{name: "inside", now: start.AddDate(0, 0, 5)},
		{name: "at end", now: end},
		{name: "after end", now: end.Add(time.Second), wantErr: comment.ErrOutsideDateWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comment.NowFunc = func() time.Time { return tt.now }

			_, err := svc.Add(tsk.ID, nc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("svc.Add() unexpected error = %v", err)
				}
				return
			}
			vErr, ok := errors.Cause(err).(*core.ValidationError)
			if !ok {
				t.Fatalf("svc.Add() error = %v, want *core.ValidationError", err)
			}
			if vErr.Error() != tt.wantErr.Error() {
				t.Errorf("svc.Add() error = %v, wantErr %v", vErr, tt.wantErr)
			}
		})
	}
}

func Test_service_Add_timeWindow(t *testing.T) {
	svc, _ := setup(t)
	defer func() { comment.NowFunc = time.Now }()

	day := time.Date(2025, 1, 5, 0, 0, 0, 0, time.Local)
	tsk := testutil.CreateTask(
		t, taskRepo, 1, "Defensa",
		day.AddDate(0, 0, -1), day.AddDate(0, 0, 1),
		"08:00:00", "17:00:00",
	)

	nc := comment.NewComment{Comment: "hola", Role: comment.RoleTeacher, UserID: 1}
	tests := []struct {
		name    string
		clock   time.Duration
		wantErr error
	}{
		{name: "before opening", clock: 7*time.Hour + 59*time.Minute + 59*time.Second, wantErr: comment.ErrOutsideTimeWindow},
		{name: "at opening", clock: 8 * time.Hour},
		{name: "midday", clock: 12 * time.Hour},
		{name: "at closing", clock: 17 * time.Hour},
		{name: "after closing", clock: 17*time.Hour + time.Second, wantErr: comment.ErrOutsideTimeWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comment.NowFunc = func() time.Time { return day.Add(tt.clock) }

			_, err := svc.Add(tsk.ID, nc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("svc.Add() unexpected error = %v", err)
				}
				return
			}
			vErr, ok := errors.Cause(err).(*core.ValidationError)
			if !ok {
				t.Fatalf("svc.Add() error = %v, want *core.ValidationError", err)
			}
			if vErr.Error() != tt.wantErr.Error() {
				t.Errorf("svc.Add() error = %v, wantErr %v", vErr, tt.wantErr)
			}
		})
	}

	t.Run("inverted window never accepts", func(t *testing.T) {
		inverted := testutil.CreateTask(
			t, taskRepo, 1, "Ventana nocturna",
			day.AddDate(0, 0, -1), day.AddDate(0, 0, 1),
			"22:00:00", "02:00:00",
		)
		for _, clock := range []time.Duration{23 * time.Hour, time.Hour, 12 * time.Hour} {
			comment.NowFunc = func() time.Time { return day.Add(clock) }
			if _, err := svc.Add(inverted.ID, nc); err == nil {
				t.Errorf("svc.Add() at %v accepted a comment on an inverted time window", clock)
			}
		}
	})
}

func Test_service_ListForTaskUser(t *testing.T) {
	svc, repo := setup(t)

	tsk := openTask(t, "Revisión")

	t.Run("no comments", func(t *testing.T) {
		if _, err := svc.ListForTaskUser(tsk.ID, 42); err != comment.ErrNotFound {
			t.Errorf("svc.ListForTaskUser() error = %v, wantErr %v", err, comment.ErrNotFound)
		}
	})

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	testutil.CreateComment(t, repo, tsk.ID, 42, "v1", comment.RoleStudent, base)
	testutil.CreateComment(t, repo, tsk.ID, 42, "v2", comment.RoleStudent, base.Add(time.Hour))
	testutil.CreateComment(t, repo, tsk.ID, 42, "v3", comment.RoleTeacher, base.Add(2*time.Hour))

	// other pairs must not leak into the result
	testutil.CreateComment(t, repo, tsk.ID, 7, "other user", comment.RoleTeacher, base)
	other := openTask(t, "Otra tarea")
	testutil.CreateComment(t, repo, other.ID, 42, "other task", comment.RoleStudent, base)

	views, err := svc.ListForTaskUser(tsk.ID, 42)
	if err != nil {
		t.Fatalf("svc.ListForTaskUser() failed, %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d threads, want 1", len(views))
	}
	view := views[0]
	if view.TaskID != tsk.ID || view.UserID != 42 {
		t.Errorf("thread = (task %d, user %d), want (task %d, user 42)", view.TaskID, view.UserID, tsk.ID)
	}
	if len(view.Versions) != 3 {
		t.Fatalf("got %d versions, want 3", len(view.Versions))
	}
	for i, want := range []string{"v3", "v2", "v1"} {
		if view.Versions[i].Body != want {
			t.Errorf("Versions[%d].Body = %q, want %q", i, view.Versions[i].Body, want)
		}
	}

	t.Run("same timestamp breaks ties by id", func(t *testing.T) {
		tied := openTask(t, "Empate")
		testutil.CreateComment(t, repo, tied.ID, 3, "older", comment.RoleStudent, base)
		testutil.CreateComment(t, repo, tied.ID, 3, "newer", comment.RoleStudent, base)

		views, err := svc.ListForTaskUser(tied.ID, 3)
		if err != nil {
			t.Fatalf("svc.ListForTaskUser() failed, %v", err)
		}
		if got := views[0].Versions[0].Body; got != "newer" {
			t.Errorf("Versions[0].Body = %q, want %q", got, "newer")
		}
	})
}
