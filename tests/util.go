package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tesina/core/comment"
	"github.com/trezcool/tesina/core/course"
	"github.com/trezcool/tesina/core/task"
	"github.com/trezcool/tesina/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateSede(t *testing.T, repo course.Repository, name, city string) course.Sede {
	t.Helper()

	s, err := repo.CreateSede(context.Background(), course.Sede{
		Name:      name,
		City:      city,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateSede() failed: %v", err)
	}
	return s
}

func CreateCourse(t *testing.T, repo course.Repository, sedeID int, name, code string) course.Course {
	t.Helper()

	now := time.Now().UTC()
	c, err := repo.CreateCourse(context.Background(), course.Course{
		SedeID:    sedeID,
		Name:      name,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

// CreateTask creates a task whose submission windows span the given bounds.
// Times are HH:MM:SS wall-clock strings.
func CreateTask(
	t *testing.T,
	repo task.Repository,
	courseID int,
	title string,
	startDate, endDate time.Time,
	startTime, endTime string,
) task.Task {
	t.Helper()

	now := time.Now().UTC()
	tsk, err := repo.CreateTask(context.Background(), task.Task{
		CourseID:  courseID,
		Title:     title,
		StartDate: startDate,
		EndDate:   endDate,
		StartTime: startTime,
		EndTime:   endTime,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	return tsk
}

// CreateComment resolves the (userID, taskID) thread and appends a version to it.
func CreateComment(
	t *testing.T,
	repo comment.Repository,
	taskID, userID int,
	body string,
	role comment.AuthorRole,
	createdAt ...time.Time,
) comment.Version {
	t.Helper()

	ctx := context.Background()
	thr, err := repo.GetOrCreateThread(ctx, userID, taskID)
	if err != nil {
		t.Fatalf("CreateComment() failed: %v", err)
	}

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	ver, err := repo.CreateVersion(ctx, comment.Version{
		ThreadID:  null.IntFrom(thr.ID),
		Body:      body,
		Role:      role,
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateComment() failed: %v", err)
	}
	return ver
}
