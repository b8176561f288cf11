package dummydb

import (
	"sync"

	"github.com/trezcool/tesina/core/comment"
	"github.com/trezcool/tesina/core/course"
	"github.com/trezcool/tesina/core/task"
	"github.com/trezcool/tesina/core/user"
)

type (
	DB struct {
		user       *userTable
		task       *taskTable
		submission *submissionTable
		thread     *threadTable
		version    *versionTable
		sede       *sedeTable
		course     *courseTable
	}

	userTable struct {
		sync.RWMutex
		lastID int
		table  map[int]*user.User
	}

	taskTable struct {
		sync.RWMutex
		lastID int
		table  map[int]*task.Task
	}

	submissionTable struct {
		sync.RWMutex
		lastID int
		table  map[int]*task.Submission
	}

	threadTable struct {
		sync.RWMutex
		lastID int
		table  map[int]*comment.Thread
	}

	versionTable struct {
		sync.RWMutex
		lastID int
		table  map[int]*comment.Version
	}

	sedeTable struct {
		sync.RWMutex
		lastID int
		table  map[int]*course.Sede
	}

	courseTable struct {
		sync.RWMutex
		lastID int
		table  map[int]*course.Course
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[int]*user.User)},
		task:       &taskTable{table: make(map[int]*task.Task)},
		submission: &submissionTable{table: make(map[int]*task.Submission)},
		thread:     &threadTable{table: make(map[int]*comment.Thread)},
		version:    &versionTable{table: make(map[int]*comment.Version)},
		sede:       &sedeTable{table: make(map[int]*course.Sede)},
		course:     &courseTable{table: make(map[int]*course.Course)},
	}
	return db, nil
}
