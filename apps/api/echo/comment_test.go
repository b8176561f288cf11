package echoapi

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/tesina/core/comment"
	testutil "github.com/trezcool/tesina/tests"
)

func Test_commentApi_create(t *testing.T) {
	defer func() { comment.NowFunc = time.Now }()

	student := testutil.CreateUser(t, usrRepo, "Maria Perez", "mperez", "mperez@test.ar", "pwd", nil, true)
	token := getToken(t, student)

	tsk := testutil.CreateTask(
		t, taskRepo, 1, "Entrega de avance",
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC),
		"08:00:00", "17:00:00",
	)
	path := fmt.Sprintf("/api/comments/%d", tsk.ID)

	inWindow := time.Date(2025, 1, 5, 10, 0, 0, 0, time.Local)
	body := func(cmt, role string, userID int) []byte {
		return []byte(fmt.Sprintf(`{"comment": %q, "role": %q, "user_id": %d}`, cmt, role, userID))
	}

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodPost, path: path, body: body("draft v1", "student", 42),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "All fields required", method: http.MethodPost, path: path, body: []byte(`{}`), token: token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"comment": "this field is required", "role": "this field is required", "user_id": "this field is required"}`),
		},
		{
			name: "Unknown role is rejected", method: http.MethodPost, path: path,
			body: body("draft v1", "director", 42), token: token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"role": "role must be one of: student, teacher"}`),
		},
		{
			name: "Input is validated before the task lookup", method: http.MethodPost, path: "/api/comments/1337",
			body: []byte(`{"comment": "draft v1", "user_id": 42}`), token: token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"role": "this field is required"}`),
		},
		{
			name: "Task not found", method: http.MethodPost, path: "/api/comments/1337",
			body: body("draft v1", "student", 42), token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "task not found"}),
		},
		{
			name: "Non-numeric task ID", method: http.MethodPost, path: "/api/comments/lol",
			body: body("draft v1", "student", 42), token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Comment added", method: http.MethodPost, path: path,
			body: body("draft v1", "student", 42), token: token,
			wantCode: http.StatusCreated, wantData: marchallObj(t, MessageResponse{Message: "comment added"}),
		},
		{
			name: "Resubmission appends a new version", method: http.MethodPost, path: path,
			body: body("draft v2", "student", 42), token: token,
			wantCode: http.StatusCreated, wantData: marchallObj(t, MessageResponse{Message: "comment added"}),
		},
		{
			name: "Teacher feedback lands in its own thread", method: http.MethodPost, path: path,
			body: body("needs work", "teacher", 7), token: token,
			wantCode: http.StatusCreated, wantData: marchallObj(t, MessageResponse{Message: "comment added"}),
		},
		{
			name: "Outside date window", method: http.MethodPost, path: path,
			body: body("too late", "student", 42), token: token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: comment.ErrOutsideDateWindow.Error()}),
			extra:    time.Date(2025, 1, 11, 10, 0, 0, 0, time.Local),
		},
		{
			name: "Outside time window", method: http.MethodPost, path: path,
			body: body("after hours", "student", 42), token: token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: comment.ErrOutsideTimeWindow.Error()}),
			extra:    time.Date(2025, 1, 5, 18, 0, 0, 0, time.Local),
		},
	}
	for _, tt := range tests {
		now := inWindow
		if mocked, ok := tt.extra.(time.Time); ok {
			now = mocked
		}
		comment.NowFunc = func() time.Time { return now }

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_commentApi_list(t *testing.T) {
	teacher := testutil.CreateUser(t, usrRepo, "Jorge Diaz", "jdiaz", "jdiaz@test.ar", "pwd", nil, true)
	token := getToken(t, teacher)

	tsk := testutil.CreateTask(
		t, taskRepo, 1, "Entrega final",
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC),
		"00:00:00", "23:59:59",
	)

	base := time.Date(2025, 2, 10, 10, 0, 0, 0, time.UTC)
	v1 := testutil.CreateComment(t, commentRepo, tsk.ID, 42, "draft v1", comment.RoleStudent, base)
	v2 := testutil.CreateComment(t, commentRepo, tsk.ID, 42, "draft v2", comment.RoleStudent, base.Add(time.Hour))

	// noise from other pairs
	testutil.CreateComment(t, commentRepo, tsk.ID, 7, "needs work", comment.RoleTeacher, base)

	thread := comment.Thread{ID: v1.ThreadID.Int, TaskID: tsk.ID, UserID: 42}
	wantViews := []comment.ThreadView{
		{Thread: thread, Versions: []comment.Version{v2, v1}},
	}

	path := fmt.Sprintf("/api/comments/%d/user/42", tsk.ID)
	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodGet, path: path,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "No comments", method: http.MethodGet, path: fmt.Sprintf("/api/comments/%d/user/1337", tsk.ID), token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "no comments found"}),
		},
		{
			name: "Non-numeric task ID", method: http.MethodGet, path: "/api/comments/lol/user/42", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Non-numeric user ID", method: http.MethodGet, path: fmt.Sprintf("/api/comments/%d/user/lol", tsk.ID), token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Versions are nested newest-first", method: http.MethodGet, path: path, token: token,
			wantCode: http.StatusOK, wantData: marchallObj(t, wantViews),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
