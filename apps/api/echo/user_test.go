package echoapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/trezcool/tesina/core/user"
	testutil "github.com/trezcool/tesina/tests"
)

func Test_userApi_login(t *testing.T) {
	testutil.CreateUser(t, usrRepo, "Ana Gomez", "agomez", "agomez@test.ar", "LePassword", nil, true)
	testutil.CreateUser(t, usrRepo, "Inactive", "inactive", "inactive@test.ar", "LePassword", nil, false)

	tests := []httpTest{
		{
			name: "All fields required", method: http.MethodPost, path: "/api/users/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"username": "this field is required", "password": "this field is required"}`),
		},
		{
			name: "Unknown user", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"username": "nope", "password": "LePassword"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "Wrong password", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"username": "agomez", "password": "nope"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "Deactivated account", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"username": "inactive", "password": "LePassword"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "Login with username", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"username": "agomez", "password": "LePassword"}`),
			wantCode: http.StatusOK,
		},
		{
			name: "Login with email", method: http.MethodPost, path: "/api/users/login",
			body:     []byte(`{"username": "agomez@test.ar", "password": "LePassword"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; data = %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				var resp LoginResponse
				if err := unmarshallObj(t, rec, &resp); err != nil || resp.Token == "" {
					t.Errorf("login did not return a token; data = %v", rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	admin := testutil.CreateUser(t, usrRepo, "Admin", "leadmin", "leadmin@test.ar", "pwd", user.AdminRoles, true)
	usr := testutil.CreateUser(t, usrRepo, "Pedro Lopez", "plopez", "plopez@test.ar", "pwd", user.StudentRoles, true)
	adminToken := getToken(t, admin)
	usrToken := getToken(t, usr)

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodGet, path: fmt.Sprintf("/api/users/%d", usr.ID),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Owner can retrieve themselves", method: http.MethodGet, path: fmt.Sprintf("/api/users/%d", usr.ID),
			token: usrToken, wantCode: http.StatusOK, wantData: marchallObj(t, usr),
		},
		{
			name: "Non-admin cannot retrieve others", method: http.MethodGet, path: fmt.Sprintf("/api/users/%d", admin.ID),
			token: usrToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Admin can retrieve anyone", method: http.MethodGet, path: fmt.Sprintf("/api/users/%d", usr.ID),
			token: adminToken, wantCode: http.StatusOK, wantData: marchallObj(t, usr),
		},
		{
			name: "Unknown user", method: http.MethodGet, path: "/api/users/1337",
			token: adminToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_query(t *testing.T) {
	admin := testutil.CreateUser(t, usrRepo, "Admin Two", "leadmin2", "leadmin2@test.ar", "pwd", user.AdminRoles, true)
	usr := testutil.CreateUser(t, usrRepo, "Lucia Roca", "lroca", "lroca@test.ar", "pwd", user.StudentRoles, true)

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodGet, path: "/api/users",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Admin only", method: http.MethodGet, path: "/api/users", token: getToken(t, usr),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Search by name", method: http.MethodGet, path: "/api/users?search=lucia", token: getToken(t, admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, []user.User{usr}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Carla Ruiz", "cruiz", "cruiz@test.ar", "pwd", user.StudentRoles, true)

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/users/token-refresh")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		}, rec)
	})

	t.Run("Fresh token is issued", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/users/token-refresh", getToken(t, usr))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; wantCode %v; data = %v", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp LoginResponse
		if err := unmarshallObj(t, rec, &resp); err != nil || resp.Token == "" {
			t.Errorf("refresh did not return a token; data = %v", rec.Body.String())
		}
	})
}
