package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/jukulab/hansei/apps/api/echo"
)

func Test_authApi_login(t *testing.T) {
	resetState()
	createTeacher(t, "田中", "T001", "tanaka@test.jp", "s3cret")

	tests := []httpTest{
		{
			name: "employee code required", method: http.MethodPost, path: "/api/auth/login",
			body:     marchallObj(t, LoginRequest{Password: "s3cret"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "password required", method: http.MethodPost, path: "/api/auth/login",
			body:     marchallObj(t, LoginRequest{EmployeeCode: "T001"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "unknown employee code", method: http.MethodPost, path: "/api/auth/login",
			body:     marchallObj(t, LoginRequest{EmployeeCode: "T999", Password: "s3cret"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/api/auth/login",
			body:     marchallObj(t, LoginRequest{EmployeeCode: "T001", Password: "nope"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("login ok", func(t *testing.T) {
		body := marchallObj(t, LoginRequest{EmployeeCode: "T001", Password: "s3cret"})
		req, rec := newRequest(http.MethodPost, "/api/auth/login", body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v, want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.Token == "" {
			t.Error("empty token")
		}

		// the token authenticates an API call
		req, rec = newAuthRequest(http.MethodGet, "/api/google/status", resp.Token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("authed request code = %v, want %v", rec.Code, http.StatusOK)
		}
	})
}

func Test_api_authRequired(t *testing.T) {
	resetState()

	paths := []string{
		"/api/bootstrap",
		"/api/context?studentId=x",
		"/api/drafts?studentKey=x",
		"/api/google/status",
		"/api/google/connect",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{
				wantCode: http.StatusUnauthorized,
				wantData: marchallObj(t, errMissingToken),
			}, rec)
		})
	}
}
