package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jukulab/hansei/core/reflection"
	"github.com/jukulab/hansei/core/student"
)

func seedStudent(t *testing.T, id, name, grade, folderID string, guardians ...student.Guardian) {
	t.Helper()
	if err := studentRepo.UpsertStudent(student.Student{ID: id, Name: name, Grade: grade, DriveFolderID: folderID}); err != nil {
		t.Fatalf("seedStudent(): %v", err)
	}
	if len(guardians) > 0 {
		if studentRepo.guardians == nil {
			studentRepo.guardians = make(map[string][]student.Guardian)
		}
		studentRepo.guardians[id] = guardians
	}
}

func Test_reflectionApi_bootstrap(t *testing.T) {
	resetState()
	tchr := createTeacher(t, "田中", "T001", "tanaka@test.jp", "s3cret")
	seedStudent(t, "student-kenta", "健太", "中2", "")

	req, rec := newAuthRequest(http.MethodGet, "/api/bootstrap", getToken(t, tchr))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Teachers             []json.RawMessage `json:"teachers"`
		Students             []json.RawMessage `json:"students"`
		CurrentTeacher       struct{ ID string } `json:"currentTeacher"`
		FixedDriveParentID   string `json:"fixedDriveParentId"`
		FixedDriveFolderLink string `json:"fixedDriveFolderLink"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(body.Teachers) != 1 || len(body.Students) != 1 {
		t.Errorf("teachers = %d, students = %d; want 1 and 1", len(body.Teachers), len(body.Students))
	}
	if body.CurrentTeacher.ID != tchr.ID {
		t.Errorf("currentTeacher.id = %q, want %q", body.CurrentTeacher.ID, tchr.ID)
	}
	if body.FixedDriveParentID != "parent-1" {
		t.Errorf("fixedDriveParentId = %q, want %q", body.FixedDriveParentID, "parent-1")
	}
	if body.FixedDriveFolderLink != "https://drive.google.com/drive/folders/parent-1" {
		t.Errorf("fixedDriveFolderLink = %q", body.FixedDriveFolderLink)
	}
}

func Test_reflectionApi_drafts(t *testing.T) {
	resetState()
	tchr := createTeacher(t, "田中", "T001", "tanaka@test.jp", "s3cret")
	token := getToken(t, tchr)

	key := tchr.ID + "__student-kenta"

	t.Run("absent draft is null", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/drafts?studentKey="+key, token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: []byte(`{"draft": null}`),
		}, rec)
	})

	t.Run("missing key is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/drafts", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v, want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("save then load", func(t *testing.T) {
		body := marchallObj(t, map[string]interface{}{
			"studentKey": key,
			"payload":    reflection.Payload{LessonGoal: "staged goal"},
		})
		req, rec := newAuthRequest(http.MethodPost, "/api/drafts", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("save code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/api/drafts?studentKey="+key, token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("load code = %v; body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Draft *reflection.Draft `json:"draft"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.Draft == nil || resp.Draft.Payload.LessonGoal != "staged goal" {
			t.Errorf("draft = %+v, want the staged payload", resp.Draft)
		}
	})
}

func Test_reflectionApi_context(t *testing.T) {
	resetState()
	tchr := createTeacher(t, "田中", "T001", "tanaka@test.jp", "s3cret")
	seedStudent(t, "student-kenta", "健太", "中2", "")
	token := getToken(t, tchr)

	req, rec := newAuthRequest(http.MethodGet, "/api/context?mode=existing&studentId=student-kenta", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var info reflection.ContextInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if want := tchr.ID + "__student-kenta"; info.StudentKey != want {
		t.Errorf("studentKey = %q, want %q", info.StudentKey, want)
	}
	if info.StudentIdentifier != "student-kenta" {
		t.Errorf("studentIdentifier = %q", info.StudentIdentifier)
	}

	// unknown mode is rejected
	req, rec = newAuthRequest(http.MethodGet, "/api/context?mode=lol", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %v, want %v", rec.Code, http.StatusBadRequest)
	}
}

func Test_reflectionApi_submit(t *testing.T) {
	resetState()
	tchr := createTeacher(t, "田中", "T001", "tanaka@test.jp", "s3cret")
	seedStudent(t, "student-kenta", "健太", "中2", "",
		student.Guardian{ID: "g-1", Name: "恵子", Email: "keiko@test.jp"})
	token := getToken(t, tchr)

	body := marchallObj(t, reflection.SubmissionInput{
		Mode:          "existing",
		StudentID:     "student-kenta",
		LessonDate:    "2026-09-01",
		LessonGoal:    "二次関数",
		LessonSummary: "平方完成を練習した",
	})
	req, rec := newAuthRequest(http.MethodPost, "/api/submissions", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}

	var res reflection.SubmissionResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if res.Document.Name != "健太_2026-09-01" {
		t.Errorf("document name = %q", res.Document.Name)
	}
	if want := tchr.ID + "__student-kenta"; res.StudentKey != want {
		t.Errorf("studentKey = %q, want %q", res.StudentKey, want)
	}
	if len(res.GuardianNotifications) != 1 || res.GuardianNotifications[0].Status != reflection.NotificationSent {
		t.Errorf("notifications = %+v, want one sent", res.GuardianNotifications)
	}
	if docs.createDocCalls != 1 {
		t.Errorf("CreateDocument calls = %d, want 1", docs.createDocCalls)
	}
	if len(docs.shared) != 1 || docs.shared[0] != "keiko@test.jp" {
		t.Errorf("shared with %v, want the guardian", docs.shared)
	}
	// no cached folder: resolved one got persisted on the student
	st, err := studentRepo.GetStudentByID("student-kenta")
	if err != nil {
		t.Fatalf("GetStudentByID(): %v", err)
	}
	if st.DriveFolderID != "folder-new" {
		t.Errorf("cached folder id = %q, want %q", st.DriveFolderID, "folder-new")
	}

	t.Run("missing student id fails validation", func(t *testing.T) {
		body := marchallObj(t, reflection.SubmissionInput{Mode: "existing"})
		req, rec := newAuthRequest(http.MethodPost, "/api/submissions", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v, want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})
}

func Test_googleApi_status(t *testing.T) {
	resetState()
	tchr := createTeacher(t, "田中", "T001", "tanaka@test.jp", "s3cret")

	req, rec := newAuthRequest(http.MethodGet, "/api/google/status", getToken(t, tchr))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: []byte(`{"connected": false}`),
	}, rec)
}
