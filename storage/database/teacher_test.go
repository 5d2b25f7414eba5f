package database_test

import (
	"testing"

	"github.com/jukulab/hansei/core/teacher"
	"github.com/jukulab/hansei/storage/database"
	testutil "github.com/jukulab/hansei/tests"
)

func TestTeacherRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := database.NewTeacherRepository(db)

	if _, err := repo.GetTeacherByID("nope"); err != teacher.ErrNotFound {
		t.Errorf("GetTeacherByID() error = %v, want %v", err, teacher.ErrNotFound)
	}
	if _, err := repo.GetTeacherByEmployeeCode("nope"); err != teacher.ErrNotFound {
		t.Errorf("GetTeacherByEmployeeCode() error = %v, want %v", err, teacher.ErrNotFound)
	}

	tchr := testutil.CreateTeacher(t, repo, "田中 一郎", "T001", "tanaka@school.test", "s3cret")

	got, err := repo.GetTeacherByID(tchr.ID)
	if err != nil {
		t.Fatalf("GetTeacherByID() error = %v", err)
	}
	if got.Name != tchr.Name || got.EmployeeCode != tchr.EmployeeCode {
		t.Errorf("GetTeacherByID() = %+v, want %+v", got, tchr)
	}
	if err := got.CheckPassword("s3cret"); err != nil {
		t.Errorf("CheckPassword() error = %v", err)
	}

	got, err = repo.GetTeacherByEmployeeCode("T001")
	if err != nil {
		t.Fatalf("GetTeacherByEmployeeCode() error = %v", err)
	}
	if got.ID != tchr.ID {
		t.Errorf("GetTeacherByEmployeeCode() id = %q, want %q", got.ID, tchr.ID)
	}

	all, err := repo.QueryAllTeachers()
	if err != nil {
		t.Fatalf("QueryAllTeachers() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("QueryAllTeachers() = %d teachers, want 1", len(all))
	}
}

func TestTeacherRepository_SetTeacherPassword(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := database.NewTeacherRepository(db)

	tchr := testutil.CreateTeacher(t, repo, "佐藤 花子", "T002", "sato@school.test", "old")

	if err := repo.SetTeacherPassword("nope", []byte("hash")); err != teacher.ErrNotFound {
		t.Errorf("SetTeacherPassword() error = %v, want %v", err, teacher.ErrNotFound)
	}

	updated := tchr
	if err := updated.SetPassword("new"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if err := repo.SetTeacherPassword(tchr.ID, updated.PasswordHash); err != nil {
		t.Fatalf("SetTeacherPassword() error = %v", err)
	}

	got, err := repo.GetTeacherByID(tchr.ID)
	if err != nil {
		t.Fatalf("GetTeacherByID() error = %v", err)
	}
	if err := got.CheckPassword("new"); err != nil {
		t.Errorf("CheckPassword(new) error = %v", err)
	}
	if err := got.CheckPassword("old"); err == nil {
		t.Error("CheckPassword(old) still succeeds")
	}
}
