package database_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jukulab/hansei/storage/database"
	testutil "github.com/jukulab/hansei/tests"
)

func TestSeed(t *testing.T) {
	db := testutil.PrepareDB(t)
	dataDir := t.TempDir()

	writeSeed := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing seed %s: %v", name, err)
		}
	}

	writeSeed("teachers.json", `[
		{"id": "t-1", "name": "田中", "subject": "数学", "employeeCode": "T001"},
		{"name": "佐藤", "subject": "英語", "employeeCode": "T002", "password": "own-pass"}
	]`)
	writeSeed("students.json", `[
		{"id": "student-kenta", "name": "健太", "grade": "中2"}
	]`)
	writeSeed("guardians.json", `[
		{"id": "g-1", "name": "恵子", "relationship": "母", "email": "keiko@test.jp"}
	]`)
	writeSeed("student_guardians.json", `{"student-kenta": ["g-1"]}`)

	if err := database.Seed(db, dataDir); err != nil {
		t.Fatalf("database.Seed() error = %v", err)
	}

	teacherRepo := database.NewTeacherRepository(db)
	tchr, err := teacherRepo.GetTeacherByEmployeeCode("T001")
	if err != nil {
		t.Fatalf("GetTeacherByEmployeeCode() error = %v", err)
	}
	if err := tchr.CheckPassword(database.DefaultSeedPassword); err != nil {
		t.Errorf("seeded teacher does not have the default password: %v", err)
	}
	if tchr, err = teacherRepo.GetTeacherByEmployeeCode("T002"); err != nil {
		t.Fatalf("GetTeacherByEmployeeCode() error = %v", err)
	}
	if err := tchr.CheckPassword("own-pass"); err != nil {
		t.Errorf("seeded teacher does not have its declared password: %v", err)
	}

	studentRepo := database.NewStudentRepository(db)
	guardians, err := studentRepo.QueryGuardiansForStudent("student-kenta")
	if err != nil {
		t.Fatalf("QueryGuardiansForStudent() error = %v", err)
	}
	if len(guardians) != 1 || guardians[0].Email != "keiko@test.jp" {
		t.Errorf("guardians = %+v, want the seeded guardian", guardians)
	}

	// reseeding is idempotent and keeps existing rows untouched
	writeSeed("teachers.json", `[{"id": "t-1", "name": "別人", "employeeCode": "T001"}]`)
	if err := database.Seed(db, dataDir); err != nil {
		t.Fatalf("database.Seed() again error = %v", err)
	}
	if tchr, err = teacherRepo.GetTeacherByID("t-1"); err != nil {
		t.Fatalf("GetTeacherByID() error = %v", err)
	}
	if tchr.Name != "田中" {
		t.Errorf("reseed replaced existing teacher: name = %q", tchr.Name)
	}
}

func TestSeed_missingFilesAreSkipped(t *testing.T) {
	db := testutil.PrepareDB(t)

	if err := database.Seed(db, t.TempDir()); err != nil {
		t.Errorf("database.Seed() with no files error = %v", err)
	}
}
