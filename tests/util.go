package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/jukulab/hansei/core"
	"github.com/jukulab/hansei/core/teacher"
	"github.com/jukulab/hansei/storage/database"
)

// PrepareDB opens a throwaway migrated database under t.TempDir().
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conf := *core.Conf
	conf.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := database.Open(&conf)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func CreateTeacher(t *testing.T, repo teacher.Repository, name, code, email, pwd string) teacher.Teacher {
	t.Helper()

	tchr := teacher.Teacher{
		ID:           code, // deterministic ids keep assertions simple
		Name:         name,
		EmployeeCode: code,
		Email:        email,
	}
	if pwd != "" {
		if err := tchr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateTeacher() failed: %v", err)
		}
	}
	tchr, err := repo.CreateTeacher(tchr)
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tchr
}
