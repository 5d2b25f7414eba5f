package database

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/jukulab/hansei/core/teacher"
)

// defaultSeedPassword is assigned to seeded teachers that declare none.
const defaultSeedPassword = "password123"

type (
	teacherSeed struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Subject      string `json:"subject"`
		Email        string `json:"email"`
		EmployeeCode string `json:"employeeCode"`
		Password     string `json:"password"`
	}

	studentSeed struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Grade         string `json:"grade"`
		Memo          string `json:"memo"`
		DriveFolderID string `json:"driveFolderId"`
	}

	guardianSeed struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Relationship string `json:"relationship"`
		Email        string `json:"email"`
	}
)

// Seed imports the roster JSON files from dataDir into the database.
// Records whose id already exists are left untouched, so seeding is
// idempotent and safe to run at every boot.
func Seed(db *sqlx.DB, dataDir string) error {
	if err := seedTeachers(db, filepath.Join(dataDir, "teachers.json")); err != nil {
		return err
	}
	if err := seedStudents(db, filepath.Join(dataDir, "students.json")); err != nil {
		return err
	}
	if err := seedGuardians(db, filepath.Join(dataDir, "guardians.json")); err != nil {
		return err
	}
	return seedStudentGuardians(db, filepath.Join(dataDir, "student_guardians.json"))
}

// loadSeed fills out from the JSON file at path. A missing file is not an
// error: deployments without seed data simply skip that table.
func loadSeed(path string, out interface{}) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "reading seed %s", path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, errors.Wrapf(err, "decoding seed %s", path)
	}
	return true, nil
}

func seedTeachers(db *sqlx.DB, path string) error {
	var seeds []teacherSeed
	if ok, err := loadSeed(path, &seeds); !ok {
		return err
	}
	for _, s := range seeds {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.EmployeeCode == "" {
			s.EmployeeCode = s.ID
		}
		pwd := s.Password
		if pwd == "" {
			pwd = defaultSeedPassword
		}
		t := teacher.Teacher{
			ID:           s.ID,
			Name:         s.Name,
			Subject:      s.Subject,
			Email:        s.Email,
			EmployeeCode: s.EmployeeCode,
		}
		if err := t.SetPassword(pwd); err != nil {
			return errors.Wrap(err, "hashing seed password")
		}
		_, err := db.NamedExec(`
			INSERT OR IGNORE INTO teachers (id, name, subject, email, employee_code, password_hash)
			VALUES (:id, :name, :subject, :email, :employee_code, :password_hash)`, t)
		if err != nil {
			return errors.Wrap(err, "seeding teachers")
		}
	}
	return nil
}

func seedStudents(db *sqlx.DB, path string) error {
	var seeds []studentSeed
	if ok, err := loadSeed(path, &seeds); !ok {
		return err
	}
	for _, s := range seeds {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		_, err := db.Exec(`
			INSERT OR IGNORE INTO students (id, name, grade, memo, drive_folder_id)
			VALUES (?, ?, ?, ?, ?)`, s.ID, s.Name, s.Grade, s.Memo, s.DriveFolderID)
		if err != nil {
			return errors.Wrap(err, "seeding students")
		}
	}
	return nil
}

func seedGuardians(db *sqlx.DB, path string) error {
	var seeds []guardianSeed
	if ok, err := loadSeed(path, &seeds); !ok {
		return err
	}
	for _, s := range seeds {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		_, err := db.Exec(`
			INSERT OR IGNORE INTO guardians (id, name, relationship, email)
			VALUES (?, ?, ?, ?)`, s.ID, s.Name, s.Relationship, s.Email)
		if err != nil {
			return errors.Wrap(err, "seeding guardians")
		}
	}
	return nil
}

func seedStudentGuardians(db *sqlx.DB, path string) error {
	links := make(map[string][]string) // studentID -> guardianIDs
	if ok, err := loadSeed(path, &links); !ok {
		return err
	}
	for studentID, guardianIDs := range links {
		for _, guardianID := range guardianIDs {
			_, err := db.Exec(`
				INSERT OR IGNORE INTO student_guardians (student_id, guardian_id)
				VALUES (?, ?)`, studentID, guardianID)
			if err != nil {
				return errors.Wrap(err, "seeding student guardians")
			}
		}
	}
	return nil
}
