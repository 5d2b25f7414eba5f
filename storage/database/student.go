package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/jukulab/hansei/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	students := make([]student.Student, 0)
	err := repo.db.Select(&students, `
		SELECT id, name, grade, memo, drive_folder_id
		FROM students ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	var s student.Student
	err := repo.db.Get(&s, `
		SELECT id, name, grade, memo, drive_folder_id
		FROM students WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return student.Student{}, student.ErrNotFound
	} else if err != nil {
		return student.Student{}, errors.Wrap(err, "getting student by id")
	}
	return s, nil
}

func (repo *studentRepository) UpsertStudent(s student.Student) error {
	_, err := repo.db.NamedExec(`
		INSERT INTO students (id, name, grade, memo, drive_folder_id)
		VALUES (:id, :name, :grade, :memo, :drive_folder_id)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			grade = excluded.grade,
			memo = excluded.memo,
			drive_folder_id = excluded.drive_folder_id`, s)
	return errors.Wrap(err, "upserting student")
}

func (repo *studentRepository) QueryGuardiansForStudent(studentID string) ([]student.Guardian, error) {
	guardians := make([]student.Guardian, 0)
	err := repo.db.Select(&guardians, `
		SELECT g.id, g.name, g.relationship, g.email
		FROM guardians g
		INNER JOIN student_guardians sg ON sg.guardian_id = g.id
		WHERE sg.student_id = ?
		ORDER BY g.name`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying guardians")
	}
	return guardians, nil
}
