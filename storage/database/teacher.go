package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/jukulab/hansei/core/teacher"
)

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil)

func NewTeacherRepository(db *sqlx.DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) CreateTeacher(t teacher.Teacher) (teacher.Teacher, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO teachers (id, name, subject, email, employee_code, password_hash)
		VALUES (:id, :name, :subject, :email, :employee_code, :password_hash)`, t)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return t, nil
}

func (repo *teacherRepository) QueryAllTeachers() ([]teacher.Teacher, error) {
	teachers := make([]teacher.Teacher, 0)
	err := repo.db.Select(&teachers, `
		SELECT id, name, subject, email, employee_code, password_hash
		FROM teachers ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByID(id string) (teacher.Teacher, error) {
	var t teacher.Teacher
	err := repo.db.Get(&t, `
		SELECT id, name, subject, email, employee_code, password_hash
		FROM teachers WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return teacher.Teacher{}, teacher.ErrNotFound
	} else if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "getting teacher by id")
	}
	return t, nil
}

func (repo *teacherRepository) GetTeacherByEmployeeCode(code string) (teacher.Teacher, error) {
	var t teacher.Teacher
	err := repo.db.Get(&t, `
		SELECT id, name, subject, email, employee_code, password_hash
		FROM teachers WHERE employee_code = ?`, code)
	if err == sql.ErrNoRows {
		return teacher.Teacher{}, teacher.ErrNotFound
	} else if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "getting teacher by employee code")
	}
	return t, nil
}

func (repo *teacherRepository) SetTeacherPassword(id string, hash []byte) error {
	res, err := repo.db.Exec(`UPDATE teachers SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return errors.Wrap(err, "updating teacher password")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return teacher.ErrNotFound
	}
	return nil
}
