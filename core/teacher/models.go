package teacher

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jukulab/hansei/core"
)

type Teacher struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Subject      string `json:"subject" db:"subject"`
	Email        string `json:"email" db:"email"`
	EmployeeCode string `json:"employee_code" db:"employee_code"`
	PasswordHash []byte `json:"-" db:"password_hash"`
}

func (t *Teacher) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	t.PasswordHash = hash
	return nil
}

func (t *Teacher) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(t.PasswordHash, []byte(pwd))
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	Name         string `json:"name" validate:"required"`
	Subject      string `json:"subject"`
	Email        string `json:"email" validate:"omitempty,email"`
	EmployeeCode string `json:"employee_code" validate:"required"`
	Password     string `json:"password" validate:"required"`
}

func (nt *NewTeacher) Clean() {
	nt.Name = core.CleanString(nt.Name)
	nt.Subject = core.CleanString(nt.Subject)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.EmployeeCode = core.CleanString(nt.EmployeeCode)
}
