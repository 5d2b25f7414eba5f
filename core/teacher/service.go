package teacher

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("teacher not found")
	ErrEmployeeCodeExists = errors.New("a teacher with this employee code already exists")
)

type (
	Repository interface {
		CreateTeacher(t Teacher) (Teacher, error)
		QueryAllTeachers() ([]Teacher, error)
		GetTeacherByID(id string) (Teacher, error)
		GetTeacherByEmployeeCode(code string) (Teacher, error)
		SetTeacherPassword(id string, hash []byte) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nt NewTeacher) (Teacher, error) {
	nt.Clean()
	if _, err := svc.repo.GetTeacherByEmployeeCode(nt.EmployeeCode); err == nil {
		return Teacher{}, ErrEmployeeCodeExists
	} else if err != ErrNotFound {
		return Teacher{}, err
	}

	t := Teacher{
		ID:           uuid.NewString(),
		Name:         nt.Name,
		Subject:      nt.Subject,
		Email:        nt.Email,
		EmployeeCode: nt.EmployeeCode,
	}
	if err := t.SetPassword(nt.Password); err != nil {
		return Teacher{}, err
	}
	return svc.repo.CreateTeacher(t)
}

func (svc *Service) QueryAll() ([]Teacher, error) {
	return svc.repo.QueryAllTeachers()
}

func (svc *Service) GetByID(id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(id)
}

func (svc *Service) GetByEmployeeCode(code string) (Teacher, error) {
	return svc.repo.GetTeacherByEmployeeCode(code)
}

// Authenticate checks the employee code / password pair and returns the
// matching Teacher. Lookup and password failures are indistinguishable to
// the caller on purpose.
func (svc *Service) Authenticate(code, pwd string) (Teacher, error) {
	t, err := svc.repo.GetTeacherByEmployeeCode(code)
	if err != nil {
		return Teacher{}, ErrNotFound
	}
	if err := t.CheckPassword(pwd); err != nil {
		return Teacher{}, ErrNotFound
	}
	return t, nil
}

func (svc *Service) ResetPassword(code, pwd string) error {
	t, err := svc.repo.GetTeacherByEmployeeCode(code)
	if err != nil {
		return err
	}
	if err := t.SetPassword(pwd); err != nil {
		return err
	}
	return svc.repo.SetTeacherPassword(t.ID, t.PasswordHash)
}
