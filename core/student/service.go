package student

import "errors"

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id string) (Student, error)
		UpsertStudent(s Student) error
		QueryGuardiansForStudent(studentID string) ([]Guardian, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

// ExistingIDs returns the set of student ids currently in use, for
// NewStudentID collision checks.
func (svc *Service) ExistingIDs() (map[string]struct{}, error) {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(students))
	for _, s := range students {
		ids[s.ID] = struct{}{}
	}
	return ids, nil
}

// Upsert creates or updates a student record. Empty incoming fields keep
// their stored value, so a submission never blanks grade/memo/folder id.
func (svc *Service) Upsert(s Student) (Student, error) {
	existing, err := svc.repo.GetStudentByID(s.ID)
	if err != nil && err != ErrNotFound {
		return Student{}, err
	}
	if err == nil {
		if s.Name == "" {
			s.Name = existing.Name
		}
		if s.Grade == "" {
			s.Grade = existing.Grade
		}
		if s.Memo == "" {
			s.Memo = existing.Memo
		}
		if s.DriveFolderID == "" {
			s.DriveFolderID = existing.DriveFolderID
		}
	}
	if err := svc.repo.UpsertStudent(s); err != nil {
		return Student{}, err
	}
	return s, nil
}

func (svc *Service) GuardiansFor(studentID string) ([]Guardian, error) {
	return svc.repo.QueryGuardiansForStudent(studentID)
}
