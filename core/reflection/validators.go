package reflection

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/jukulab/hansei/core"
)

// Student selection modes.
const (
	ModeExisting = "existing"
	ModeNew      = "new"
)

// SubmissionInput is the validated form data handed to Submit.
type SubmissionInput struct {
	Mode string `json:"studentMode" validate:"omitempty,oneof=existing new"`

	// existing mode
	StudentID string `json:"studentId"`

	// new mode
	NewStudentName  string `json:"newStudentName"`
	NewStudentGrade string `json:"newStudentGrade"`
	NewStudentMemo  string `json:"newStudentMemo"`

	// optional pins handed out by Context; keep drafts/history addressable
	// for students whose identifier was allocated before submission
	StudentKey        string `json:"studentKey"`
	StudentIdentifier string `json:"studentIdentifier"`

	CopyPrevious bool `json:"copyPrevious"`

	LessonDate      string `json:"lessonDate"`
	LessonGoal      string `json:"lessonGoal"`
	LessonSummary   string `json:"lessonSummary"`
	StudentReaction string `json:"studentReaction"`
	NextActions     string `json:"nextActions"`
	Memo            string `json:"memo"`
}

func (in *SubmissionInput) Validate(validate *validator.Validate) error {
	if in.Mode == "" {
		in.Mode = ModeExisting
	}
	in.NewStudentName = core.CleanString(in.NewStudentName)

	if err := validate.Struct(in); err != nil {
		return err
	}
	switch in.Mode {
	case ModeExisting:
		if in.StudentID == "" {
			return core.NewValidationError(errors.New("missing student"),
				core.FieldError{Field: "studentId", Error: "select a student"})
		}
	case ModeNew:
		if in.NewStudentName == "" {
			return core.NewValidationError(errors.New("missing student name"),
				core.FieldError{Field: "newStudentName", Error: "enter the new student's name"})
		}
	}
	return nil
}

// ContextInput selects the student whose editing context is requested.
type ContextInput struct {
	Mode         string `query:"mode"`
	StudentID    string `query:"studentId"`
	StudentName  string `query:"studentName"`
	CopyPrevious bool   `query:"copyPrevious"`
}

func (in *ContextInput) Validate(_ *validator.Validate) error {
	if in.Mode == "" {
		in.Mode = ModeExisting
	}
	in.StudentID = core.CleanString(in.StudentID)
	in.StudentName = core.CleanString(in.StudentName)

	switch in.Mode {
	case ModeExisting:
		if in.StudentID == "" {
			return core.NewValidationError(errors.New("missing student"),
				core.FieldError{Field: "studentId", Error: "studentId is required"})
		}
	case ModeNew:
		if in.StudentName == "" {
			return core.NewValidationError(errors.New("missing student name"),
				core.FieldError{Field: "studentName", Error: "studentName is required"})
		}
	default:
		return core.NewValidationError(errors.New("unknown mode"),
			core.FieldError{Field: "mode", Error: "must be one of: existing, new"})
	}
	return nil
}
