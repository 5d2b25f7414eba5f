package reflection

import (
	"errors"
	"time"
)

var (
	ErrDraftNotFound = errors.New("draft not found")
	ErrNoHistory     = errors.New("no submission history")
)

// Payload is the flattened, rendered-ready form content of one lesson
// reflection. JSON keys double as template field names.
type Payload struct {
	TeacherID       string `json:"teacher_id"`
	TeacherName     string `json:"teacher_name"`
	TeacherSubject  string `json:"teacher_subject"`
	StudentName     string `json:"student_name"`
	StudentGrade    string `json:"student_grade"`
	LessonDate      string `json:"lesson_date"`
	LessonGoal      string `json:"lesson_goal"`
	LessonSummary   string `json:"lesson_summary"`
	StudentReaction string `json:"student_reaction"`
	NextActions     string `json:"next_actions"`
	Memo            string `json:"memo"`
}

// TemplateContext exposes the payload to the reflection template under its
// JSON field names.
func (p Payload) TemplateContext() map[string]string {
	return map[string]string{
		"teacher_id":       p.TeacherID,
		"teacher_name":     p.TeacherName,
		"teacher_subject":  p.TeacherSubject,
		"student_name":     p.StudentName,
		"student_grade":    p.StudentGrade,
		"lesson_date":      p.LessonDate,
		"lesson_goal":      p.LessonGoal,
		"lesson_summary":   p.LessonSummary,
		"student_reaction": p.StudentReaction,
		"next_actions":     p.NextActions,
		"memo":             p.Memo,
	}
}

// Draft is the single-slot staged (unsubmitted) form payload for a student
// key. At most one exists per key; saving overwrites it.
type Draft struct {
	StudentKey string    `json:"studentKey"`
	Payload    Payload   `json:"payload"`
	UpdatedAt  time.Time `json:"updatedAt"` // UTC
}

// HistoryEntry is one accepted submission in a student key's bounded log.
type HistoryEntry struct {
	Payload Payload   `json:"payload"`
	SavedAt time.Time `json:"savedAt"` // UTC
}

type (
	// DraftStore is single-slot durable staging: overwrite on save, delete
	// on successful submission. Delete on an absent key is not an error.
	DraftStore interface {
		SaveDraft(key string, payload Payload) (Draft, error)
		GetDraft(key string) (Draft, error) // ErrDraftNotFound when absent
		DeleteDraft(key string) error
	}

	// HistoryStore is an append-only, size-bounded log per student key,
	// backing "copy previous submission".
	HistoryStore interface {
		AppendHistory(key string, payload Payload) error
		LastEntry(key string) (HistoryEntry, error) // ErrNoHistory when absent/empty
	}
)
