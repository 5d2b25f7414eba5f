package student

import (
	"fmt"
	"regexp"
	"strings"
)

// KeySeparator joins a teacher id and a student identifier into a student
// key. Neither component may contain it: teacher ids are UUIDs or seed ids,
// student identifiers come out of NewStudentID.
const KeySeparator = "__"

var nonAlnumRx = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases name, collapses every run of non-alphanumeric
// characters to a single "-" and trims leading/trailing dashes. Falls back
// to "student" when nothing is left.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonAlnumRx.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "student"
	}
	return s
}

// NewStudentID derives a free identifier of the form "student-<slug>",
// appending "-1", "-2", ... until it does not collide with existing.
// Pure for a fixed existing set: the same inputs always yield the same id.
func NewStudentID(name string, existing map[string]struct{}) string {
	base := "student-" + Slugify(name)
	candidate := base
	for index := 1; ; index++ {
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, index)
	}
}

// BuildStudentKey scopes drafts and history to a teacher/student pair.
// Deterministic: the same pair always resolves to the same key.
func BuildStudentKey(teacherID, identifier string) string {
	return teacherID + KeySeparator + identifier
}
