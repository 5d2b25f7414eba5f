package reflection

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/jukulab/hansei/core"
	"github.com/jukulab/hansei/core/student"
	"github.com/jukulab/hansei/core/teacher"
)

// Stage names the step of the submission pipeline a failure happened in.
type Stage string

const (
	StageValidating      Stage = "validating"
	StageRendering       Stage = "rendering"
	StageCompiling       Stage = "compiling"
	StageResolvingFolder Stage = "resolving-folder"
	StageWritingDocument Stage = "writing-document"
	StagePersistingState Stage = "persisting-state"
)

// SubmissionError is the terminal failure of a submission. Failures up to
// and including StageWritingDocument leave drafts and history untouched.
type SubmissionError struct {
	Stage Stage
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed while %s: %v", e.Stage, e.Err)
}

func (e *SubmissionError) Cause() error  { return e.Err }
func (e *SubmissionError) Unwrap() error { return e.Err }

func failAt(stage Stage, err error) error {
	return &SubmissionError{Stage: stage, Err: err}
}

type NotificationStatus string

const (
	NotificationSent    NotificationStatus = "sent"
	NotificationSkipped NotificationStatus = "skipped"
	NotificationFailed  NotificationStatus = "failed"
)

// GuardianNotification reports the delivery outcome for one guardian.
type GuardianNotification struct {
	Guardian student.Guardian   `json:"guardian"`
	Status   NotificationStatus `json:"status"`
	Reason   string             `json:"reason,omitempty"`
}

// SubmissionResult is returned to the caller on success, alongside the
// per-guardian notification report.
type SubmissionResult struct {
	Document              DocumentMeta           `json:"document"`
	Student               student.Student        `json:"student"`
	Teacher               teacher.Teacher        `json:"teacher"`
	StudentKey            string                 `json:"studentKey"`
	SavedAt               time.Time              `json:"savedAt"`
	CopyPreviousUsed      bool                   `json:"copyPreviousUsed"`
	GuardianNotifications []GuardianNotification `json:"guardianNotifications"`
	FolderLink            string                 `json:"folderLink"`
}

// ContextInfo is the editing context handed to the form for one student
// key: its draft (if any), the last accepted submission (on request) and
// the blank template fields.
type ContextInfo struct {
	StudentKey        string            `json:"studentKey"`
	StudentIdentifier string            `json:"studentIdentifier"`
	Draft             *Draft            `json:"draft"`
	Previous          *HistoryEntry     `json:"previous"`
	TemplateFields    map[string]string `json:"templateFields"`
}

type Service struct {
	conf     *core.Config
	logger   core.Logger
	validate *validator.Validate
	renderer Renderer
	docs     DocumentService
	drafts   DraftStore
	history  HistoryStore
	students *student.Service
	mail     core.EmailService
}

func NewService(
	conf *core.Config,
	logger core.Logger,
	validate *validator.Validate,
	renderer Renderer,
	docs DocumentService,
	drafts DraftStore,
	history HistoryStore,
	students *student.Service,
	mailSvc core.EmailService,
) *Service {
	return &Service{
		conf:     conf,
		logger:   logger,
		validate: validate,
		renderer: renderer,
		docs:     docs,
		drafts:   drafts,
		history:  history,
		students: students,
		mail:     mailSvc,
	}
}

func (svc *Service) SaveDraft(key string, payload Payload) (Draft, error) {
	return svc.drafts.SaveDraft(key, payload)
}

func (svc *Service) Draft(key string) (Draft, error) {
	return svc.drafts.GetDraft(key)
}

// Context resolves the student key for the requested student (allocating a
// fresh identifier in "new" mode) and loads its draft and, on request, the
// previous submission.
func (svc *Service) Context(tchr teacher.Teacher, in ContextInput) (*ContextInfo, error) {
	if err := in.Validate(svc.validate); err != nil {
		return nil, err
	}

	identifier := in.StudentID
	if in.Mode == ModeNew {
		existing, err := svc.students.ExistingIDs()
		if err != nil {
			return nil, errors.Wrap(err, "listing student ids")
		}
		identifier = student.NewStudentID(in.StudentName, existing)
	}
	key := student.BuildStudentKey(tchr.ID, identifier)

	info := &ContextInfo{
		StudentKey:        key,
		StudentIdentifier: identifier,
		TemplateFields:    blankTemplateFields(),
	}

	if draft, err := svc.drafts.GetDraft(key); err == nil {
		info.Draft = &draft
	} else if err != ErrDraftNotFound {
		return nil, errors.Wrap(err, "loading draft")
	}

	if in.CopyPrevious {
		if entry, err := svc.history.LastEntry(key); err == nil {
			info.Previous = &entry
		} else if err != ErrNoHistory {
			return nil, errors.Wrap(err, "loading last submission")
		}
	}
	return info, nil
}

// Submit runs the full pipeline for a validated teacher:
// validate → render → compile → resolve folder → write document →
// persist state → notify guardians (best-effort).
func (svc *Service) Submit(ctx context.Context, tchr teacher.Teacher, in SubmissionInput) (*SubmissionResult, error) {
	// Validating
	if err := in.Validate(svc.validate); err != nil {
		return nil, failAt(StageValidating, err)
	}
	st, identifier, err := svc.resolveStudent(in)
	if err != nil {
		return nil, failAt(StageValidating, err)
	}

	key := in.StudentKey
	if key == "" {
		key = student.BuildStudentKey(tchr.ID, identifier)
	}
	payload := buildPayload(in, tchr, st)

	// Rendering
	text, err := svc.renderer.Render(payload.TemplateContext())
	if err != nil {
		return nil, failAt(StageRendering, err)
	}
	blocks := ParseBlocks(text)

	// Compiling
	ops := CompileBlocks(blocks)

	// ResolvingFolder
	folderID, err := svc.ensureStudentFolder(ctx, st.Name, st.DriveFolderID, svc.conf.Google.DriveParentID)
	if err != nil {
		return nil, failAt(StageResolvingFolder, err)
	}

	// WritingDocument
	title := st.Name + "_" + payload.LessonDate
	meta, err := svc.docs.CreateDocument(ctx, title, ops, folderID)
	if err != nil {
		return nil, failAt(StageWritingDocument, err)
	}

	// PersistingState: bind the resolved folder to the student, record the
	// accepted payload, drop the staged draft.
	st.DriveFolderID = folderID
	st, err = svc.students.Upsert(st)
	if err != nil {
		return nil, failAt(StagePersistingState, errors.Wrap(err, "upserting student"))
	}
	if err := svc.history.AppendHistory(key, payload); err != nil {
		return nil, failAt(StagePersistingState, errors.Wrap(err, "appending history"))
	}
	if err := svc.drafts.DeleteDraft(key); err != nil {
		return nil, failAt(StagePersistingState, errors.Wrap(err, "deleting draft"))
	}

	// NotifyingGuardians: failures are logged per guardian, never rolled back.
	notifications := svc.notifyGuardians(ctx, st, tchr, meta, payload)

	return &SubmissionResult{
		Document:              meta,
		Student:               st,
		Teacher:               tchr,
		StudentKey:            key,
		SavedAt:               time.Now().UTC(),
		CopyPreviousUsed:      in.CopyPrevious,
		GuardianNotifications: notifications,
		FolderLink:            folderLink(folderID),
	}, nil
}

func (svc *Service) resolveStudent(in SubmissionInput) (student.Student, string, error) {
	if in.Mode == ModeExisting {
		st, err := svc.students.GetByID(in.StudentID)
		if err == student.ErrNotFound {
			return student.Student{}, "", core.NewValidationError(errors.New("unknown student"),
				core.FieldError{Field: "studentId", Error: "select a student"})
		} else if err != nil {
			return student.Student{}, "", errors.Wrap(err, "loading student")
		}
		identifier := st.ID
		// the client may pin the identifier it was handed at context time
		if in.StudentIdentifier != "" && in.StudentIdentifier != identifier {
			identifier = in.StudentIdentifier
		}
		return st, identifier, nil
	}

	existing, err := svc.students.ExistingIDs()
	if err != nil {
		return student.Student{}, "", errors.Wrap(err, "listing student ids")
	}
	identifier := in.StudentIdentifier
	if identifier == "" {
		identifier = student.NewStudentID(in.NewStudentName, existing)
	}
	st := student.Student{
		ID:    identifier,
		Name:  in.NewStudentName,
		Grade: in.NewStudentGrade,
		Memo:  in.NewStudentMemo,
	}
	return st, identifier, nil
}

// ensureStudentFolder is the idempotent find-or-create of the per-student
// folder. A cached id short-circuits without a remote call. Two concurrent
// first-time submissions for the same student may both create a folder;
// callers cache the resolved id right after the first success, which makes
// every later call idempotent.
func (svc *Service) ensureStudentFolder(ctx context.Context, studentName, cachedFolderID, parentID string) (string, error) {
	if cachedFolderID != "" {
		return cachedFolderID, nil
	}
	id, err := svc.docs.FindFolder(ctx, studentName, parentID)
	if err != nil {
		return "", errors.Wrap(err, "finding student folder")
	}
	if id != "" {
		return id, nil
	}
	id, err = svc.docs.CreateFolder(ctx, studentName, parentID)
	if err != nil {
		return "", errors.Wrap(err, "creating student folder")
	}
	return id, nil
}

// notifyGuardians shares the document with the student's primary guardian
// and mails them a summary. Only the first linked guardian is notified.
func (svc *Service) notifyGuardians(
	ctx context.Context,
	st student.Student,
	tchr teacher.Teacher,
	meta DocumentMeta,
	payload Payload,
) []GuardianNotification {
	guardians, err := svc.students.GuardiansFor(st.ID)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("listing guardians for %s: %v", st.ID, err), err)
		return nil
	}
	if len(guardians) == 0 {
		svc.logger.Info(fmt.Sprintf("no guardians linked to student %s", st.ID))
		return nil
	}
	guardians = guardians[:1]

	notifications := make([]GuardianNotification, 0, len(guardians))
	for _, g := range guardians {
		email := core.CleanString(g.Email)
		if email == "" {
			notifications = append(notifications, GuardianNotification{
				Guardian: g, Status: NotificationSkipped, Reason: "missing_email",
			})
			continue
		}

		if err := svc.docs.ShareDocument(ctx, meta.ID, email, true /* allowComment */); err != nil {
			svc.logger.Warn(fmt.Sprintf("permission grant failed for %s: %v", email, err), err)
			notifications = append(notifications, GuardianNotification{
				Guardian: g, Status: NotificationFailed, Reason: fmt.Sprintf("permission: %v", err),
			})
			continue
		}

		msg := buildGuardianEmail(g, st, tchr, meta, payload)
		if err := svc.mail.SendMessage(msg); err != nil {
			svc.logger.Error(fmt.Sprintf("sending guardian email to %s: %v", email, err), err)
			notifications = append(notifications, GuardianNotification{
				Guardian: g, Status: NotificationFailed, Reason: err.Error(),
			})
			continue
		}
		notifications = append(notifications, GuardianNotification{Guardian: g, Status: NotificationSent})
	}
	return notifications
}

func buildGuardianEmail(
	g student.Guardian,
	st student.Student,
	tchr teacher.Teacher,
	meta DocumentMeta,
	payload Payload,
) *core.EmailMessage {
	summary := core.CleanString(payload.LessonSummary)
	if summary == "" {
		summary = "（記入なし）"
	}
	nextActions := core.CleanString(payload.NextActions)
	if nextActions == "" {
		nextActions = "（記入なし）"
	}

	body := strings.Join([]string{
		g.Name + " 様",
		"",
		"いつもお世話になっております。",
		tchr.Name + "です。",
		"",
		st.Name + "さんの授業振り返りシートを作成しました。",
		"以下のリンクよりご確認ください: " + meta.ViewURL,
		"",
		"◆ 授業日: " + payload.LessonDate,
		"◆ 概要: " + summary,
		"◆ 次回に向けて: " + nextActions,
		"",
		"ご不明な点がございましたらお気軽にご連絡ください。",
	}, "\n")

	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: g.Name, Address: g.Email}},
		Subject: fmt.Sprintf("%sさんの授業振り返り（%s）", st.Name, payload.LessonDate),
		BodyStr: body,
	}
	if tchr.Email != "" {
		msg.From = &mail.Address{Name: tchr.Name, Address: tchr.Email}
	}
	return msg
}

func buildPayload(in SubmissionInput, tchr teacher.Teacher, st student.Student) Payload {
	lessonDate := in.LessonDate
	if lessonDate == "" {
		lessonDate = time.Now().Format("2006-01-02")
	}
	return Payload{
		TeacherID:       tchr.ID,
		TeacherName:     tchr.Name,
		TeacherSubject:  tchr.Subject,
		StudentName:     st.Name,
		StudentGrade:    st.Grade,
		LessonDate:      lessonDate,
		LessonGoal:      core.CleanString(in.LessonGoal),
		LessonSummary:   core.CleanString(in.LessonSummary),
		StudentReaction: core.CleanString(in.StudentReaction),
		NextActions:     core.CleanString(in.NextActions),
		Memo:            core.CleanString(in.Memo),
	}
}

func blankTemplateFields() map[string]string {
	return map[string]string{
		"lesson_date":      time.Now().Format("2006-01-02"),
		"lesson_goal":      "",
		"lesson_summary":   "",
		"student_reaction": "",
		"next_actions":     "",
		"memo":             "",
	}
}

func folderLink(folderID string) string {
	if folderID == "" {
		return ""
	}
	return "https://drive.google.com/drive/folders/" + folderID
}
