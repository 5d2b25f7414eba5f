package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/jukulab/hansei/core"
	"github.com/jukulab/hansei/core/reflection"
	"github.com/jukulab/hansei/core/student"
	"github.com/jukulab/hansei/core/teacher"
)

type reflectionApi struct {
	svc        *reflection.Service
	teacherSvc *teacher.Service
	studentSvc *student.Service
}

func registerReflectionAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := reflectionApi{
		svc:        opts.ReflectionSvc,
		teacherSvc: opts.TeacherSvc,
		studentSvc: opts.StudentSvc,
	}

	ag := g.Group("", jwt)
	ag.GET("/bootstrap", api.bootstrap)
	ag.GET("/context", api.context)
	ag.GET("/drafts", api.getDraft)
	ag.POST("/drafts", api.saveDraft)
	ag.POST("/submissions", api.submit)
}

// bootstrap returns everything the form needs to render.
func (api *reflectionApi) bootstrap(ctx echo.Context) error {
	tchr, err := getContextTeacher(ctx, api.teacherSvc)
	if err != nil {
		return err
	}

	teachers, err := api.teacherSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	students, err := api.studentSvc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	parentID := core.Conf.Google.DriveParentID
	payload := echo.Map{
		"teachers":           teachers,
		"students":           students,
		"currentTeacher":     tchr,
		"fixedDriveParentId": parentID,
	}
	if parentID != "" {
		payload["fixedDriveFolderLink"] = "https://drive.google.com/drive/folders/" + parentID
	}
	return ctx.JSON(http.StatusOK, payload)
}

func (api *reflectionApi) context(ctx echo.Context) error {
	tchr, err := getContextTeacher(ctx, api.teacherSvc)
	if err != nil {
		return err
	}

	var in reflection.ContextInput
	if err := ctx.Bind(&in); err != nil {
		return errors.Wrap(err, "binding to ContextInput")
	}

	info, err := api.svc.Context(tchr, in)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, info)
}

type saveDraftRequest struct {
	StudentKey string             `json:"studentKey"`
	Payload    reflection.Payload `json:"payload"`
}

func (api *reflectionApi) saveDraft(ctx echo.Context) error {
	var data saveDraftRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to saveDraftRequest")
	}
	if data.StudentKey == "" {
		return core.NewValidationError(errors.New("missing studentKey"),
			core.FieldError{Field: "studentKey", Error: "studentKey is required"})
	}

	draft, err := api.svc.SaveDraft(data.StudentKey, data.Payload)
	if err != nil {
		return errors.Wrap(err, "saving draft")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"status": "saved", "updatedAt": draft.UpdatedAt})
}

func (api *reflectionApi) getDraft(ctx echo.Context) error {
	key := ctx.QueryParam("studentKey")
	if key == "" {
		return core.NewValidationError(errors.New("missing studentKey"),
			core.FieldError{Field: "studentKey", Error: "studentKey is required"})
	}

	draft, err := api.svc.Draft(key)
	if err == reflection.ErrDraftNotFound {
		return ctx.JSON(http.StatusOK, echo.Map{"draft": nil})
	} else if err != nil {
		return errors.Wrap(err, "loading draft")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"draft": draft})
}

func (api *reflectionApi) submit(ctx echo.Context) error {
	tchr, err := getContextTeacher(ctx, api.teacherSvc)
	if err != nil {
		return err
	}

	var in reflection.SubmissionInput
	if err := ctx.Bind(&in); err != nil {
		return errors.Wrap(err, "binding to SubmissionInput")
	}

	result, err := api.svc.Submit(ctx.Request().Context(), tchr, in)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, result)
}
