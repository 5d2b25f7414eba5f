package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/jukulab/hansei/core"
	"github.com/jukulab/hansei/core/teacher"
)

type authApi struct {
	svc *teacher.Service
}

func registerAuthAPI(g *echo.Group, opts *Options) {
	api := authApi{svc: opts.TeacherSvc}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
}

type (
	LoginRequest struct {
		EmployeeCode string `json:"employeeCode" validate:"required"`
		Password     string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}
)

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	data.EmployeeCode = core.CleanString(data.EmployeeCode)
	if data.EmployeeCode == "" || data.Password == "" {
		return errAuthenticationFailed
	}

	tchr, err := api.svc.Authenticate(data.EmployeeCode, data.Password)
	if err != nil {
		if err == teacher.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating")
	}

	token, err := GenerateToken(GetTeacherClaims(tchr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}
