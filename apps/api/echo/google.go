package echoapi

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/jukulab/hansei/core"
	googlesvc "github.com/jukulab/hansei/services/google"
)

type googleApi struct {
	workspace *googlesvc.WorkspaceClient
	logger    core.Logger

	mu           sync.Mutex
	pendingState string
}

// registerGoogleAPI wires the account-linking flow. The OAuth callback is
// registered on the root router because Google redirects the operator's
// browser there without a bearer token.
func registerGoogleAPI(app *echo.Echo, g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := &googleApi{
		workspace: opts.Workspace,
		logger:    opts.Logger,
	}

	gg := g.Group("/google", jwt)
	gg.GET("/status", api.status)
	gg.GET("/connect", api.connect)

	app.GET("/oauth/callback", api.callback)
}

func (api *googleApi) redirectURL() string {
	base := strings.TrimSuffix(core.Conf.FrontendBaseURL, "/")
	return base + "/oauth/callback"
}

func (api *googleApi) status(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"connected": api.workspace.Tokens().Connected(),
	})
}

func (api *googleApi) connect(ctx echo.Context) error {
	cfg, err := googlesvc.OAuthConfig(core.Conf, api.redirectURL())
	if err != nil {
		return err
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return errors.Wrap(err, "generating oauth state")
	}
	state := hex.EncodeToString(buf)

	api.mu.Lock()
	api.pendingState = state
	api.mu.Unlock()

	url := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	return ctx.JSON(http.StatusOK, echo.Map{"authUrl": url})
}

func (api *googleApi) callback(ctx echo.Context) error {
	if errParam := ctx.QueryParam("error"); errParam != "" {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": "authorization denied: " + errParam})
	}

	state := ctx.QueryParam("state")
	api.mu.Lock()
	expected := api.pendingState
	api.pendingState = ""
	api.mu.Unlock()
	if state == "" || state != expected {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": "state mismatch"})
	}

	code := ctx.QueryParam("code")
	if code == "" {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"error": "missing authorization code"})
	}

	cfg, err := googlesvc.OAuthConfig(core.Conf, api.redirectURL())
	if err != nil {
		return err
	}
	tok, err := cfg.Exchange(ctx.Request().Context(), code)
	if err != nil {
		return errors.Wrap(err, "exchanging authorization code")
	}
	if err := api.workspace.Tokens().Save(tok); err != nil {
		return err
	}

	api.logger.Info("google account linked")
	return ctx.Redirect(http.StatusFound, core.Conf.FrontendBaseURL+"/?google=connected")
}
