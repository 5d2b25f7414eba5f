// Package googlesvc connects the reflection pipeline to Google Workspace:
// Drive folders, Docs documents and Gmail delivery, authorized by a single
// OAuth-linked account whose token lives in a JSON file.
package googlesvc

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jukulab/hansei/core"
)

// Scopes granted during the OAuth flow.
var Scopes = []string{
	"https://www.googleapis.com/auth/drive.file",
	"https://www.googleapis.com/auth/documents",
	"https://www.googleapis.com/auth/gmail.send",
}

// ErrNotConnected means no OAuth token has been stored yet; the operator
// must complete the "connect Google" flow first.
var ErrNotConnected = errors.New("google account not connected")

// TokenStore persists the linked account's OAuth token as a JSON file.
type TokenStore struct {
	path string
	mu   sync.Mutex
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

func (ts *TokenStore) Load() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	raw, err := os.ReadFile(ts.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotConnected
		}
		return nil, errors.Wrap(err, "reading oauth token")
	}
	tok := new(oauth2.Token)
	if err := json.Unmarshal(raw, tok); err != nil {
		// treat a corrupt token file as not connected; re-linking fixes it
		return nil, ErrNotConnected
	}
	return tok, nil
}

func (ts *TokenStore) Save(tok *oauth2.Token) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	raw, err := json.Marshal(tok)
	if err != nil {
		return errors.Wrap(err, "encoding oauth token")
	}
	return errors.Wrap(os.WriteFile(ts.path, raw, 0o600), "writing oauth token")
}

func (ts *TokenStore) Connected() bool {
	_, err := ts.Load()
	return err == nil
}

// Client returns an http.Client that authorizes with the stored token,
// refreshing and re-persisting it as needed.
func (ts *TokenStore) Client(ctx context.Context, cfg *oauth2.Config) (*http.Client, error) {
	tok, err := ts.Load()
	if err != nil {
		return nil, err
	}
	src := &savingTokenSource{src: cfg.TokenSource(ctx, tok), store: ts, last: tok}
	return oauth2.NewClient(ctx, src), nil
}

// savingTokenSource writes refreshed tokens back to the store so restarts
// keep the linked account.
type savingTokenSource struct {
	src   oauth2.TokenSource
	store *TokenStore

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := s.last == nil || tok.AccessToken != s.last.AccessToken
	s.last = tok
	s.mu.Unlock()

	if changed {
		if err := s.store.Save(tok); err != nil {
			return nil, err
		}
	}
	return tok, nil
}

// OAuthConfig loads the OAuth client secret file configured in conf.
func OAuthConfig(conf *core.Config, redirectURL string) (*oauth2.Config, error) {
	raw, err := os.ReadFile(conf.Google.ClientSecretFile)
	if err != nil {
		return nil, errors.Wrapf(err, "reading oauth client secret %s", conf.Google.ClientSecretFile)
	}
	cfg, err := google.ConfigFromJSON(raw, Scopes...)
	if err != nil {
		return nil, errors.Wrap(err, "parsing oauth client secret")
	}
	cfg.RedirectURL = redirectURL
	return cfg, nil
}
