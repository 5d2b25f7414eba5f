package googlesvc

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/jukulab/hansei/core"
	"github.com/jukulab/hansei/core/reflection"
)

const folderMimeType = "application/vnd.google-apps.folder"

// WorkspaceClient implements reflection.DocumentService on the Drive and
// Docs APIs. Underlying services are built per call so the token linkage
// is checked on every operation, not once at boot.
type WorkspaceClient struct {
	conf   *core.Config
	tokens *TokenStore
	logger core.Logger
}

var _ reflection.DocumentService = (*WorkspaceClient)(nil)

func NewWorkspaceClient(conf *core.Config, logger core.Logger) *WorkspaceClient {
	return &WorkspaceClient{
		conf:   conf,
		tokens: NewTokenStore(conf.Google.TokenFile),
		logger: logger,
	}
}

func (c *WorkspaceClient) Tokens() *TokenStore { return c.tokens }

func (c *WorkspaceClient) httpClient(ctx context.Context) (*http.Client, error) {
	cfg, err := OAuthConfig(c.conf, "")
	if err != nil {
		return nil, err
	}
	return c.tokens.Client(ctx, cfg)
}

func (c *WorkspaceClient) driveService(ctx context.Context) (*drive.Service, error) {
	hc, err := c.httpClient(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := drive.NewService(ctx, option.WithHTTPClient(hc))
	return svc, errors.Wrap(err, "building drive service")
}

func (c *WorkspaceClient) docsService(ctx context.Context) (*docs.Service, error) {
	hc, err := c.httpClient(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := docs.NewService(ctx, option.WithHTTPClient(hc))
	return svc, errors.Wrap(err, "building docs service")
}

func (c *WorkspaceClient) FindFolder(ctx context.Context, name, parentID string) (string, error) {
	svc, err := c.driveService(ctx)
	if err != nil {
		return "", err
	}

	escaped := strings.ReplaceAll(name, `'`, `\'`)
	queryParts := []string{
		fmt.Sprintf("mimeType = '%s'", folderMimeType),
		"trashed = false",
		fmt.Sprintf("name = '%s'", escaped),
	}
	if parentID != "" {
		queryParts = append(queryParts, fmt.Sprintf("'%s' in parents", parentID))
	}

	res, err := svc.Files.List().
		Q(strings.Join(queryParts, " and ")).
		Fields("files(id,name,webViewLink)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", errors.Wrap(err, "listing folders")
	}
	if len(res.Files) == 0 {
		return "", nil
	}
	return res.Files[0].Id, nil
}

func (c *WorkspaceClient) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	svc, err := c.driveService(ctx)
	if err != nil {
		return "", err
	}

	meta := &drive.File{Name: name, MimeType: folderMimeType}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	folder, err := svc.Files.Create(meta).Fields("id,name,webViewLink").Context(ctx).Do()
	if err != nil {
		return "", errors.Wrap(err, "creating folder")
	}
	return folder.Id, nil
}

// CreateDocument creates the document, applies the compiled operations in
// one batch and moves the file into folderID.
func (c *WorkspaceClient) CreateDocument(ctx context.Context, title string, ops []reflection.EditOp, folderID string) (reflection.DocumentMeta, error) {
	docsSvc, err := c.docsService(ctx)
	if err != nil {
		return reflection.DocumentMeta{}, err
	}
	driveSvc, err := c.driveService(ctx)
	if err != nil {
		return reflection.DocumentMeta{}, err
	}

	doc, err := docsSvc.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return reflection.DocumentMeta{}, errors.Wrap(err, "creating document")
	}

	if requests := buildDocRequests(ops); len(requests) > 0 {
		_, err = docsSvc.Documents.
			BatchUpdate(doc.DocumentId, &docs.BatchUpdateDocumentRequest{Requests: requests}).
			Context(ctx).
			Do()
		if err != nil {
			return reflection.DocumentMeta{}, errors.Wrap(err, "applying document edits")
		}
	}

	var prevParents string
	if meta, err := driveSvc.Files.Get(doc.DocumentId).Fields("parents").Context(ctx).Do(); err == nil {
		prevParents = strings.Join(meta.Parents, ",")
	} else {
		c.logger.Warn(fmt.Sprintf("looking up document parents: %v", err), err)
	}

	update := driveSvc.Files.Update(doc.DocumentId, nil).
		AddParents(folderID).
		Fields("id,name,webViewLink,webContentLink,modifiedTime").
		Context(ctx)
	if prevParents != "" {
		update = update.RemoveParents(prevParents)
	}
	file, err := update.Do()
	if err != nil {
		return reflection.DocumentMeta{}, errors.Wrap(err, "moving document into folder")
	}

	return reflection.DocumentMeta{
		ID:           file.Id,
		Name:         file.Name,
		ViewURL:      file.WebViewLink,
		ContentURL:   file.WebContentLink,
		ModifiedTime: file.ModifiedTime,
	}, nil
}

func (c *WorkspaceClient) ShareDocument(ctx context.Context, fileID, email string, allowComment bool) error {
	svc, err := c.driveService(ctx)
	if err != nil {
		return err
	}

	role := "reader"
	if allowComment {
		role = "commenter"
	}
	_, err = svc.Permissions.Create(fileID, &drive.Permission{
		Type:         "user",
		Role:         role,
		EmailAddress: email,
	}).
		SendNotificationEmail(false).
		Fields("id").
		Context(ctx).
		Do()
	return errors.Wrapf(err, "granting %s access to %s", role, email)
}

// buildDocRequests maps compiled edit operations onto Docs batchUpdate
// requests, preserving order.
func buildDocRequests(ops []reflection.EditOp) []*docs.Request {
	requests := make([]*docs.Request, 0, len(ops))
	for _, op := range ops {
		switch op.Kind {
		case reflection.OpInsertText:
			requests = append(requests, &docs.Request{
				InsertText: &docs.InsertTextRequest{
					Location: &docs.Location{Index: op.At},
					Text:     op.Text,
				},
			})
		case reflection.OpSetParagraphStyle:
			requests = append(requests, &docs.Request{
				UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
					Range:          &docs.Range{StartIndex: op.Range.Start, EndIndex: op.Range.End},
					ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: op.Style},
					Fields:         "namedStyleType",
				},
			})
		case reflection.OpSetBulletList:
			requests = append(requests, &docs.Request{
				CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
					Range:        &docs.Range{StartIndex: op.Range.Start, EndIndex: op.Range.End},
					BulletPreset: op.Preset,
				},
			})
		}
	}
	return requests
}
