package reflection

import "context"

// DocumentMeta describes the created remote document.
type DocumentMeta struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ViewURL      string `json:"webViewLink"`
	ContentURL   string `json:"webContentLink,omitempty"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
}

// DocumentService is the remote document/folder collaborator boundary.
// Calls block on the remote service; nothing here is retried.
type DocumentService interface {
	// CreateDocument creates a titled document, applies ops strictly in
	// order (an empty batch is a legal no-op) and files it under folderID.
	CreateDocument(ctx context.Context, title string, ops []EditOp, folderID string) (DocumentMeta, error)

	// FindFolder returns the id of an existing, non-trashed folder with
	// exactly this name under parentID, or "" when there is none. When
	// several match, the first one returned by the service wins.
	FindFolder(ctx context.Context, name, parentID string) (string, error)

	// CreateFolder creates a folder under parentID and returns its id.
	CreateFolder(ctx context.Context, name, parentID string) (string, error)

	// ShareDocument grants the email commenter (or reader) access.
	ShareDocument(ctx context.Context, fileID, email string, allowComment bool) error
}
