package googlesvc

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/mail"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/jukulab/hansei/core"
)

// gmailService sends mail as the OAuth-linked account, so guardian mail
// arrives from the teacher's own workspace domain.
type gmailService struct {
	client *WorkspaceClient
	logger core.Logger
}

var _ core.EmailService = (*gmailService)(nil)

func NewGmailService(client *WorkspaceClient, logger core.Logger) *gmailService {
	return &gmailService{client: client, logger: logger}
}

func (svc gmailService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		go func(msg *core.EmailMessage) {
			if err := svc.SendMessage(msg); err != nil {
				svc.logger.Error(fmt.Sprintf("sending email via gmail: %v", err), err)
			}
		}(msg)
	}
}

func (svc gmailService) SendMessage(msg *core.EmailMessage) error {
	if err := msg.Render(); err != nil {
		return errors.Wrap(err, "rendering email")
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return nil
	}

	ctx := context.Background()
	hc, err := svc.client.httpClient(ctx)
	if err != nil {
		return err
	}
	gm, err := gmail.NewService(ctx, option.WithHTTPClient(hc))
	if err != nil {
		return errors.Wrap(err, "building gmail service")
	}

	raw := base64.URLEncoding.EncodeToString(buildRFC822(msg))
	_, err = gm.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	return errors.Wrap(err, "sending gmail message")
}

func buildRFC822(msg *core.EmailMessage) []byte {
	var b strings.Builder

	from := msg.FromEmail()
	fmt.Fprintf(&b, "From: %s\r\n", from.String())
	fmt.Fprintf(&b, "To: %s\r\n", joinAddresses(msg.To))
	if len(msg.Cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", joinAddresses(msg.Cc))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString("\r\n")
	b.WriteString(base64.StdEncoding.EncodeToString([]byte(msg.TextContent)))

	return []byte(b.String())
}

func joinAddresses(addrs []mail.Address) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}
