package gmail

import (
	"context"
	"encoding/base64"
	"fmt"

	"jobtrack-backend/pkg/googleauth"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Message is one inbox message with its plain-text body already decoded.
// Body is empty when the message has no text/plain part.
type Message struct {
	ID       string
	ThreadID string
	Body     string
}

type Service struct {
	auth *googleauth.Service
}

func NewService(auth *googleauth.Service) *Service {
	return &Service{auth: auth}
}

func (s *Service) gmailService(ctx context.Context, token *oauth2.Token, onTokenRefresh googleauth.TokenUpdateFunc) (*gmail.Service, error) {
	client := s.auth.Client(ctx, token, onTokenRefresh)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}

	return srv, nil
}

// ListRecentMessages returns up to maxResults of the newest inbox messages,
// each with its full body fetched and decoded. Messages come back in Gmail
// listing order (newest first); any transport error aborts the whole batch.
func (s *Service) ListRecentMessages(ctx context.Context, token *oauth2.Token, maxResults int64, onTokenRefresh googleauth.TokenUpdateFunc) ([]Message, error) {
	srv, err := s.gmailService(ctx, token, onTokenRefresh)
	if err != nil {
		return nil, err
	}

	user := "me"
	listResp, err := srv.Users.Messages.List(user).MaxResults(maxResults).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %v", err)
	}

	messages := make([]Message, 0, len(listResp.Messages))
	for _, item := range listResp.Messages {
		fullMsg, err := srv.Users.Messages.Get(user, item.Id).Format("full").Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve message %s: %v", item.Id, err)
		}

		messages = append(messages, Message{
			ID:       fullMsg.Id,
			ThreadID: fullMsg.ThreadId,
			Body:     extractPlainTextBody(fullMsg),
		})
	}

	return messages, nil
}

// extractPlainTextBody decodes the first text/plain part of a message.
func extractPlainTextBody(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}

	for _, part := range msg.Payload.Parts {
		if part.MimeType != "text/plain" || part.Body == nil || part.Body.Data == "" {
			continue
		}
		decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(part.Body.Data)
		if err != nil {
			continue
		}
		return string(decoded)
	}

	return ""
}
