package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ResetMessage is the out-of-band password recovery notification.
type ResetMessage struct {
	Email      string `json:"email"`
	ResetToken string `json:"resetToken"`
	ResetLink  string `json:"resetLink"`
	UserName   string `json:"userName"`
}

// Mailer delivers recovery notifications. Delivery failure must never
// abort the surrounding reset-token creation.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, name, token string) error
}

// FrontendMailer delivers reset emails by posting to the frontend's mail
// relay endpoint.
type FrontendMailer struct {
	baseURL string
	client  *http.Client
}

func NewFrontendMailer(frontendURL string) *FrontendMailer {
	return &FrontendMailer{
		baseURL: strings.TrimRight(frontendURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ResetLink builds the user-facing recovery URL embedding the token.
func (m *FrontendMailer) ResetLink(token string) string {
	return m.baseURL + "/reset-password?token=" + token
}

func (m *FrontendMailer) SendPasswordReset(ctx context.Context, email, name, token string) error {
	msg := ResetMessage{
		Email:      email,
		ResetToken: token,
		ResetLink:  m.ResetLink(token),
		UserName:   name,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/api/auth/forgot-password", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail relay returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}
