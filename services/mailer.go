package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ogcash/bankapi/utils/logger"
)

// MailNotifier asks the mail collaborator to deliver a templated message.
// The collaborator owns SMTP; this side only posts the template key and
// variables. A nil or URL-less notifier is a no-op.
type MailNotifier struct {
	url       string
	templates *TemplateService
	client    *http.Client
}

func NewMailNotifier(url string, templates *TemplateService) *MailNotifier {
	return &MailNotifier{
		url:       url,
		templates: templates,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type mailRequest struct {
	To          string            `json:"to"`
	TemplateKey string            `json:"templateKey"`
	Variables   map[string]string `json:"variables"`
	Subject     string            `json:"subject,omitempty"`
	HTML        string            `json:"html,omitempty"`
}

// Send posts the mail request. The rendered subject and body ride along so
// the collaborator can deliver without a template lookup of its own.
// Failures are returned for logging only; no caller treats them as fatal.
func (m *MailNotifier) Send(to, templateKey string, variables map[string]string) error {
	if m == nil || m.url == "" || to == "" {
		return nil
	}

	req := mailRequest{To: to, TemplateKey: templateKey, Variables: variables}
	if m.templates != nil {
		if tpl, err := m.templates.Get(templateKey); err == nil {
			req.Subject = RenderTemplate(tpl.Subject, variables)
			req.HTML = RenderTemplate(tpl.Body, variables)
		}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal mail request: %w", err)
	}

	resp, err := m.client.Post(m.url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail collaborator returned %d", resp.StatusCode)
	}
	logger.Infof("[Mail] notified %s with template %s", to, templateKey)
	return nil
}
