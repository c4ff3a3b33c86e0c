package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"foodhub-be/internal/logger"

	"go.uber.org/zap"
)

// Mailer delivers report digests.
type Mailer interface {
	SendDigest(ctx context.Context, to string, digest *Digest) error
}

// httpMailer posts digests to an external mail relay service.
type httpMailer struct {
	url    string
	client *http.Client
}

func NewHTTPMailer(url string) Mailer {
	return &httpMailer{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type mailRequest struct {
	To      string  `json:"to"`
	Subject string  `json:"subject"`
	Digest  *Digest `json:"digest"`
}

func (m *httpMailer) SendDigest(ctx context.Context, to string, digest *Digest) error {
	payload, err := json.Marshal(mailRequest{
		To:      to,
		Subject: fmt.Sprintf("Sales report %s", digest.Reference),
		Digest:  digest,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		logger.FromCtx(ctx).Error("mail relay request failed", zap.String("to", to), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}
	return nil
}
