package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"foodhub-be/internal/logger"

	"go.uber.org/zap"
)

// Gateway talks to an external payment provider.
type Gateway interface {
	Initiate(ctx context.Context, payload json.RawMessage) (*InitiateResponse, error)
	Lookup(ctx context.Context, pidx string) (*VerificationResult, error)
}

type khaltiGateway struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// NewKhaltiGateway builds a client for the Khalti ePayment API.
func NewKhaltiGateway(baseURL, secretKey string) Gateway {
	return &khaltiGateway{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *khaltiGateway) Initiate(ctx context.Context, payload json.RawMessage) (*InitiateResponse, error) {
	body, err := g.post(ctx, g.baseURL+"/epayment/initiate/", payload)
	if err != nil {
		return nil, err
	}

	var out InitiateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode initiate response: %w", err)
	}
	out.Raw = body
	return &out, nil
}

func (g *khaltiGateway) Lookup(ctx context.Context, pidx string) (*VerificationResult, error) {
	payload, err := json.Marshal(map[string]string{"pidx": pidx})
	if err != nil {
		return nil, err
	}

	body, err := g.post(ctx, g.baseURL+"/epayment/lookup/", payload)
	if err != nil {
		return nil, err
	}

	var out VerificationResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	out.Raw = body
	return &out, nil
}

func (g *khaltiGateway) post(ctx context.Context, url string, payload []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		logger.FromCtx(ctx).Error("gateway request failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.FromCtx(ctx).Error("gateway returned error",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return body, nil
}
