package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/trackvia-go/internal/logger"
	"github.com/MKhiriev/trackvia-go/internal/utils"
	"github.com/MKhiriev/trackvia-go/models"
)

const (
	contentTypeJSON = utils.ContentTypeJSON
	fileFieldName   = "file"
)

// HTTPTransportConfig configures [NewHTTPTransport].
type HTTPTransportConfig struct {
	// BaseURL is the API root, e.g. "https://go.trackvia.com". A missing
	// scheme defaults to https.
	BaseURL string

	// Timeout bounds every request. Zero leaves the http.Client default.
	Timeout time.Duration

	// HTTPClient overrides the underlying *http.Client when non-nil.
	HTTPClient *http.Client
}

type httpTransport struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPTransport constructs the resty implementation of [Transport]. It
// normalises and validates cfg.BaseURL and configures the request timeout.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a URL.
func NewHTTPTransport(cfg HTTPTransportConfig, log *logger.Logger) (Transport, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}

	client := utils.NewHTTPClient(cfg.HTTPClient)
	client.SetBaseURL(baseURL)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &httpTransport{client: client, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Do implements [Transport].
func (h *httpTransport) Do(ctx context.Context, r models.Request) (models.Response, error) {
	requestID := utils.NewID()

	req := h.client.R().
		SetContext(ctx).
		SetHeader(utils.RequestIDHeader, requestID)

	if len(r.Query) > 0 {
		req.SetQueryParamsFromValues(r.Query)
	}

	switch {
	case r.File != nil:
		field := r.File.Field
		if field == "" {
			field = fileFieldName
		}
		req.SetFileReader(field, r.File.FileName, r.File.Content)
	case r.JSON != nil:
		req.SetHeader("Content-Type", contentTypeJSON).SetBody(r.JSON)
	case r.Form != nil:
		req.SetFormDataFromValues(r.Form)
	}

	resp, err := req.Execute(r.Method, r.Path)
	if err != nil {
		h.logger.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.Path).
			Err(err).
			Msg("request failed")
		return models.Response{}, fmt.Errorf("%w: %s %s: %w", ErrNetwork, r.Method, r.Path, err)
	}

	h.logger.Debug().
		Str("request_id", requestID).
		Str("method", r.Method).
		Str("path", r.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Msg("request done")

	raw := resp.Body()
	out := models.Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       decodeBody(raw),
		Raw:        raw,
	}

	return out, mapHTTPError(out.StatusCode, raw)
}

// Close implements [Transport].
func (h *httpTransport) Close() {
	h.client.CloseIdleConnections()
}

// decodeBody returns the JSON value held in raw, raw itself when it is not
// JSON, or nil when raw is empty.
func decodeBody(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return raw
	}
	return v
}
