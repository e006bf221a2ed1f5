// Package dataverse is a thin client for the Dataverse Web API. It owns the
// OData headers, bearer token injection and error unwrapping; the entity
// packages put typed records on top of it.
package dataverse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	apiPath = "/api/data/v9.2"

	odataVersion     = "4.0"
	preferAnnotation = `odata.include-annotations="OData.Community.Display.V1.FormattedValue"`

	defaultTimeout = 30 * time.Second
)

// TokenProvider supplies a valid bearer token for each request, refreshing
// it when necessary.
type TokenProvider interface {
	ValidToken(ctx context.Context) (string, error)
}

// Client issues authenticated requests against one Dataverse environment.
type Client struct {
	http    *http.Client
	tokens  TokenProvider
	baseURL string
	logger  zerolog.Logger
}

// NewClient builds a client for the environment at baseURL, e.g.
// "https://org.crm4.dynamics.com". The API version path is appended here.
func NewClient(baseURL string, tokens TokenProvider, logger zerolog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
		baseURL: strings.TrimRight(baseURL, "/") + apiPath,
		logger:  logger,
	}
}

// ListResponse is the OData collection envelope.
type ListResponse[T any] struct {
	Value []T `json:"value"`
}

// WhoAmIResponse is the result of the WhoAmI function.
type WhoAmIResponse struct {
	BusinessUnitID string `json:"BusinessUnitId"`
	UserID         string `json:"UserId"`
	OrganizationID string `json:"OrganizationId"`
}

// WhoAmI resolves the identity behind the current token. Useful as a
// connectivity probe.
func (c *Client) WhoAmI(ctx context.Context) (*WhoAmIResponse, error) {
	var out WhoAmIResponse
	if err := c.doJSON(ctx, http.MethodGet, "/WhoAmI", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetJSON fetches an arbitrary endpoint below the API root and decodes the
// response into out. Used for metadata lookups that have no typed record.
func (c *Client) GetJSON(ctx context.Context, endpoint string, out any) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, out)
}

// List fetches a collection of records from entitySet, applying q.
func List[T any](ctx context.Context, c *Client, entitySet string, q Query) ([]T, error) {
	var out ListResponse[T]
	if err := c.doJSON(ctx, http.MethodGet, "/"+entitySet+q.encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Value, nil
}

// Get fetches a single record by id.
func Get[T any](ctx context.Context, c *Client, entitySet, id string, q Query) (*T, error) {
	var out T
	endpoint := fmt.Sprintf("/%s(%s)%s", entitySet, id, q.encode())
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create inserts a record and returns the created representation.
func Create[T any](ctx context.Context, c *Client, entitySet string, fields map[string]any) (*T, error) {
	var out T
	if err := c.doJSON(ctx, http.MethodPost, "/"+entitySet, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update patches a record and returns the updated representation. The
// request carries If-Match: * so it never creates a record under the given
// id.
func Update[T any](ctx context.Context, c *Client, entitySet, id string, fields map[string]any) (*T, error) {
	var out T
	endpoint := fmt.Sprintf("/%s(%s)", entitySet, id)
	if err := c.doJSON(ctx, http.MethodPatch, endpoint, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a record by id.
func Delete(ctx context.Context, c *Client, entitySet, id string) error {
	endpoint := fmt.Sprintf("/%s(%s)", entitySet, id)
	return c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil)
}

// doJSON performs one Web API round trip. body is marshalled when non-nil,
// out is decoded into when non-nil and the response has content.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body any, out any) error {
	token, err := c.tokens.ValidToken(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("OData-Version", odataVersion)
	req.Header.Set("OData-MaxVersion", odataVersion)
	prefer := preferAnnotation
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
		prefer += ",return=representation"
	}
	req.Header.Set("Prefer", prefer)
	if method == http.MethodPatch {
		// Update only, never upsert.
		req.Header.Set("If-Match", "*")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("dataverse request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("dataverse call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorMessage extracts error.message from an OData error body, falling back
// to the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "request failed"
	}
	if len(msg) > 512 {
		msg = msg[:512]
	}
	return msg
}
