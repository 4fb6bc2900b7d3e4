// Package remotestore acessa a base remota de usuários e vendas exposta em REST no dialeto PostgREST
package remotestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	restPrefix           = "/rest/v1"
	usersResource        = restPrefix + "/users"
	salesResource        = restPrefix + "/sales_records"
	preferRepresentation = "return=representation"
)

var (
	ErrMissingURL   = errors.New("remote store url is required")
	ErrUnauthorized = errors.New("remote store unauthorized")
	ErrRateLimited  = errors.New("remote store rate limited")
)

type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote store error: %s", e.Status)
	}
	return fmt.Sprintf("remote store error: %s: %s", e.Status, e.Body)
}

type Client struct {
	http *resty.Client
}

func NewClient(cfg config.RemoteStore) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, ErrMissingURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && (resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError)
		})

	if cfg.APIKey != "" {
		httpClient.SetHeader("apikey", cfg.APIKey)
		httpClient.SetAuthToken(cfg.APIKey)
	}

	return &Client{http: httpClient}, nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, result any) error {
	req := c.http.R().SetContext(ctx).SetResult(result)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	return c.check(ctx, http.MethodGet, path, resp, err)
}

func (c *Client) send(ctx context.Context, method, path string, query map[string]string, body any, result any) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Prefer", preferRepresentation).
		SetResult(result)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	return c.check(ctx, method, path, resp, err)
}

func (c *Client) check(ctx context.Context, method, path string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("erro na requisição %s %s: %w", method, path, err)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"method":      method,
		"path":        path,
		"status_code": resp.StatusCode(),
		"duration_ms": resp.Time().Milliseconds(),
	}).Debug("Requisição à base remota concluída")

	if resp.IsError() {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func apiErrorFromResponse(resp *resty.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       strings.TrimSpace(resp.String()),
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Error())
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Error())
	default:
		return apiErr
	}
}

func eq(value string) string {
	return "eq." + value
}
