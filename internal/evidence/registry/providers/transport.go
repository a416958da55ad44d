package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// RestyLogger forwards resty's printf-style logging to slog.
type RestyLogger struct {
	logger *slog.Logger
}

func NewRestyLogger(logger *slog.Logger) resty.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &RestyLogger{logger: logger}
}

func (a *RestyLogger) Errorf(format string, v ...any) {
	a.logger.Error(fmt.Sprintf(format, v...))
}

func (a *RestyLogger) Warnf(format string, v ...any) {
	a.logger.Warn(fmt.Sprintf(format, v...))
}

func (a *RestyLogger) Debugf(format string, v ...any) {
	a.logger.Debug(fmt.Sprintf(format, v...))
}

// TransportConfig configures one provider's HTTP transport.
type TransportConfig struct {
	BaseURL       string
	Timeout       time.Duration
	Retries       int
	RetryWait     time.Duration
	RatePerSecond float64 // <= 0 disables client-side rate limiting
	Headers       map[string]string
	Logger        *slog.Logger
}

// Transport is a rate-limited JSON client bound to one provider.
type Transport struct {
	id      string
	client  *resty.Client
	limiter *rate.Limiter
}

// NewTransport builds a resty client for the provider. 5xx and 429 responses
// are retried up to cfg.Retries times.
func NewTransport(id string, cfg TransportConfig) *Transport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 200 * time.Millisecond
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(4*cfg.RetryWait).
		SetHeader("Accept", "application/json").
		SetHeaders(cfg.Headers).
		SetLogger(NewRestyLogger(cfg.Logger)).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil {
				return false
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})

	t := &Transport{id: id, client: client}
	if cfg.RatePerSecond > 0 {
		burst := int(cfg.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return t
}

func (t *Transport) ID() string { return t.id }

// GetJSON issues GET path?query and decodes a 2xx body into out. Every error
// is a *ProviderError.
func (t *Transport) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return NewProviderError(ErrorTimeout, t.id, "rate limiter wait", err)
		}
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(path)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return NewProviderError(ErrorTimeout, t.id, "request timed out", err)
		}
		return NewProviderError(ErrorProviderOutage, t.id, "request failed", err)
	}

	if category, failed := categorizeStatus(resp.StatusCode()); failed {
		return NewProviderError(category, t.id, fmt.Sprintf("unexpected status %d", resp.StatusCode()), nil)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return NewProviderError(ErrorBadData, t.id, "decode response", err)
	}
	return nil
}

func categorizeStatus(code int) (ErrorCategory, bool) {
	switch {
	case code >= 200 && code < 300:
		return "", false
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrorAuthentication, true
	case code == http.StatusNotFound:
		return ErrorNotFound, true
	case code == http.StatusTooManyRequests:
		return ErrorRateLimited, true
	case code >= 500:
		return ErrorProviderOutage, true
	default:
		return ErrorBadData, true
	}
}
