package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scolardf/devconnector/internal/application/service"
	"github.com/scolardf/devconnector/internal/config"
	"github.com/scolardf/devconnector/pkg/apperror"
	"github.com/scolardf/devconnector/pkg/logger"
)

const (
	msgNoGithubProfile = "No Github profile found"
	repoPageSize       = "5"
	repoSort           = "created:asc"
	maxBodyBytes       = 1 << 20
)

type Client struct {
	http         *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	userAgent    string
	logger       logger.Logger
}

func NewClient(cfg config.Config, log logger.Logger) service.RepoDirectory {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Github.Timeout}, log)
}

// NewClientWithHTTP lets callers supply their own transport.
func NewClientWithHTTP(cfg config.Config, httpClient *http.Client, log logger.Logger) *Client {
	return &Client{
		http:         httpClient,
		baseURL:      strings.TrimRight(cfg.Github.BaseURL, "/"),
		clientID:     cfg.Github.ClientID,
		clientSecret: cfg.Github.ClientSecret,
		userAgent:    cfg.Github.UserAgent,
		logger:       log,
	}
}

// ListRepos fetches the first five repositories of username, oldest first,
// and relays the upstream JSON unchanged.
func (c *Client) ListRepos(ctx context.Context, username string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("per_page", repoPageSize)
	q.Set("sort", repoSort)
	q.Set("client_id", c.clientID)
	q.Set("client_secret", c.clientSecret)
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperror.NewInternal("failed to build github request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Github request failed", err, zap.String("username", username))
		return nil, apperror.NewInternal("github request failed", err)
	}
	defer resp.Body.Close()

	l := c.logger.With(
		zap.String("username", username),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	if resp.StatusCode != http.StatusOK {
		l.Info("Github returned no listing")
		return nil, apperror.NewNotFound(msgNoGithubProfile, fmt.Sprintf("github answered %d for '%s'", resp.StatusCode, username))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		l.Error("Failed to read github response", err)
		return nil, apperror.NewInternal("failed to read github response", err)
	}
	if !json.Valid(body) {
		l.Warn("Github returned a non-JSON body")
		return nil, apperror.NewInternal("github returned invalid JSON", nil)
	}
	return json.RawMessage(body), nil
}
