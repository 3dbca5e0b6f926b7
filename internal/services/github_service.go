package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/config"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/dto"
	"github.com/ahmetcoskunkizilkaya/devconnector/internal/metrics"
)

const githubReposPerPage = 5

type GitHubService struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	clientID     string
	clientSecret string
}

func NewGitHubService(cfg *config.Config) *GitHubService {
	timeout := cfg.GitHubTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GitHubService{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(cfg.GitHubAPIURL, "/"),
		token:        cfg.GitHubToken,
		clientID:     cfg.GitHubClientID,
		clientSecret: cfg.GitHubClientSecret,
	}
}

// FetchRepos returns the user's five oldest repositories. Any upstream
// failure is reported as ErrGitHubNotFound.
func (s *GitHubService) FetchRepos(ctx context.Context, username string) ([]dto.RepoSummary, error) {
	repos, err := s.fetchRepos(ctx, username)
	if err != nil {
		slog.Warn("github lookup failed", "username", username, "error", err)
		metrics.GitHubRequests.WithLabelValues("error").Inc()
		return nil, ErrGitHubNotFound
	}
	metrics.GitHubRequests.WithLabelValues("ok").Inc()
	return repos, nil
}

func (s *GitHubService) fetchRepos(ctx context.Context, username string) ([]dto.RepoSummary, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("empty username")
	}

	q := url.Values{}
	q.Set("per_page", fmt.Sprint(githubReposPerPage))
	q.Set("sort", "created")
	q.Set("direction", "asc")
	if s.token == "" && s.clientID != "" {
		q.Set("client_id", s.clientID)
		q.Set("client_secret", s.clientSecret)
	}
	endpoint := s.baseURL + "/users/" + url.PathEscape(username) + "/repos?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "devconnector")
	req.Header.Set("Accept", "application/vnd.github+json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github returned status %d", resp.StatusCode)
	}

	var repos []dto.RepoSummary
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		return nil, fmt.Errorf("failed to decode repos: %w", err)
	}
	if repos == nil {
		repos = []dto.RepoSummary{}
	}
	return repos, nil
}
