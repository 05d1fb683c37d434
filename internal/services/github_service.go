package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// GitHubService is a thin pass-through over the GitHub REST API: list open
// pull requests and Dependabot vulnerability alerts for a repository. No
// response reshaping beyond JSON decode.
type GitHubService struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewGitHubService() *GitHubService {
	baseURL := os.Getenv("GITHUB_API_URL")
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &GitHubService{
		baseURL: baseURL,
		token:   os.Getenv("GITHUB_TOKEN"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
	User    struct {
		Login string `json:"login"`
	} `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VulnerabilityAlert struct {
	Number  int    `json:"number"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
	SecurityAdvisory struct {
		Summary  string `json:"summary"`
		Severity string `json:"severity"`
	} `json:"security_advisory"`
	Dependency struct {
		Package struct {
			Name      string `json:"name"`
			Ecosystem string `json:"ecosystem"`
		} `json:"package"`
	} `json:"dependency"`
	CreatedAt time.Time `json:"created_at"`
}

// ListPullRequests returns the open pull requests of a repository.
func (gs *GitHubService) ListPullRequests(ctx context.Context, owner, repo string) ([]PullRequest, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls?state=open", gs.baseURL, owner, repo)

	var pulls []PullRequest
	if err := gs.get(ctx, url, &pulls); err != nil {
		return nil, err
	}
	return pulls, nil
}

// ListVulnerabilityAlerts returns the open Dependabot alerts of a repository.
func (gs *GitHubService) ListVulnerabilityAlerts(ctx context.Context, owner, repo string) ([]VulnerabilityAlert, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/dependabot/alerts?state=open", gs.baseURL, owner, repo)

	var alerts []VulnerabilityAlert
	if err := gs.get(ctx, url, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (gs *GitHubService) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if gs.token != "" {
		req.Header.Set("Authorization", "Bearer "+gs.token)
	}

	resp, err := gs.client.Do(req)
	if err != nil {
		return fmt.Errorf("GitHub request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GitHub API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode GitHub response: %w", err)
	}
	return nil
}
