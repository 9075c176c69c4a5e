package publish

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/juliakriv0137/video-analysis-system/internal/logging"
)

const apiBase = "https://api.github.com"

// Publisher pushes run artifacts to a GitHub repository through the
// contents API. One file per request; no local git state involved.
type Publisher struct {
	token   string
	baseURL string
	client  *http.Client
	log     *logging.Logger
}

// NewPublisher creates a publisher authenticated with a personal access token
func NewPublisher(token string, log *logging.Logger) (*Publisher, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is not set")
	}
	return &Publisher{
		token:   token,
		baseURL: apiBase,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}, nil
}

// Repo describes a created repository
type Repo struct {
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

type user struct {
	Login string `json:"login"`
}

// CreateRepo creates a public repository under the authenticated user
func (p *Publisher) CreateRepo(ctx context.Context, name, description string) (*Repo, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"private":     false,
		"auto_init":   false,
	}

	var repo Repo
	if err := p.do(ctx, http.MethodPost, p.baseURL+"/user/repos", body, &repo); err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}

	return &repo, nil
}

// UploadFile commits a single local file to the repository root
func (p *Publisher) UploadFile(ctx context.Context, repoName, filePath, message string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	login, err := p.login(ctx)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", p.baseURL, login, repoName, filepath.Base(filePath))
	body := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}

	if err := p.do(ctx, http.MethodPut, url, body, nil); err != nil {
		return fmt.Errorf("failed to upload %s: %w", filepath.Base(filePath), err)
	}

	return nil
}

// Publish creates the repository and uploads each existing file from paths.
// Missing files are skipped, matching the best-effort nature of publishing.
func (p *Publisher) Publish(ctx context.Context, repoName string, paths []string) (string, error) {
	repo, err := p.CreateRepo(ctx, repoName, "Video Analysis System")
	if err != nil {
		return "", err
	}
	p.log.Infof("created repository %s", repo.HTMLURL)

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			p.log.Warnf("skipping %s: %v", path, err)
			continue
		}
		if err := p.UploadFile(ctx, repoName, path, "Add analysis results"); err != nil {
			return "", err
		}
		p.log.Infof("uploaded %s", filepath.Base(path))
	}

	return repo.HTMLURL, nil
}

func (p *Publisher) login(ctx context.Context) (string, error) {
	var u user
	if err := p.do(ctx, http.MethodGet, p.baseURL+"/user", nil, &u); err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return u.Login, nil
}

func (p *Publisher) do(ctx context.Context, method, url string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+p.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("github api returned %d: %s", resp.StatusCode, detail)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
