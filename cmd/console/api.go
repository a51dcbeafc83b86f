package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jwebster45206/battle-tree/internal/session"
	"github.com/jwebster45206/battle-tree/pkg/project"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ProjectView matches the API's project response
type ProjectView struct {
	project.Summary
	Document *project.Document `json:"document"`
	Result   json.RawMessage   `json:"result,omitempty"`
}

// apiClient talks to one API server
type apiClient struct {
	http    *http.Client
	baseURL string
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// do sends a JSON request and decodes a JSON response into out when it is non-nil
func (c *apiClient) do(method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != want {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *apiClient) listProjects() ([]project.Summary, error) {
	var list []project.Summary
	err := c.do(http.MethodGet, "/v1/projects", nil, http.StatusOK, &list)
	return list, err
}

func (c *apiClient) createProject(name, battleType string) (*ProjectView, error) {
	var view ProjectView
	req := map[string]string{"name": name, "battle_type": battleType}
	if err := c.do(http.MethodPost, "/v1/projects", req, http.StatusCreated, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *apiClient) getProject(id uuid.UUID) (*ProjectView, error) {
	var view ProjectView
	if err := c.do(http.MethodGet, "/v1/projects/"+id.String(), nil, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// edit runs an editing operation relative to the project path
func (c *apiClient) edit(id uuid.UUID, method, path string, body any) (*ProjectView, error) {
	var view ProjectView
	if err := c.do(method, "/v1/projects/"+id.String()+"/"+path, body, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *apiClient) validate(id uuid.UUID) (*session.Report, error) {
	var report session.Report
	if err := c.do(http.MethodGet, "/v1/projects/"+id.String()+"/validate", nil, http.StatusOK, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *apiClient) export(id uuid.UUID) ([]byte, error) {
	var doc project.Document
	if err := c.do(http.MethodGet, "/v1/projects/"+id.String()+"/export", nil, http.StatusOK, &doc); err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}
