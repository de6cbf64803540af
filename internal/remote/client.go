package remote

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/loyaltyops/promo-migrator/internal/models"
)

// Client issues authenticated calls against one promotions-engine or CMS
// instance. Every error it returns is an *APIError tagged with the operation
// that failed, so the cloner can classify fetch vs. create failures.
type Client struct {
	baseURL    string
	kind       string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client for an environment with a fixed per-call timeout.
func NewClient(env *models.Environment, timeout time.Duration) *Client {
	transport := &http.Transport{}
	if env.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{
		baseURL: env.BaseURL,
		kind:    env.Kind,
		apiKey:  env.APIKey,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// authorize sets the auth header in the scheme the target platform expects.
func (c *Client) authorize(req *http.Request) {
	if c.kind == models.PlatformCMS {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		return
	}
	req.Header.Set("Authorization", "ManagementKey-v1 "+c.apiKey)
}

// pagedResponse is the standard paginated list envelope.
type pagedResponse struct {
	TotalResultSize int               `json:"totalResultSize"`
	Data            []json.RawMessage `json:"data"`
}

// Get performs an authenticated GET request and returns the response body.
func (c *Client) Get(path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, &APIError{Op: OpFetch, Path: path, Err: err}
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Op: OpFetch, Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Op: OpFetch, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, &APIError{Op: OpFetch, Path: path, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

// GetJSON performs an authenticated GET and unmarshals the response into dest.
func (c *Client) GetJSON(path string, params url.Values, dest interface{}) error {
	body, err := c.Get(path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &APIError{Op: OpFetch, Path: path, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return nil
}

// GetAll fetches every page of a paginated list endpoint. The page size is
// chosen large enough to avoid pagination in common cases, but multi-page
// results are still walked via the skip parameter.
func (c *Client) GetAll(path string, pageSize int) ([]models.Resource, error) {
	var all []models.Resource
	skip := 0
	for {
		params := url.Values{
			"pageSize": {strconv.Itoa(pageSize)},
			"skip":     {strconv.Itoa(skip)},
		}
		body, err := c.Get(path, params)
		if err != nil {
			return nil, err
		}

		var page pagedResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &APIError{Op: OpFetch, Path: path, Err: fmt.Errorf("parsing page: %w", err)}
		}
		for _, raw := range page.Data {
			var res models.Resource
			if err := json.Unmarshal(raw, &res); err != nil {
				return nil, &APIError{Op: OpFetch, Path: path, Err: fmt.Errorf("parsing resource: %w", err)}
			}
			all = append(all, res)
		}

		if len(page.Data) < pageSize {
			return all, nil
		}
		skip += len(page.Data)
	}
}

// Post performs an authenticated POST with a JSON body. Failures classify as
// create errors.
func (c *Client) Post(path string, payload interface{}) ([]byte, error) {
	return c.send("POST", OpCreate, path, payload)
}

// Put performs an authenticated PUT with a JSON body. Failures classify as
// update errors.
func (c *Client) Put(path string, payload interface{}) ([]byte, error) {
	return c.send("PUT", OpUpdate, path, payload)
}

func (c *Client) send(method string, op Operation, path string, payload interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &APIError{Op: op, Path: path, Err: fmt.Errorf("marshaling body: %w", err)}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, &APIError{Op: op, Path: path, Err: err}
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Op: op, Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Op: op, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, &APIError{Op: op, Path: path, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

// Upload submits a file via multipart POST. The bulk code import endpoints
// take the CSV under the "upFile" form field.
func (c *Client) Upload(path, filename string, content []byte) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("upFile", filename)
	if err != nil {
		return nil, &APIError{Op: OpImport, Path: path, Err: err}
	}
	if _, err := part.Write(content); err != nil {
		return nil, &APIError{Op: OpImport, Path: path, Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &APIError{Op: OpImport, Path: path, Err: err}
	}

	req, err := http.NewRequest("POST", c.baseURL+path, &buf)
	if err != nil {
		return nil, &APIError{Op: OpImport, Path: path, Err: err}
	}
	c.authorize(req)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Op: OpImport, Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Op: OpImport, Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, &APIError{Op: OpImport, Path: path, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

// Ping checks connectivity and auth by hitting a cheap list endpoint.
func (c *Client) Ping() error {
	path := "/v1/applications"
	if c.kind == models.PlatformCMS {
		path = "/api/content_types"
	}
	_, err := c.Get(path, url.Values{"pageSize": {"1"}})
	return err
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
