// Package devops is a thin client for the Azure DevOps work item tracking
// REST API. It authenticates with a personal access token over Basic auth
// and sends json-patch documents to the work-item creation route.
package devops

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deppfellow/pbi-relay/internal/workitem"
	"github.com/pkg/errors"
)

// ContentTypeJSONPatch is used for both Accept and Content-Type.
const ContentTypeJSONPatch = "application/json-patch+json"

// maxErrorBody caps how much of a failed response is kept for logging.
const maxErrorBody = 64 << 10

// Options configures a Client.
type Options struct {
	BaseURL      string
	Organization string
	Project      string
	WorkItemType string
	APIVersion   string
	Token        string
	Timeout      time.Duration

	// HTTPClient replaces the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client creates work items in one project.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewClient builds a Client. The creation endpoint is resolved once here.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		endpoint:   CreateEndpoint(opts.BaseURL, opts.Organization, opts.Project, opts.WorkItemType, opts.APIVersion),
		token:      strings.TrimSpace(opts.Token),
		httpClient: httpClient,
	}
}

// CreateEndpoint returns
//
//	{base}/{organization}/{project}/_apis/wit/workitems/${type}?api-version={version}
func CreateEndpoint(baseURL, organization, project, workItemType, apiVersion string) string {
	return fmt.Sprintf("%s/%s/%s/_apis/wit/workitems/$%s?api-version=%s",
		strings.TrimRight(baseURL, "/"),
		url.PathEscape(organization),
		url.PathEscape(project),
		url.PathEscape(workItemType),
		url.QueryEscape(apiVersion),
	)
}

// Endpoint is the URL CreateWorkItem posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// HasToken reports whether the client was given a credential. A token of
// only whitespace counts as none, as in config.DevOpsConfig.HasCredential.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// CreateWorkItem posts doc to the creation route.
//
// A non-2xx answer is returned as *APIError. Any other error means the
// request never produced a response.
func (c *Client) CreateWorkItem(ctx context.Context, doc workitem.PatchDocument) (*WorkItem, error) {
	if !c.HasToken() {
		return nil, ErrMissingToken
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling patch document")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	req.Header.Set("Authorization", BasicAuth(c.token))
	req.Header.Set("Accept", ContentTypeJSONPatch)
	req.Header.Set("Content-Type", ContentTypeJSONPatch)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "executing request POST %s", c.endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	created := &WorkItem{}
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		// The item exists; only the echo of it was lost.
		return created, nil
	}
	if len(respBody) > 0 {
		_ = json.Unmarshal(respBody, created)
	}

	return created, nil
}

// BasicAuth returns the Authorization header value for a PAT: an empty user
// name and the token as password.
func BasicAuth(token string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(":"+token))
}
