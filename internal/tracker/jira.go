package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/jiratrack/internal/domain"
)

// worklogTimeLayout is the timestamp format Jira accepts for worklog starts.
const worklogTimeLayout = "2006-01-02T15:04:05.000-0700"

const (
	searchFields   = "id,summary,key,timetracking,assignee"
	searchPageSize = 100
)

// JiraConfig holds the connection settings for a Jira Cloud site.
type JiraConfig struct {
	BaseURL  string
	Email    string
	APIToken string
	Timeout  time.Duration
}

// jiraClient implements Client using the Jira Cloud REST API v3.
type jiraClient struct {
	cfg      JiraConfig
	http     *http.Client
	observer Observer

	accountID string
}

// NewJiraClient creates a Client for the configured Jira site.
func NewJiraClient(cfg JiraConfig, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &jiraClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// SprintJQL returns the query selecting a project's open sprint issues.
func SprintJQL(project string) string {
	quoted := strings.ReplaceAll(project, `"`, `\"`)
	return fmt.Sprintf(`sprint in openSprints() AND project = "%s" AND status != done AND status != archived`, quoted)
}

type jiraIssue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary      *string `json:"summary"`
		TimeTracking struct {
			TimeSpent string `json:"timeSpent"`
		} `json:"timetracking"`
		Assignee *struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
	} `json:"fields"`
}

func (j jiraIssue) toDomain() (domain.Issue, error) {
	if j.ID == "" || j.Key == "" || j.Fields.Summary == nil {
		return domain.Issue{}, fmt.Errorf("%w: issue missing id, key or summary", ErrMalformedResponse)
	}
	issue := domain.Issue{
		ID:        j.ID,
		Key:       j.Key,
		Title:     *j.Fields.Summary,
		TimeSpent: domain.CoalesceStr(j.Fields.TimeTracking.TimeSpent, "0h"),
	}
	if j.Fields.Assignee != nil {
		issue.Assignee = j.Fields.Assignee.DisplayName
	}
	return issue, nil
}

type searchResponse struct {
	Issues        *[]jiraIssue `json:"issues"`
	NextPageToken string       `json:"nextPageToken"`
	IsLast        bool         `json:"isLast"`
}

func (c *jiraClient) SearchOpenSprintIssues(ctx context.Context, project string) ([]domain.Issue, error) {
	params := url.Values{}
	params.Set("jql", SprintJQL(project))
	params.Set("fields", searchFields)
	params.Set("maxResults", fmt.Sprint(searchPageSize))

	var issues []domain.Issue
	for {
		var page searchResponse
		if err := c.do(ctx, "search", http.MethodGet, "/rest/api/3/search/jql", params, nil, &page); err != nil {
			return nil, err
		}
		if page.Issues == nil {
			return nil, fmt.Errorf("%w: search response has no issues field", ErrMalformedResponse)
		}
		for _, raw := range *page.Issues {
			issue, err := raw.toDomain()
			if err != nil {
				return nil, err
			}
			issues = append(issues, issue)
		}
		if page.IsLast || page.NextPageToken == "" {
			break
		}
		params.Set("nextPageToken", page.NextPageToken)
	}
	return issues, nil
}

func (c *jiraClient) GetIssue(ctx context.Context, issueKey string) (*domain.Issue, error) {
	params := url.Values{}
	params.Set("fields", searchFields)

	var raw jiraIssue
	if err := c.do(ctx, "get_issue", http.MethodGet, "/rest/api/3/issue/"+url.PathEscape(issueKey), params, nil, &raw); err != nil {
		return nil, err
	}
	issue, err := raw.toDomain()
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

type worklogRequest struct {
	Started          string `json:"started"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
}

func (c *jiraClient) LogTime(ctx context.Context, issueKey string, startedAt, endedAt time.Time) error {
	seconds := domain.WholeSeconds(startedAt, endedAt)
	if seconds < 60 {
		return nil
	}
	body := worklogRequest{
		Started:          startedAt.Format(worklogTimeLayout),
		TimeSpentSeconds: seconds,
	}
	path := "/rest/api/3/issue/" + url.PathEscape(issueKey) + "/worklog"
	return c.do(ctx, "log_time", http.MethodPost, path, nil, body, nil)
}

type myselfResponse struct {
	AccountID string `json:"accountId"`
}

type assigneeRequest struct {
	AccountID string `json:"accountId"`
}

func (c *jiraClient) AssignToCurrentUser(ctx context.Context, issueKey string) error {
	if c.accountID == "" {
		var me myselfResponse
		if err := c.do(ctx, "myself", http.MethodGet, "/rest/api/3/myself", nil, nil, &me); err != nil {
			return err
		}
		if me.AccountID == "" {
			return fmt.Errorf("%w: myself response has no accountId", ErrMalformedResponse)
		}
		c.accountID = me.AccountID
	}
	path := "/rest/api/3/issue/" + url.PathEscape(issueKey) + "/assignee"
	return c.do(ctx, "assign", http.MethodPut, path, nil, assigneeRequest{AccountID: c.accountID}, nil)
}

// do performs one request and decodes a JSON response into out when out is
// non-nil. Errors are classified into the package's sentinel errors.
func (c *jiraClient) do(ctx context.Context, op, method, path string, params url.Values, body, out any) error {
	start := time.Now()
	status, err := c.roundTrip(ctx, method, path, params, body, out)
	c.observer.OnCallComplete(CallEvent{
		Operation: op,
		Method:    method,
		Path:      path,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *jiraClient) roundTrip(ctx context.Context, method, path string, params url.Values, body, out any) (int, error) {
	endpoint := c.cfg.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.APIToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: reading response: %v", ErrNetwork, err)
	}

	if kind := classifyStatus(resp.StatusCode); kind != nil {
		return resp.StatusCode, fmt.Errorf("%w: %s %s returned %d: %s",
			kind, method, path, resp.StatusCode, snippet(respBody))
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: decoding %s: %v", ErrMalformedResponse, path, err)
	}
	return resp.StatusCode, nil
}

// classifyStatus maps a non-2xx HTTP status to a sentinel error.
func classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrAuth
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return ErrNetwork
	default:
		return ErrRejected
	}
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuth):
		return "AUTH"
	case errors.Is(err, ErrNetwork):
		return "NETWORK"
	case errors.Is(err, ErrMalformedResponse):
		return "MALFORMED"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrRejected):
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}
