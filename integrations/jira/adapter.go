package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-relay/auth"
	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/integrations/common"
	"github.com/goliatone/go-relay/transport"
	"github.com/tidwall/gjson"
)

const (
	Key                     = "jira"
	DefaultRepeatedPriority = "High"
	IssueType               = "Bug"
)

var SupportedEvents = []string{
	core.EventWebhookTimeout,
	core.EventRunTestFailure,
	core.EventIntegrationTest,
}

var apiMessages = common.APIMessages{
	API:          "JIRA",
	Unauthorized: "Authentication failed. Wrong username and/or password. Keep in mind that your JIRA username is NOT your email address.",
	NotFound:     "This JIRA URL does not exist.",
	Invalid:      "Invalid request to the JIRA API.",
}

type issueFormatter func(payload core.Payload) (summary string, description string)

var issueFormatters = map[string]issueFormatter{
	core.EventRunTestFailure: func(payload core.Payload) (string, string) {
		title := payload.String("failed_test.title")
		return fmt.Sprintf("%s found a bug in '%s'", common.ProductName, title),
			fmt.Sprintf("Failed test title: %s\n%s\nEnvironment: %s\nRun#%s",
				title,
				payload.String("frontend_url"),
				common.EnvironmentName(payload),
				payload.RunString("id"),
			)
	},
	core.EventWebhookTimeout: func(payload core.Payload) (string, string) {
		return fmt.Sprintf("Your %s webhook has timed out", common.ProductName),
			fmt.Sprintf("Your webhook has timed out for %s on %s. If you need help debugging, please contact us at %s",
				common.RunInfo(payload),
				common.EnvironmentName(payload),
				common.SupportEmail,
			)
	},
	core.EventIntegrationTest: func(core.Payload) (string, string) {
		return "Integration Test", "Your JIRA integration works!"
	},
}

// Adapter files one Bug per failure label, updating the open issue when the
// same failure repeats.
type Adapter struct {
	common.Base

	fields *fieldCatalog
}

func New(in core.AdapterInput) (core.Adapter, error) {
	adapter := &Adapter{Base: common.NewBase(Key, in, SupportedEvents...)}
	adapter.fields = &fieldCatalog{adapter: adapter}
	return adapter, nil
}

func (a *Adapter) SendEvent(ctx context.Context) error {
	if !a.ShouldSend() {
		return nil
	}
	format, ok := issueFormatters[a.In.EventType]
	if !ok {
		return core.NewMisconfiguredIntegrationError(
			fmt.Sprintf("JIRA has no issue template for event %s", a.In.EventType),
			nil,
		)
	}
	if err := a.authenticate(ctx); err != nil {
		return err
	}

	label := issueLabel(a.In.EventType, a.Payload())
	if a.In.EventType != core.EventIntegrationTest {
		issueID, err := a.findOpenIssue(ctx, label)
		if err != nil {
			return err
		}
		if issueID != "" {
			return a.updateIssue(ctx, issueID)
		}
	}
	summary, description := format(a.Payload())
	return a.createIssue(ctx, label, summary, description)
}

func (a *Adapter) authenticate(ctx context.Context) error {
	provider := auth.NewOAuth1CredentialProvider(a.In.OAuthConsumer, a.In.Settings.Map("oauth_settings"))
	credential, err := provider.AccessCredential(ctx)
	if err != nil {
		return err
	}
	// Every Jira call is signed; the configured transport still performs the
	// round trip underneath the OAuth1 client.
	base := transport.NewHTTPClient(a.Transport())
	a.SetTransport(transport.NewRESTAdapter(credential.Client(ctx, base)))
	return nil
}

func (a *Adapter) findOpenIssue(ctx context.Context, label string) (string, error) {
	searchable, err := a.fields.LabelsSearchable(ctx)
	if err != nil {
		return "", err
	}
	if !searchable {
		a.Logger().Info("JIRA labels are not searchable, creating a new issue")
		return "", nil
	}

	resp, ok, err := a.call(ctx, http.MethodPost, "/rest/api/2/search", map[string]any{
		"jql":        fmt.Sprintf("status != Done AND project = %s AND labels = %s", jqlValue(a.Setting("project_key")), jqlValue(label)),
		"maxResults": 1,
	})
	if err != nil {
		return "", err
	}
	if !ok {
		a.Logger().Info("JIRA search failed, attempting to post a new issue",
			"status", resp.StatusCode,
			"body", string(resp.Body),
		)
		return "", nil
	}
	issue := gjson.GetBytes(resp.Body, "issues.0")
	if !issue.Exists() {
		return "", nil
	}
	if id := issue.Get("id").String(); id != "" {
		return id, nil
	}
	return issue.Get("key").String(), nil
}

func (a *Adapter) updateIssue(ctx context.Context, issueID string) error {
	priority := strings.TrimSpace(a.Setting("repeated_failure_priority"))
	if priority == "" {
		priority = DefaultRepeatedPriority
	}
	return a.expect(a.call(ctx, http.MethodPut, "/rest/api/2/issue/"+url.PathEscape(issueID), map[string]any{
		"update": map[string]any{
			"labels": []map[string]string{{"add": common.RepeatedFailuresLabel}},
		},
		"fields": map[string]any{
			"priority": map[string]string{"name": priority},
		},
	}))
}

func (a *Adapter) createIssue(ctx context.Context, label string, summary string, description string) error {
	return a.expect(a.call(ctx, http.MethodPost, "/rest/api/2/issue/", map[string]any{
		"fields": map[string]any{
			"project":     map[string]string{"key": a.Setting("project_key")},
			"labels":      []string{label},
			"issuetype":   map[string]string{"name": IssueType},
			"summary":     summary,
			"description": description,
		},
	}))
}

// call performs one Jira request. ok is false for a non-2xx answer that is not
// fatal; fatal statuses come back as classified errors.
func (a *Adapter) call(ctx context.Context, method string, path string, body any) (core.TransportResponse, bool, error) {
	req, err := transport.JSONRequest(method, a.baseURL()+path, body, nil)
	if err != nil {
		return core.TransportResponse{}, false, err
	}
	resp, err := a.Do(ctx, req)
	if err != nil {
		return core.TransportResponse{}, false, err
	}
	if transport.IsSuccess(resp.StatusCode) {
		return resp, true, nil
	}
	if isFatalSearchStatus(resp.StatusCode) {
		a.Reject("JIRA", resp)
		return resp, false, common.Classify(resp, apiMessages)
	}
	return resp, false, nil
}

// expect turns any non-2xx answer into an error.
func (a *Adapter) expect(resp core.TransportResponse, ok bool, err error) error {
	if err != nil || ok {
		return err
	}
	a.Reject("JIRA", resp)
	return common.Classify(resp, apiMessages)
}

func (a *Adapter) baseURL() string {
	return strings.TrimRight(strings.TrimSpace(a.Setting("jira_base_url")), "/")
}

// Jira labels cannot contain spaces.
func issueLabel(eventType string, payload core.Payload) string {
	return strings.ReplaceAll(common.IssueLabel(eventType, payload), " ", "-")
}

func jqlValue(value string) string {
	if strings.ContainsAny(value, " \"'=!<>~()") {
		return `"` + strings.ReplaceAll(value, `"`, `\"`) + `"`
	}
	return value
}

var _ core.Adapter = (*Adapter)(nil)
