package pivotaltracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/integrations/common"
	"github.com/goliatone/go-relay/transport"
	"github.com/tidwall/gjson"
)

const (
	Key         = "pivotal_tracker"
	APIURL      = "https://www.pivotaltracker.com/services/v5"
	TokenHeader = "X-TrackerToken"
	StoryType   = "bug"
)

var SupportedEvents = []string{
	core.EventWebhookTimeout,
	core.EventRunTestFailure,
	core.EventIntegrationTest,
}

// Stories in these states are finished and never reopened by a repeat.
var finalStoryStates = []string{"delivered", "accepted"}

var apiMessages = common.APIMessages{
	API:          "Pivotal Tracker",
	Unauthorized: "The authorization token is invalid.",
	NotFound:     "The project ID provided was not found.",
}

type Comment struct {
	Text string `json:"text"`
}

type Story struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StoryType   string    `json:"story_type"`
	Labels      []string  `json:"labels"`
	Comments    []Comment `json:"comments"`
}

type storyFormatter func(payload core.Payload) Story

var storyFormatters = map[string]storyFormatter{
	core.EventWebhookTimeout: func(payload core.Payload) Story {
		return Story{
			Name: fmt.Sprintf("Your %s webhook has timed out", common.ProductName),
			Description: fmt.Sprintf("Your webhook has timed out for %s. If you need help debugging, please contact us at %s",
				common.RunInfo(payload),
				common.SupportEmail,
			),
			Comments: []Comment{{Text: "Environment: " + common.EnvironmentName(payload)}},
		}
	},
	core.EventRunTestFailure: func(payload core.Payload) Story {
		title := payload.String("failed_test.title")
		return Story{
			Name:        fmt.Sprintf("%s found a bug in '%s'", common.ProductName, title),
			Description: fmt.Sprintf("Failed test title: %s\n%s", title, payload.String("frontend_url")),
			Comments:    []Comment{{Text: "Environment: " + common.EnvironmentName(payload)}},
		}
	},
	core.EventIntegrationTest: func(core.Payload) Story {
		return Story{
			Name:        "Integration Test",
			Description: "Your Pivotal Tracker integration works!",
			Comments:    []Comment{},
		}
	},
}

// Adapter files a bug story per failure label, relabelling the open story
// when the same failure repeats.
type Adapter struct {
	common.Base
}

func New(in core.AdapterInput) (core.Adapter, error) {
	return &Adapter{Base: common.NewBase(Key, in, SupportedEvents...)}, nil
}

func (a *Adapter) SendEvent(ctx context.Context) error {
	if !a.ShouldSend() {
		return nil
	}
	format, ok := storyFormatters[a.In.EventType]
	if !ok {
		return core.NewMisconfiguredIntegrationError(
			fmt.Sprintf("Pivotal Tracker has no story template for event %s", a.In.EventType),
			nil,
		)
	}
	label := common.IssueLabel(a.In.EventType, a.Payload())

	storyID, err := a.findOpenStory(ctx, label)
	if err != nil {
		return err
	}
	if storyID != "" {
		_, err := a.call(ctx, http.MethodPut, "/stories/"+url.PathEscape(storyID), nil, map[string]any{
			"labels": []string{label, common.RepeatedFailuresLabel},
		})
		return err
	}

	story := format(a.Payload())
	story.StoryType = StoryType
	story.Labels = []string{label}
	_, err = a.call(ctx, http.MethodPost, "/stories", nil, story)
	return err
}

func (a *Adapter) findOpenStory(ctx context.Context, label string) (string, error) {
	query := fmt.Sprintf(`label:"%s" -state:%s`, label, strings.Join(finalStoryStates, ","))
	resp, err := a.call(ctx, http.MethodGet, "/search", map[string]string{"query": query}, nil)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(resp.Body, "stories.stories.0.id").String(), nil
}

func (a *Adapter) call(ctx context.Context, method string, path string, query map[string]string, body any) (core.TransportResponse, error) {
	req, err := transport.JSONRequest(method, a.projectURL()+path, body, map[string]string{
		TokenHeader: a.Setting("api_token"),
	})
	if err != nil {
		return core.TransportResponse{}, err
	}
	req.Query = query
	resp, err := a.Do(ctx, req)
	if err != nil {
		return core.TransportResponse{}, err
	}
	if !transport.IsSuccess(resp.StatusCode) {
		a.Reject("Pivotal Tracker", resp)
		return resp, common.Classify(resp, apiMessages)
	}
	return resp, nil
}

func (a *Adapter) projectURL() string {
	return APIURL + "/projects/" + url.PathEscape(a.Setting("project_id"))
}

var _ core.Adapter = (*Adapter)(nil)
