//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
)

// scenarioState holds what one scenario has sent and received.
type scenarioState struct {
	baseURL   string
	client    *http.Client
	workspace string
	saved     map[string]string

	status int
	body   []byte
}

func newScenarioState(baseURL string) *scenarioState {
	return &scenarioState{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		saved:   make(map[string]string),
	}
}

// reset gives each scenario a workspace of its own so runs against a
// shared server do not see each other's state.
func (s *scenarioState) reset(sc *godog.Scenario) {
	s.workspace = "scenario-" + sc.Id
	s.saved = make(map[string]string)
	s.status = 0
	s.body = nil
}

// initializeScenario registers the step definitions against baseURL.
func initializeScenario(baseURL string) func(*godog.ScenarioContext) {
	return func(ctx *godog.ScenarioContext) {
		s := newScenarioState(baseURL)

		ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
			s.reset(sc)
			return ctx, nil
		})

		ctx.Step(`^the toolkit is running$`, s.theToolkitIsRunning)
		ctx.Step(`^I am working in workspace "([^"]*)"$`, s.iAmWorkingInWorkspace)
		ctx.Step(`^I send (GET|POST|PUT|PATCH|DELETE) "([^"]*)"$`, s.iSend)
		ctx.Step(`^I send (POST|PUT|PATCH) "([^"]*)" with body:$`, s.iSendWithBody)
		ctx.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
		ctx.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
		ctx.Step(`^the response should not contain "([^"]*)"$`, s.theResponseShouldNotContain)
		ctx.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, s.theJSONFieldShouldBe)
		ctx.Step(`^the JSON field "([^"]*)" should have (\d+) items?$`, s.theJSONFieldShouldHaveItems)
		ctx.Step(`^I remember the JSON field "([^"]*)" as "([^"]*)"$`, s.iRememberTheJSONField)
	}
}

func (s *scenarioState) theToolkitIsRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/-/live", nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("toolkit is not running at %s: %w", s.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("liveness probe returned %d", resp.StatusCode)
	}

	return nil
}

func (s *scenarioState) iAmWorkingInWorkspace(name string) error {
	s.workspace = name
	return nil
}

func (s *scenarioState) iSend(ctx context.Context, method, path string) error {
	return s.send(ctx, method, path, nil)
}

func (s *scenarioState) iSendWithBody(ctx context.Context, method, path string, body *godog.DocString) error {
	return s.send(ctx, method, path, []byte(s.expand(body.Content)))
}

func (s *scenarioState) send(ctx context.Context, method, path string, body []byte) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+s.expand(path), r)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.workspace != "" {
		req.Header.Set(subjectHeader, s.workspace)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	s.status = resp.StatusCode
	s.body, err = io.ReadAll(resp.Body)

	return err
}

// expand replaces {name} with values saved by "I remember".
func (s *scenarioState) expand(text string) string {
	for name, value := range s.saved {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}

	return text
}

func (s *scenarioState) theResponseStatusShouldBe(want int) error {
	if s.status != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, s.status, s.body)
	}

	return nil
}

func (s *scenarioState) theResponseShouldContain(text string) error {
	if !bytes.Contains(s.body, []byte(s.expand(text))) {
		return fmt.Errorf("response does not contain %q: %s", text, s.body)
	}

	return nil
}

func (s *scenarioState) theResponseShouldNotContain(text string) error {
	if bytes.Contains(s.body, []byte(s.expand(text))) {
		return fmt.Errorf("response unexpectedly contains %q: %s", text, s.body)
	}

	return nil
}

func (s *scenarioState) theJSONFieldShouldBe(path, want string) error {
	v, err := s.field(path)
	if err != nil {
		return err
	}

	got := fmt.Sprint(v)
	if got != s.expand(want) {
		return fmt.Errorf("field %s is %q, want %q", path, got, want)
	}

	return nil
}

func (s *scenarioState) theJSONFieldShouldHaveItems(path string, want int) error {
	v, err := s.field(path)
	if err != nil {
		return err
	}

	items, ok := v.([]any)
	if !ok {
		return fmt.Errorf("field %s is %T, not an array", path, v)
	}
	if len(items) != want {
		return fmt.Errorf("field %s has %d items, want %d", path, len(items), want)
	}

	return nil
}

func (s *scenarioState) iRememberTheJSONField(path, name string) error {
	v, err := s.field(path)
	if err != nil {
		return err
	}

	s.saved[name] = fmt.Sprint(v)

	return nil
}

// field walks a dotted path such as "items.0.id" through the response body.
func (s *scenarioState) field(path string) (any, error) {
	var doc any
	if err := json.Unmarshal(s.body, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}

	cur := doc
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %s: no key %q", path, part)
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("field %s: bad index %q", path, part)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("field %s: %q is not a container", path, part)
		}
	}

	return cur, nil
}

// TestFeatures runs the feature files against BASE_URL, or against an
// in-process toolkit backed by the memory store when BASE_URL is unset.
func TestFeatures(t *testing.T) {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		tk := newToolkit(t, toolkitOptions{
			Storage: config.StorageConfig{Driver: "memory"},
			Archive: config.ArchiveConfig{Driver: "memory"},
		})
		baseURL = tk.URL
	}

	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario(baseURL),
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
