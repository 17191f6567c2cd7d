package executor

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"agent-daemon/internal/application/port/input"
	"agent-daemon/internal/application/port/output"
	"agent-daemon/internal/application/service"
	"agent-daemon/internal/domain/entity"
)

var _ input.TaskDispatcher = (*UseCase)(nil)

const (
	googleURL       = "https://google.com"
	googleSearchURL = "https://google.com/search?q="

	errNoTask = "No task description provided"
)

type Parser interface {
	Parse(instruction string) entity.TaskDescriptor
}

type Automation interface {
	Run(ctx context.Context, task entity.TaskDescriptor) entity.AutomationOutcome
}

type UseCase struct {
	parser     Parser
	automation Automation
	spawner    output.SpawnerPort
	sites      *service.SiteRegistry
	metrics    output.MetricsPort
	logger     output.LoggerPort
}

func New(
	parser Parser,
	automation Automation,
	spawner output.SpawnerPort,
	sites *service.SiteRegistry,
	metrics output.MetricsPort,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		parser:     parser,
		automation: automation,
		spawner:    spawner,
		sites:      sites,
		metrics:    metrics,
		logger:     logger,
	}
}

// Dispatch answers immediately. With useBrowser set it also starts one
// background automation run whose outcome the caller never sees.
func (uc *UseCase) Dispatch(ctx context.Context, task string, useBrowser bool) (result entity.DispatchResult) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("Dispatch panicked", "task", task, "panic", fmt.Sprint(r))
			result = entity.ErrorResult(fmt.Sprint(r))
		}
		if uc.metrics != nil {
			uc.metrics.RecordDispatch(string(result.Status))
		}
	}()

	if strings.TrimSpace(task) == "" {
		return entity.ErrorResult(errNoTask)
	}

	if !useBrowser {
		uc.logger.Info("Deferring task to language model", "task", task)
		return llmDeferral(task)
	}

	descriptor := uc.parser.Parse(task)
	taskID := uuid.NewString()

	uc.logger.Info("Task parsed",
		"task_id", taskID,
		"site", descriptor.Website,
		"query", descriptor.SearchQuery,
		"type", descriptor.TaskType,
		"actions", descriptor.Actions,
	)

	runLog := uc.logger.WithField("task_id", taskID)
	uc.spawner.Spawn("automation:"+taskID, func(ctx context.Context) {
		out := uc.automation.Run(ctx, descriptor)
		runLog.Debug("Background automation returned", "state", out.State)
	})

	return uc.acknowledge(taskID, descriptor)
}

func llmDeferral(task string) entity.DispatchResult {
	return entity.DispatchResult{
		Status: entity.StatusLLMResponse,
		Result: &entity.DispatchPayload{
			Message: "This request does not need the browser and should be answered by the language model",
			Task:    task,
			UseLLM:  true,
			Summary: fmt.Sprintf("Answering with the language model: %s", task),
		},
	}
}

func (uc *UseCase) acknowledge(taskID string, d entity.TaskDescriptor) entity.DispatchResult {
	payload := &entity.DispatchPayload{
		TaskID:      taskID,
		Task:        d.OriginalInstruction,
		Website:     d.Website,
		SearchQuery: d.SearchQuery,
		TaskType:    d.TaskType,
	}

	if d.Website == entity.DefaultSite {
		payload.URL = googleURL
		if d.HasQuery() {
			payload.URL = googleSearchURL + url.QueryEscape(d.SearchQuery)
		}
		payload.Action = "search_only"
		if d.HasAction(entity.ActionClickFirstResult) {
			payload.Action = "search_and_click"
		}
		payload.Message, payload.Summary = googleWording(d)
	} else {
		site := uc.sites.Resolve(d.Website)
		payload.URL = site.BaseURL
		payload.Action = "navigate"
		if d.HasQuery() {
			payload.Action = "navigate_and_search"
		}
		payload.Message = fmt.Sprintf("Opening %s in the browser", site.Name)
		payload.Summary = siteSummary(site.Name, d)
	}

	return entity.DispatchResult{Status: entity.StatusSuccess, Result: payload}
}

func googleWording(d entity.TaskDescriptor) (message, summary string) {
	if !d.HasQuery() {
		return "Opening Google in the browser", "Opened Google, the browser is ready for you"
	}
	message = fmt.Sprintf("Searching Google for '%s'", d.SearchQuery)
	if d.HasAction(entity.ActionClickFirstResult) {
		return message, fmt.Sprintf("Searching Google for '%s' and opening the first result", d.SearchQuery)
	}
	return message, fmt.Sprintf("Searching Google for '%s', results will appear in the browser", d.SearchQuery)
}

func siteSummary(name string, d entity.TaskDescriptor) string {
	switch d.TaskType {
	case entity.TaskTypeShopping:
		if d.HasQuery() {
			return fmt.Sprintf("Shopping for '%s' on %s", d.SearchQuery, name)
		}
		return fmt.Sprintf("Opening %s so you can start shopping", name)
	case entity.TaskTypeMedia:
		if d.HasQuery() {
			return fmt.Sprintf("Finding '%s' on %s", d.SearchQuery, name)
		}
		return fmt.Sprintf("Opening %s so you can browse and watch", name)
	case entity.TaskTypeWeather:
		if d.HasQuery() {
			return fmt.Sprintf("Checking the weather for '%s' on %s", d.SearchQuery, name)
		}
		return fmt.Sprintf("Opening %s to check the weather", name)
	default:
		if d.HasQuery() {
			return fmt.Sprintf("Searching %s for '%s'", name, d.SearchQuery)
		}
		return fmt.Sprintf("Opening %s", name)
	}
}
