// ABOUTME: Orchestration loop driving the model through tool-use rounds
// ABOUTME: Emits progress events and exactly one terminal event per run
package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/harper/foodlog/internal/config"
	"github.com/harper/foodlog/internal/llm"
	"github.com/harper/foodlog/internal/models"
)

var (
	// ErrEmptyResponse means the model returned no text on a finalizing turn
	ErrEmptyResponse = errors.New("model returned an empty response")
	// ErrTooManySteps means the iteration budget ran out and forced
	// finalization produced nothing usable either
	ErrTooManySteps = errors.New("analysis took too many steps")
)

// ModelCaller is the transport collaborator. llm.Client satisfies it;
// tests substitute a scripted fake.
type ModelCaller interface {
	CreateMessage(ctx context.Context, req *llm.MessagesRequest) (*llm.MessagesResponse, error)
}

// Analyzer runs meal analyses. One Analyzer may serve concurrent runs;
// all per-run state lives on the goroutine started by Analyze.
type Analyzer struct {
	caller        ModelCaller
	searcher      FoodSearcher
	model         string
	maxTokens     int
	maxIterations int
	searchLimit   int
}

// NewAnalyzer wires the loop to its collaborators
func NewAnalyzer(caller ModelCaller, searcher FoodSearcher, cfg *config.Config) *Analyzer {
	return &Analyzer{
		caller:        caller,
		searcher:      searcher,
		model:         cfg.Model,
		maxTokens:     cfg.MaxTokens,
		maxIterations: cfg.MaxIterations,
		searchLimit:   cfg.SearchLimit,
	}
}

// Analyze starts one analysis run from a plain meal description. It is
// the common single-text form of AnalyzeMessages.
func (a *Analyzer) Analyze(ctx context.Context, description string) <-chan models.ProgressEvent {
	return a.AnalyzeMessages(ctx, []llm.Message{llm.TextMessage(llm.RoleUser, description)})
}

// AnalyzeMessages starts one analysis run seeded with the caller's
// conversation — text or image blocks alike — and returns its event
// stream. The channel closes after the terminal event. Canceling ctx
// stops the run; no event is emitted after cancellation is observed.
func (a *Analyzer) AnalyzeMessages(ctx context.Context, messages []llm.Message) <-chan models.ProgressEvent {
	events := make(chan models.ProgressEvent, 16)
	go a.run(ctx, messages, events)
	return events
}

func (a *Analyzer) run(ctx context.Context, seed []llm.Message, events chan<- models.ProgressEvent) {
	defer close(events)

	runID := uuid.New().String()[:8]
	conversation := append([]llm.Message(nil), seed...)

	for iter := 0; iter < a.maxIterations; iter++ {
		resp, err := a.caller.CreateMessage(ctx, a.request(conversation, searchTools()))
		if err != nil {
			a.emit(ctx, events, models.FailedEvent(err))
			return
		}

		if resp.StopReason == llm.StopToolUse {
			assistant, results, ok := a.executeTools(ctx, events, resp)
			if !ok {
				return
			}
			conversation = append(conversation, assistant, llm.ToolResultMessage(results...))
			continue
		}

		// end_turn or max_tokens
		a.finalize(ctx, events, resp)
		return
	}

	// Iteration budget spent: demand an immediate tool-free answer
	log.Printf("[Analyzer] run %s: iteration budget reached, forcing finalization", runID)
	conversation = append(conversation, llm.TextMessage(llm.RoleUser, finalizeInstruction))

	resp, err := a.caller.CreateMessage(ctx, a.request(conversation, nil))
	if err != nil {
		a.emit(ctx, events, models.FailedEvent(err))
		return
	}
	if strings.TrimSpace(resp.Text()) == "" {
		a.emit(ctx, events, models.FailedEvent(ErrTooManySteps))
		return
	}
	a.finalize(ctx, events, resp)
}

func (a *Analyzer) request(messages []llm.Message, tools []llm.Tool) *llm.MessagesRequest {
	return &llm.MessagesRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    systemPrompt,
		Messages:  messages,
		Tools:     tools,
	}
}

// executeTools runs every tool invocation in the turn concurrently, joins
// them, and builds the assistant echo plus the tool-result blocks. Returns
// ok=false when the run was canceled mid-way.
func (a *Analyzer) executeTools(ctx context.Context, events chan<- models.ProgressEvent, resp *llm.MessagesResponse) (llm.Message, []llm.ContentBlock, bool) {
	for _, block := range resp.Content {
		if block.Type == llm.BlockText && strings.TrimSpace(block.Text) != "" {
			if !a.emit(ctx, events, models.ThinkingEvent(strings.TrimSpace(block.Text))) {
				return llm.Message{}, nil, false
			}
		}
	}

	uses := resp.ToolUses()
	queries := make([]string, len(uses))
	for i, use := range uses {
		queries[i] = toolQuery(use)
		if !a.emit(ctx, events, models.SearchingEvent(queries[i])) {
			return llm.Message{}, nil, false
		}
	}

	payloads := make([]string, len(uses))
	counts := make([]int, len(uses))

	var wg sync.WaitGroup
	for i, use := range uses {
		wg.Add(1)
		go func(i int, use llm.ContentBlock) {
			defer wg.Done()
			payloads[i], counts[i] = executeSearchTool(ctx, a.searcher, use.Name, queries[i], a.searchLimit)
		}(i, use)
	}
	wg.Wait()

	results := make([]llm.ContentBlock, len(uses))
	for i, use := range uses {
		if !a.emit(ctx, events, models.SearchResultEvent(queries[i], counts[i])) {
			return llm.Message{}, nil, false
		}
		results[i] = llm.ContentBlock{
			Type:      llm.BlockToolResult,
			ToolUseID: use.ID,
			Content:   payloads[i],
		}
	}

	assistant := llm.Message{Role: llm.RoleAssistant, Content: resp.Content}
	return assistant, results, true
}

// finalize parses the terminal turn, annotates the meals, and emits the
// terminal event
func (a *Analyzer) finalize(ctx context.Context, events chan<- models.ProgressEvent, resp *llm.MessagesResponse) {
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		a.emit(ctx, events, models.FailedEvent(ErrEmptyResponse))
		return
	}

	analysis, err := ParseAnalysis(text)
	if err != nil {
		a.emit(ctx, events, models.FailedEvent(fmt.Errorf("parsing analysis: %w", err)))
		return
	}

	for i := range analysis.Meals {
		annotateMeal(&analysis.Meals[i])
		for _, f := range analysis.Meals[i].Foods {
			if f.Source == models.SourceEstimate {
				if !a.emit(ctx, events, models.EstimatingEvent(f.Name)) {
					return
				}
			}
		}
	}

	a.emit(ctx, events, models.CompletedEvent(analysis.Meals))
}

// emit sends one event unless the run has been canceled. The explicit
// ctx check first keeps a buffered send from racing an observed cancel.
func (a *Analyzer) emit(ctx context.Context, events chan<- models.ProgressEvent, ev models.ProgressEvent) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case events <- ev:
		return true
	}
}

// toolQuery extracts the single string parameter from a tool invocation
func toolQuery(use llm.ContentBlock) string {
	var input struct {
		Query string `json:"query"`
	}
	if len(use.Input) > 0 {
		_ = json.Unmarshal(use.Input, &input)
	}
	return input.Query
}
