package chat

import (
	"bytes"
	"context"
	_ "embed"
	"text/template"
	"time"

	"github.com/jscott-dev/meetmebot/pkg/adapter"
	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/service/botconfig"
	"github.com/jscott-dev/meetmebot/pkg/tool"
	"github.com/jscott-dev/meetmebot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

//go:embed prompt/system.md
var systemPromptRaw string

var systemPromptTmpl = template.Must(template.New("system").Parse(systemPromptRaw))

// processingErrorMessage is the only reply a transport-level failure can
// produce. HandleMessage never returns a Go error to its caller.
const processingErrorMessage = "Sorry, I encountered an error while thinking. Please try again later."

const defaultCallTimeout = 60 * time.Second

// UseCase orchestrates one chat turn: persona load, model call, at most one
// round of tool execution, and a final model call.
type UseCase struct {
	gemini      adapter.Gemini
	settings    *botconfig.Loader
	registry    *tool.Registry
	callTimeout time.Duration
}

type Option func(*UseCase)

// WithCallTimeout bounds each remote model call
func WithCallTimeout(d time.Duration) Option {
	return func(uc *UseCase) {
		uc.callTimeout = d
	}
}

// New creates a chat use case
func New(gemini adapter.Gemini, settings *botconfig.Loader, registry *tool.Registry, opts ...Option) *UseCase {
	uc := &UseCase{
		gemini:      gemini,
		settings:    settings,
		registry:    registry,
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// HandleMessage runs a single chat turn for the given visitor message and
// returns the assistant's reply. Every failure is absorbed here: the caller
// always gets a user-facing string, never an error.
func (uc *UseCase) HandleMessage(ctx context.Context, message string) string {
	logger := logging.From(ctx)
	logger.Info("received chat message", "length", len(message))

	reply, err := uc.handle(ctx, message)
	if err != nil {
		logger.Error("chat turn failed", "error", err)
		return processingErrorMessage
	}

	return reply
}

func (uc *UseCase) handle(ctx context.Context, message string) (string, error) {
	settings := uc.settings.Load(ctx)

	prompt, err := renderSystemPrompt(settings, uc.registry.Prompts(ctx))
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt, ""),
		Tools:             uc.registry.Specs(),
	}

	// Single-turn history: each invocation starts fresh. Carrying
	// conversation memory across requests needs a session handle the
	// invocation contract does not have.
	contents := []*genai.Content{
		genai.NewContentFromText(message, genai.RoleUser),
	}

	resp, err := uc.generate(ctx, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "first model call failed")
	}

	calls := functionCalls(resp)
	if len(calls) == 0 {
		return replyText(resp)
	}

	contents = append(contents, resp.Candidates[0].Content)
	contents = append(contents, uc.executeTools(ctx, calls))

	// One tool round only. If the second response asks for more tools,
	// the request is not serviced; its text is the final answer.
	resp, err = uc.generate(ctx, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "second model call failed")
	}

	return replyText(resp)
}

func (uc *UseCase) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.callTimeout)
	defer cancel()

	return uc.gemini.GenerateContent(ctx, contents, config)
}

// executeTools runs all requested tool calls and returns their responses as
// one user-role content. Calls run concurrently; each response carries the
// originating call ID, so completion order does not matter. A failing tool
// becomes error data in its response rather than failing the turn, and the
// whole round is bounded by the call timeout: a stuck tool yields a timeout
// result instead of hanging the turn.
func (uc *UseCase) executeTools(ctx context.Context, calls []genai.FunctionCall) *genai.Content {
	ctx, cancel := context.WithTimeout(ctx, uc.callTimeout)
	defer cancel()

	logger := logging.From(ctx)

	results := make([]chan *genai.FunctionResponse, len(calls))
	for i, fc := range calls {
		ch := make(chan *genai.FunctionResponse, 1)
		results[i] = ch

		go func(fc genai.FunctionCall, ch chan<- *genai.FunctionResponse) {
			logger.Info("executing tool", "name", fc.Name, "id", fc.ID)
			resp, err := uc.registry.Execute(ctx, fc)
			if err != nil {
				logger.Warn("tool execution failed", "name", fc.Name, "error", err)
				resp = &genai.FunctionResponse{
					ID:       fc.ID,
					Name:     fc.Name,
					Response: map[string]any{"error": err.Error()},
				}
			}
			ch <- resp
		}(fc, ch)
	}

	parts := make([]*genai.Part, len(calls))
	for i, fc := range calls {
		select {
		case resp := <-results[i]:
			parts[i] = &genai.Part{FunctionResponse: resp}
		case <-ctx.Done():
			// A tool that completed right at the deadline still counts
			select {
			case resp := <-results[i]:
				parts[i] = &genai.Part{FunctionResponse: resp}
			default:
				logger.Warn("tool execution timed out", "name", fc.Name, "id", fc.ID)
				parts[i] = &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       fc.ID,
					Name:     fc.Name,
					Response: map[string]any{"error": "tool execution timed out"},
				}}
			}
		}
	}

	return &genai.Content{
		Role:  genai.RoleUser,
		Parts: parts,
	}
}

// functionCalls collects the tool requests from a model response
func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}

	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.FunctionCall != nil {
			calls = append(calls, *part.FunctionCall)
		}
	}
	return calls
}

// replyText returns the first text block of a model response
func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", goerr.New("model response has no content")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Thought {
			continue
		}
		if part.Text != "" {
			return part.Text, nil
		}
	}

	return "", goerr.New("model response has no text block")
}

func renderSystemPrompt(settings model.BotSettings, toolGuidance string) (string, error) {
	var buf bytes.Buffer
	err := systemPromptTmpl.Execute(&buf, map[string]string{
		"PreferredName":  settings.PreferredName,
		"Instructions":   settings.Instructions,
		"FallbackPhrase": settings.FallbackPhrase,
		"Restrictions":   settings.Restrictions,
		"ToolGuidance":   toolGuidance,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to render system prompt")
	}
	return buf.String(), nil
}
