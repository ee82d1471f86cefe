package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"runway-agent/internal/llm"

	"github.com/sirupsen/logrus"
)

// DefaultMaxIterations caps the think/act cycles of a single question.
const DefaultMaxIterations = 30

const stoppedOutput = "Agent stopped due to iteration limit."

const systemPrompt = `You are a professional investment due-diligence assistant.
Your goal is to help the user analyze a startup and answer with facts gathered from your tools.
When a question mentions cash flow, runway, financing or forecasts together with concrete numbers, you must use AnalyzeFinancialScenario.
Write the final answer in the language of the question.`

const promptTemplate = `Answer the following questions as best you can. You have access to the following tools:

%s
Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [%s]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question

Begin!

Previous conversation history:
%s
Question: %s
Thought:%s`

var (
	actionRe      = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
	actionOnlyRe  = regexp.MustCompile(`Action\s*\d*\s*:`)
	missingAction = errors.New("invalid format: missing 'Action:' after 'Thought:'")
	missingInput  = errors.New("invalid format: missing 'Action Input:' after 'Action:'")
	bothOutcomes  = errors.New("invalid format: output contains both a final answer and an action")
)

// Step is one completed tool call.
type Step struct {
	Thought     string `json:"thought,omitempty"`
	Action      string `json:"action"`
	ActionInput string `json:"action_input"`
	Observation string `json:"observation"`
}

// Answer is the result of one question.
type Answer struct {
	SessionID  string `json:"session_id"`
	Output     string `json:"output"`
	Steps      []Step `json:"steps"`
	Iterations int    `json:"iterations"`
	// Stopped is true when the iteration cap ended the run.
	Stopped bool `json:"stopped"`
}

// decision is the parsed model output of one iteration.
type decision struct {
	log         string
	thought     string
	final       bool
	output      string
	action      string
	actionInput string
}

type state int

const (
	statePrompt state = iota
	stateDispatch
	stateObserve
	stateDone
)

// Agent runs the prompt -> parse -> dispatch -> observe cycle against a tool registry.
type Agent struct {
	MaxIterations int

	provider llm.Provider
	tools    *Registry
	log      *logrus.Logger
}

func New(p llm.Provider, tools *Registry, log *logrus.Logger) *Agent {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Agent{MaxIterations: DefaultMaxIterations, provider: p, tools: tools, log: log}
}

func (a *Agent) Tools() *Registry { return a.tools }

// Ask answers question within session s and records the exchange in its memory.
func (a *Agent) Ask(ctx context.Context, s *Session, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("question is empty")
	}
	limit := a.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}

	history := s.Transcript()
	ans := &Answer{SessionID: s.ID}
	var scratch strings.Builder
	var cur decision
	var observation string

	st := statePrompt
	for st != stateDone {
		switch st {
		case statePrompt:
			if ans.Iterations >= limit {
				ans.Stopped = true
				ans.Output = stoppedOutput
				st = stateDone
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			ans.Iterations++
			prompt := fmt.Sprintf(promptTemplate, a.tools.describe(), strings.Join(a.tools.Names(), ", "),
				history, question, scratch.String())
			raw, err := a.provider.Generate(ctx, systemPrompt, prompt, llm.Options{Temperature: llm.Float(0)})
			if err != nil {
				return nil, fmt.Errorf("agent iteration %d: %w", ans.Iterations, err)
			}
			d, perr := parseDecision(raw)
			switch {
			case perr != nil:
				a.log.WithError(perr).WithField("iteration", ans.Iterations).Debug("unparseable model output")
				cur = decision{log: d.log, action: "_Exception"}
				observation = perr.Error() + ". Follow the required format."
				st = stateObserve
			case d.final:
				ans.Output = d.output
				st = stateDone
			default:
				cur = d
				st = stateDispatch
			}

		case stateDispatch:
			out, err := a.tools.Invoke(ctx, cur.action, cur.actionInput)
			if err != nil {
				a.log.WithError(err).WithField("tool", cur.action).Warn("tool call failed")
				out = "Error: " + err.Error()
			}
			observation = out
			ans.Steps = append(ans.Steps, Step{
				Thought:     cur.thought,
				Action:      cur.action,
				ActionInput: cleanInput(cur.actionInput),
				Observation: out,
			})
			st = stateObserve

		case stateObserve:
			scratch.WriteString(cur.log)
			scratch.WriteString("\nObservation: ")
			scratch.WriteString(observation)
			scratch.WriteString("\nThought: ")
			st = statePrompt
		}
	}

	a.log.WithFields(logrus.Fields{
		"session":    s.ID,
		"iterations": ans.Iterations,
		"tool_calls": len(ans.Steps),
		"stopped":    ans.Stopped,
	}).Info("agent answered")

	s.Append(RoleUser, question)
	s.Append(RoleAssistant, ans.Output)
	return ans, nil
}

// parseDecision reads one model completion. Anything the model wrote after a
// hallucinated "Observation:" is discarded.
func parseDecision(raw string) (decision, error) {
	text := raw
	if i := strings.Index(text, "\nObservation:"); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimRight(text, " \t\n")
	d := decision{log: text}

	const finalMarker = "Final Answer:"
	fi := strings.Index(text, finalMarker)
	m := actionRe.FindStringSubmatch(text)

	if m != nil {
		if fi >= 0 {
			return d, bothOutcomes
		}
		d.action = strings.TrimSpace(strings.Trim(strings.TrimSpace(m[1]), "*"))
		d.actionInput = strings.TrimSpace(m[2])
		d.thought = thoughtBefore(text)
		return d, nil
	}
	if fi >= 0 {
		d.final = true
		d.output = strings.TrimSpace(text[fi+len(finalMarker):])
		return d, nil
	}
	if actionOnlyRe.MatchString(text) {
		return d, missingInput
	}
	return d, missingAction
}

func thoughtBefore(text string) string {
	i := strings.Index(text, "Action")
	if i < 0 {
		return ""
	}
	t := strings.TrimSpace(text[:i])
	return strings.TrimSpace(strings.TrimPrefix(t, "Thought:"))
}
