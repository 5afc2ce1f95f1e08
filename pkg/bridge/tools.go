package bridge

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/telavoice/callbridge/pkg/realtime"
	"github.com/telavoice/callbridge/pkg/report"
	"github.com/telavoice/callbridge/pkg/tools"
)

// pendingCall is one tool invocation awaiting its result.
type pendingCall struct {
	turnID string
	name   string
	args   string
}

// toolResult is a resolved tool call delivered back to the run loop.
type toolResult struct {
	turnID string
	callID string
	name   string
	args   string
	output string
	failed bool
}

// toolFailure is the structured failure payload sent to the model so
// the assistant can tell the caller what went wrong.
type toolFailure struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message"`
}

func failureOutput(message string) string {
	out, _ := json.Marshal(toolFailure{Success: false, ErrorMessage: message})
	return string(out)
}

// toolDeclarations maps the catalog into the model's function format.
func (s *Session) toolDeclarations() []realtime.Tool {
	all := s.cfg.Catalog.All()
	decls := make([]realtime.Tool, 0, len(all))
	for _, t := range all {
		decls = append(decls, realtime.Tool{
			Type:        "function",
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Schema(),
		})
	}
	return decls
}

// onResponseDone inspects a completed model turn for tool-call
// requests and dispatches each without blocking the audio pump.
func (s *Session) onResponseDone(ev *realtime.ServerEvent) {
	calls := ev.Response.FunctionCalls()
	if len(calls) == 0 {
		return
	}
	turnID := ev.Response.ID
	s.turns[turnID] = len(calls)
	for _, call := range calls {
		s.dispatchTool(turnID, call)
	}
}

// dispatchTool starts one tool invocation. Unknown names and malformed
// arguments are resolved immediately with synthesized failures, without
// an external call.
func (s *Session) dispatchTool(turnID string, call realtime.ConversationItem) {
	slog.Info("tool call requested",
		"stream_sid", s.streamSID, "tool", call.Name, "call_id", call.CallID)

	tool := s.cfg.Catalog.Lookup(call.Name)
	if tool == nil {
		slog.Warn("unknown tool requested", "stream_sid", s.streamSID, "tool", call.Name)
		s.handleToolResult(toolResult{
			turnID: turnID,
			callID: call.CallID,
			name:   call.Name,
			args:   call.Arguments,
			output: failureOutput(fmt.Sprintf("Unknown function %s", call.Name)),
			failed: true,
		})
		return
	}

	s.pending[call.CallID] = &pendingCall{turnID: turnID, name: call.Name, args: call.Arguments}

	go func() {
		res := toolResult{
			turnID: turnID,
			callID: call.CallID,
			name:   call.Name,
			args:   call.Arguments,
		}
		out, err := tool.Invoke(s.ctx, call.Arguments)
		if err != nil {
			slog.Warn("tool invocation failed",
				"stream_sid", s.streamSID, "tool", call.Name, "call_id", call.CallID, "error", err)
			res.output = failureOutput(fmt.Sprintf("The %s service failed to respond.", call.Name))
			res.failed = true
		} else if data, merr := json.Marshal(out); merr != nil {
			res.output = failureOutput(fmt.Sprintf("The %s service returned an unusable result.", call.Name))
			res.failed = true
		} else {
			res.output = string(data)
		}

		// Deliver through the run loop; drop silently if the session is
		// already tearing down.
		select {
		case s.toolResults <- res:
		case <-s.done:
		}
	}()
}

// handleToolResult delivers one resolved call back to the model and
// resumes generation once the whole turn has resolved, so the model
// reacts to the complete set of results rather than partial
// information.
func (s *Session) handleToolResult(res toolResult) {
	delete(s.pending, res.callID)

	s.record.ToolOutcomes = append(s.record.ToolOutcomes, report.ToolOutcome{
		CallID:    res.callID,
		Name:      res.name,
		Arguments: res.args,
		Output:    res.output,
		Failed:    res.failed,
	})
	if res.name == tools.FindLocationName && !res.failed {
		s.noteLocationOutcome(res)
	}

	if err := s.model.AddFunctionCallOutput(res.callID, res.output); err != nil {
		slog.Warn("tool result delivery failed",
			"stream_sid", s.streamSID, "call_id", res.callID, "error", err)
	}

	remaining, ok := s.turns[res.turnID]
	if !ok {
		return
	}
	if remaining > 1 {
		s.turns[res.turnID] = remaining - 1
		return
	}
	delete(s.turns, res.turnID)
	if err := s.model.CreateResponse(); err != nil {
		slog.Warn("resume generation failed", "stream_sid", s.streamSID, "error", err)
	}
}

// noteLocationOutcome folds a successful find_location result into the
// incident record.
func (s *Session) noteLocationOutcome(res toolResult) {
	var args tools.FindLocationArgs
	if err := json.Unmarshal([]byte(res.args), &args); err != nil {
		return
	}
	var result tools.FindLocationResult
	if err := json.Unmarshal([]byte(res.output), &result); err != nil || !result.Success {
		return
	}
	s.record.NoteLocationSearch(args.LocationQuery, result.FoundLocations)
}
