package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/taskflow-ai/taskflow/internal/debug"
	"github.com/taskflow-ai/taskflow/internal/types"
)

// Interpreter turns free text plus a task-context snapshot into a
// validated StructuredAction.
type Interpreter struct {
	provider Provider
}

// NewInterpreter wires an interpreter to a provider.
func NewInterpreter(provider Provider) *Interpreter {
	return &Interpreter{provider: provider}
}

// Interpret resolves userInput into a StructuredAction. It never returns
// an error and never returns a zero action:
//
//   - provider failure → kind "error" carrying the failure description
//   - unparseable or schema-invalid model output → deterministic keyword
//     fallback (which itself bottoms out at kind "unknown")
func (i *Interpreter) Interpret(ctx context.Context, userInput string, snapshot types.ContextSnapshot) types.StructuredAction {
	prompt := InterpretationPrompt(userInput)

	response, err := i.provider.Generate(ctx, prompt, snapshot)
	if err != nil {
		debug.Logf("provider %s failed: %v", i.provider.Name(), err)
		return types.ErrorAction("no pude interpretar el comando: " + err.Error())
	}

	if action, ok := decodeAction(response); ok {
		return action
	}

	debug.Logf("model output failed extraction or validation, using fallback classifier")
	return Classify(userInput)
}

// decodeAction extracts and schema-validates one structured action from
// raw model output.
func decodeAction(response string) (types.StructuredAction, bool) {
	raw, err := ExtractJSON(response)
	if err != nil {
		return types.StructuredAction{}, false
	}

	// Decode into a loose map first: a wrong-typed field must reject the
	// whole object, not silently zero it.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return types.StructuredAction{}, false
	}

	kind, ok := stringField(fields, "action")
	if !ok || !types.KnownActionKind(kind) {
		return types.StructuredAction{}, false
	}

	action := types.StructuredAction{Kind: types.ActionKind(kind)}
	for name, dst := range map[string]*string{
		"description": &action.Description,
		"project":     &action.Project,
		"priority":    &action.Priority,
		"due_date":    &action.DueDate,
		"task_id":     &action.TaskID,
		"query":       &action.Query,
		"message":     &action.Message,
	} {
		raw, present := fields[name]
		if !present || string(raw) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return types.StructuredAction{}, false
		}
		*dst = s
	}

	if raw, present := fields["tags"]; present && string(raw) != "null" {
		var tags []string
		if err := json.Unmarshal(raw, &tags); err != nil {
			return types.StructuredAction{}, false
		}
		action.Tags = tags
	}

	return action, true
}

func stringField(fields map[string]json.RawMessage, name string) (string, bool) {
	raw, present := fields[name]
	if !present {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Keyword sets for the offline classifier. Disjoint on purpose: an input
// matching two sets would be order-dependent.
var (
	createKeywords   = []string{"crear", "añadir", "nueva tarea"}
	completeKeywords = []string{"completar", "terminar", "finalizar"}
	listKeywords     = []string{"listar", "mostrar", "ver tareas"}
)

// Classify is the deterministic non-AI fallback: a pure function of the
// lowercased input with no network access, so interpretation always has a
// defined result offline and under test.
func Classify(userInput string) types.StructuredAction {
	lower := strings.ToLower(userInput)

	if containsAny(lower, createKeywords) {
		return types.StructuredAction{
			Kind:        types.ActionCreateTask,
			Description: userInput,
		}
	}
	if containsAny(lower, completeKeywords) {
		// task_id deliberately absent: the caller supplies it or the
		// dispatcher rejects the action.
		return types.StructuredAction{Kind: types.ActionCompleteTask}
	}
	if containsAny(lower, listKeywords) {
		return types.StructuredAction{Kind: types.ActionListTasks}
	}

	return types.UnknownAction("No pude interpretar el comando")
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
