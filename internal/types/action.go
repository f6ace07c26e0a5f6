package types

// ActionKind enumerates the commands the interpreter can produce.
type ActionKind string

const (
	ActionCreateTask    ActionKind = "create_task"
	ActionCompleteTask  ActionKind = "complete_task"
	ActionListTasks     ActionKind = "list_tasks"
	ActionSearchTasks   ActionKind = "search_tasks"
	ActionGenerateBoard ActionKind = "generate_board"
	ActionUnknown       ActionKind = "unknown"
	ActionError         ActionKind = "error"
)

// KnownActionKind reports whether the kind is part of the wire contract.
// "unknown" and "error" are first-class terminal kinds, not failures.
func KnownActionKind(k string) bool {
	switch ActionKind(k) {
	case ActionCreateTask, ActionCompleteTask, ActionListTasks,
		ActionSearchTasks, ActionGenerateBoard, ActionUnknown, ActionError:
		return true
	}
	return false
}

// StructuredAction is the validated, machine-actionable interpretation of
// a free-text command. Field names follow the wire contract between the
// interpreter and downstream consumers: a required "action" string plus
// kind-specific optional fields.
type StructuredAction struct {
	Kind        ActionKind `json:"action"`
	Description string     `json:"description,omitempty"`
	Project     string     `json:"project,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     string     `json:"due_date,omitempty"`
	TaskID      string     `json:"task_id,omitempty"`
	Query       string     `json:"query,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// ErrorAction builds the terminal action surfaced when the provider fails.
// Interpretation never returns a bare error to the caller.
func ErrorAction(msg string) StructuredAction {
	return StructuredAction{Kind: ActionError, Message: msg}
}

// UnknownAction builds the terminal action for input taskflow cannot map
// to any command.
func UnknownAction(msg string) StructuredAction {
	return StructuredAction{Kind: ActionUnknown, Message: msg}
}
