package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/taskflow-ai/taskflow/internal/debug"
	"github.com/taskflow-ai/taskflow/internal/types"
)

// warriorTimeLayout is Taskwarrior's export timestamp format.
const warriorTimeLayout = "20060102T150405Z"

// rcOverrides keep every invocation non-interactive and machine-readable.
var rcOverrides = []string{
	"rc.confirmation=off",
	"rc.json.array=on",
	"rc.verbose=nothing",
}

// Warrior is the Store backed by the Taskwarrior command-line binary.
type Warrior struct {
	binary string
}

// NewWarrior builds a Taskwarrior-backed store. binary defaults to "task".
func NewWarrior(binary string) *Warrior {
	if binary == "" {
		binary = "task"
	}
	return &Warrior{binary: binary}
}

// warriorTask is Taskwarrior's export schema for the fields taskflow uses.
type warriorTask struct {
	UUID        string   `json:"uuid"`
	ID          int      `json:"id"`
	Description string   `json:"description"`
	Project     string   `json:"project"`
	Priority    string   `json:"priority"`
	Due         string   `json:"due"`
	Tags        []string `json:"tags"`
	Status      string   `json:"status"`
	Entry       string   `json:"entry"`
	Modified    string   `json:"modified"`
}

func (w *Warrior) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append(append([]string{}, rcOverrides...), args...)
	cmd := exec.CommandContext(ctx, w.binary, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	debug.Logf("taskwarrior: %s %s", w.binary, strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", w.binary, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// export runs `task [filter...] export` and converts the result.
func (w *Warrior) export(ctx context.Context, filter ...string) ([]*types.Task, error) {
	out, err := w.run(ctx, append(filter, "export")...)
	if err != nil {
		return nil, &types.StoreError{Op: "export", Err: err}
	}

	var raw []warriorTask
	if len(bytes.TrimSpace(out)) > 0 {
		if err := json.Unmarshal(out, &raw); err != nil {
			return nil, &types.StoreError{Op: "export", Err: fmt.Errorf("parsing export: %w", err)}
		}
	}

	tasks := make([]*types.Task, 0, len(raw))
	for i := range raw {
		tasks = append(tasks, fromWarrior(&raw[i]))
	}
	return tasks, nil
}

func fromWarrior(wt *warriorTask) *types.Task {
	t := &types.Task{
		UUID:        wt.UUID,
		ID:          wt.ID,
		Description: wt.Description,
		Project:     wt.Project,
		Priority:    types.Priority(wt.Priority),
		Tags:        wt.Tags,
		Status:      types.Status(wt.Status),
	}
	t.Due = parseWarriorTime(wt.Due)
	t.Entry = parseWarriorTime(wt.Entry)
	t.Modified = parseWarriorTime(wt.Modified)
	return t
}

func parseWarriorTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(warriorTimeLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// Add implements Store.
func (w *Warrior) Add(ctx context.Context, t NewTask) (*types.Task, error) {
	if strings.TrimSpace(t.Description) == "" {
		return nil, &types.ValidationError{Kind: types.ActionCreateTask, Field: "description"}
	}

	args := []string{"add", t.Description}
	if t.Project != "" {
		args = append(args, "project:"+t.Project)
	}
	if t.Priority != types.PriorityNone {
		args = append(args, "priority:"+string(t.Priority))
	}
	if t.Due != nil {
		args = append(args, "due:"+t.Due.Format(time.DateOnly))
	}
	for _, tag := range t.Tags {
		args = append(args, "+"+tag)
	}

	if _, err := w.run(ctx, args...); err != nil {
		return nil, &types.StoreError{Op: "add", Err: err}
	}

	// +LATEST resolves to the task the add just created.
	created, err := w.export(ctx, "+LATEST")
	if err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, &types.StoreError{Op: "add", Err: fmt.Errorf("created task not found in export")}
	}
	return created[0], nil
}

// Complete implements Store.
func (w *Warrior) Complete(ctx context.Context, taskID string) (*types.Task, error) {
	t, err := w.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := w.run(ctx, t.UUID, "done"); err != nil {
		return nil, &types.StoreError{Op: "complete", Err: err}
	}
	t.Status = types.StatusCompleted
	return t, nil
}

// List implements Store.
func (w *Warrior) List(ctx context.Context, project string, status types.Status) ([]*types.Task, error) {
	if status == "" {
		status = types.StatusPending
	}
	filter := []string{"status:" + string(status)}
	if project != "" {
		filter = append(filter, "project:"+project)
	}
	return w.export(ctx, filter...)
}

// Search implements Store. Matching happens here rather than through
// Taskwarrior's own filter language so memory and warrior stores behave
// identically.
func (w *Warrior) Search(ctx context.Context, query string) ([]*types.Task, error) {
	tasks, err := w.List(ctx, "", types.StatusPending)
	if err != nil {
		return nil, err
	}
	return filterByDescription(tasks, query), nil
}

// GetByID implements Store. Accepts a display id or a uuid.
func (w *Warrior) GetByID(ctx context.Context, id string) (*types.Task, error) {
	tasks, err := w.export(ctx)
	if err != nil {
		return nil, err
	}
	if t := findByID(tasks, id); t != nil {
		return t, nil
	}
	return nil, &types.StoreError{Op: "get", Err: fmt.Errorf("task %q: %w", id, types.ErrNotFound)}
}

// All implements Store.
func (w *Warrior) All(ctx context.Context) ([]*types.Task, error) {
	return w.export(ctx)
}

// Projects implements Store.
func (w *Warrior) Projects(ctx context.Context) ([]string, error) {
	tasks, err := w.export(ctx)
	if err != nil {
		return nil, err
	}
	return distinctProjects(tasks), nil
}

// Shared helpers used by both store implementations.

func filterByDescription(tasks []*types.Task, query string) []*types.Task {
	q := strings.ToLower(query)
	var matches []*types.Task
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Description), q) {
			matches = append(matches, t)
		}
	}
	return matches
}

func findByID(tasks []*types.Task, id string) *types.Task {
	for _, t := range tasks {
		if t.UUID == id {
			return t
		}
		if n, err := strconv.Atoi(id); err == nil && t.ID == n && t.ID != 0 {
			return t
		}
	}
	return nil
}

func distinctProjects(tasks []*types.Task) []string {
	seen := make(map[string]bool)
	var projects []string
	for _, t := range tasks {
		if t.Project != "" && !seen[t.Project] {
			seen[t.Project] = true
			projects = append(projects, t.Project)
		}
	}
	sort.Strings(projects)
	return projects
}
