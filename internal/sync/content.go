package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskflow-ai/taskflow/internal/ai"
	"github.com/taskflow-ai/taskflow/internal/types"
)

// titleMarker is the line prefix the issue prompt asks the model to emit.
const titleMarker = "Título:"

// IssueContent generates the issue body for a task. A provider failure is
// tolerated: the reconciler must still be able to mirror tasks offline,
// so the body degrades to a plain rendering of the task itself.
func IssueContent(ctx context.Context, provider ai.Provider, task *types.Task) string {
	if provider != nil {
		if prompt, err := ai.IssuePrompt(task); err == nil {
			if body, err := provider.Generate(ctx, prompt, nil); err == nil && strings.TrimSpace(body) != "" {
				return body
			}
		}
	}
	return fallbackContent(task)
}

// fallbackContent renders an issue body without the model.
func fallbackContent(task *types.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Título:** %s\n\n**Descripción:**\n%s\n", task.Description, task.Description)
	if task.Project != "" {
		fmt.Fprintf(&b, "\nProyecto: %s\n", task.Project)
	}
	if task.Priority != types.PriorityNone {
		fmt.Fprintf(&b, "Prioridad: %s\n", task.Priority)
	}
	return b.String()
}

// ExtractTitle scans generated content for a line carrying the Título:
// marker (with or without emphasis markers around it) and returns the
// remainder of that line with bracket and emphasis characters stripped.
// When no such line exists the fallback is returned.
func ExtractTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimLeft(strings.TrimSpace(line), "*_ ")
		if !strings.HasPrefix(trimmed, titleMarker) {
			continue
		}
		title := strings.TrimPrefix(trimmed, titleMarker)
		title = strings.Map(func(r rune) rune {
			switch r {
			case '*', '_', '[', ']':
				return -1
			}
			return r
		}, title)
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	return fallback
}

// priorityLabels maps Taskwarrior priority letters to issue labels.
var priorityLabels = map[types.Priority]string{
	types.PriorityHigh:   "high-priority",
	types.PriorityMedium: "medium-priority",
	types.PriorityLow:    "low-priority",
}

// DeriveLabels builds the deterministic label set for a task: the
// taskwarrior marker, a priority label when priority is set, a
// project-<name> label, and one tag-<name> label per tag. Everything is
// lowercased; order follows the derivation but only set membership
// matters to the tracker.
func DeriveLabels(task *types.Task) []string {
	labels := []string{"taskwarrior"}
	if l, ok := priorityLabels[task.Priority]; ok {
		labels = append(labels, l)
	}
	if task.Project != "" {
		labels = append(labels, "project-"+strings.ToLower(task.Project))
	}
	for _, tag := range task.Tags {
		labels = append(labels, "tag-"+strings.ToLower(tag))
	}
	return labels
}
