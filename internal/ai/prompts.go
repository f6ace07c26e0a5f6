package ai

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/taskflow-ai/taskflow/internal/types"
)

// interpretationPrompt asks the model for exactly one JSON object on the
// wire contract. The examples double as few-shot anchors; everything
// outside the JSON is tolerated by the extractor.
const interpretationPrompt = `Eres un asistente de gestión de tareas que interpreta comandos en lenguaje natural.
Debes convertir el siguiente comando del usuario en una acción estructurada.

Comando del usuario: "%s"

Responde ÚNICAMENTE con un JSON válido que contenga:
{
    "action": "create_task|complete_task|list_tasks|search_tasks|generate_board|unknown",
    "description": "descripción de la tarea (si aplica)",
    "project": "nombre del proyecto (si aplica)",
    "priority": "low|normal|high (si aplica)",
    "due_date": "fecha límite en formato natural (si aplica)",
    "task_id": "ID de la tarea (si aplica)",
    "tags": ["lista", "de", "etiquetas"],
    "query": "término de búsqueda (si aplica)",
    "message": "mensaje de respuesta al usuario"
}

Ejemplos:
- "Crea una tarea para revisar el código" → {"action": "create_task", "description": "revisar el código", "message": "Tarea creada para revisar el código"}
- "Completa la tarea 5" → {"action": "complete_task", "task_id": "5", "message": "Tarea 5 completada"}
- "Muestra mis tareas pendientes" → {"action": "list_tasks", "message": "Aquí están tus tareas pendientes"}
- "Genera tablero kanban del proyecto web" → {"action": "generate_board", "project": "web", "message": "Generando tablero Kanban del proyecto web"}`

// InterpretationPrompt renders the command-interpretation prompt for one
// user input.
func InterpretationPrompt(userInput string) string {
	return fmt.Sprintf(interpretationPrompt, userInput)
}

// issuePromptTemplate turns a task into a GitHub issue draft. The model
// is asked for a "**Título:**" line; the reconciler extracts the title
// from it and uses the whole response as the issue body.
var issuePromptTemplate = template.Must(template.New("issue").Parse(
	`Convierte la siguiente tarea en una descripción detallada para un issue de GitHub:

Tarea: {{.Description}}
Proyecto: {{.Project}}
Prioridad: {{.Priority}}
Fecha límite: {{.Due}}

Genera:
1. Un título claro y descriptivo
2. Una descripción detallada con:
   - Contexto del problema/tarea
   - Criterios de aceptación
   - Pasos sugeridos (si aplica)

Formato:
**Título:** [título del issue]

**Descripción:**
[descripción detallada]

**Criterios de aceptación:**
- [ ] Criterio 1
- [ ] Criterio 2`))

type issuePromptData struct {
	Description string
	Project     string
	Priority    string
	Due         string
}

// IssuePrompt renders the issue-generation prompt for a task.
func IssuePrompt(task *types.Task) (string, error) {
	data := issuePromptData{
		Description: task.Description,
		Project:     orNA(task.Project),
		Priority:    orNA(string(task.Priority)),
		Due:         "N/A",
	}
	if task.Due != nil {
		data.Due = task.Due.Format(time.DateOnly)
	}

	var b strings.Builder
	if err := issuePromptTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering issue prompt: %w", err)
	}
	return b.String(), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
