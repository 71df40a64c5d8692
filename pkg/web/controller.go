// Package web serves the task list form and a small JSON API.
package web

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/harrisonrobin/taskmate/pkg/model"
	"github.com/harrisonrobin/taskmate/pkg/tasklist"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Task list</title></head>
<body>
<form method="post" action="/tasks">
  <label for="description">New task:</label>
  <input type="text" id="description" name="description">
  <button type="submit">Add</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<h2>All tasks</h2>
<table>
  <tr><th>description</th><th>category</th><th>priority</th><th>deadline</th></tr>
  {{range .Tasks}}<tr><td>{{.Description}}</td><td>{{.Category}}</td><td>{{.Priority}}</td><td>{{.Deadline}}</td></tr>
  {{end}}
</table>
</body>
</html>
`))

type pageData struct {
	Tasks []taskView
	Error string
}

type taskView struct {
	Description string
	Category    model.Category
	Priority    string
	Deadline    string
}

// TaskController handles HTTP requests for the task list.
type TaskController struct {
	Service *tasklist.Service
}

// NewTaskController creates a new TaskController.
func NewTaskController(service *tasklist.Service) *TaskController {
	return &TaskController{Service: service}
}

// Index handles GET /.
func (c *TaskController) Index(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Service.ListAll(r.Context())
	data := pageData{}
	status := http.StatusOK
	if err != nil {
		data.Error = "Unable to load tasks: " + err.Error()
		status = http.StatusBadGateway
	}
	for _, t := range tasks {
		v := taskView{Description: t.Description, Category: t.Category}
		if t.Priority != nil {
			v.Priority = strconv.Itoa(*t.Priority)
		}
		if t.Deadline != nil {
			v.Deadline = t.Deadline.String()
		}
		data.Tasks = append(data.Tasks, v)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = pageTemplate.Execute(w, data)
}

// SubmitTask handles POST /tasks from the form.
func (c *TaskController) SubmitTask(w http.ResponseWriter, r *http.Request) {
	description := strings.TrimSpace(r.FormValue("description"))
	if description == "" {
		http.Error(w, "Task description is required", http.StatusBadRequest)
		return
	}
	if _, err := c.Service.AddTask(r.Context(), description); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GetTasks handles GET /api/tasks. ?format=text returns the agent rendering.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "text" {
		text, err := c.Service.RenderAsText(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(text))
		return
	}

	tasks, err := c.Service.ListAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	if tasks == nil {
		tasks = []*model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask handles POST /api/tasks.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Description == "" {
		http.Error(w, "Task description is required", http.StatusBadRequest)
		return
	}
	msg, err := c.Service.AddTask(r.Context(), req.Description)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": msg})
}

// ChangePriority handles PUT /api/tasks/priority.
func (c *TaskController) ChangePriority(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
		Priority    *int   `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Description == "" || req.Priority == nil {
		http.Error(w, "description and priority are required", http.StatusBadRequest)
		return
	}

	msg, found, err := c.Service.UpdatePriority(r.Context(), req.Description, *req.Priority)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	status := http.StatusOK
	if !found {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
