// Package tools exposes the task list to a chat agent as MCP tools.
//
// The agent decides which tool to call from the tool descriptions alone, so
// each tool does one thing and returns plain text it can relay to the user.
// Store failures come back as tool errors rather than protocol errors so the
// agent can report them.
package tools

import (
	"context"
	"fmt"
	"math"

	"github.com/harrisonrobin/taskmate/pkg/logging"
	"github.com/harrisonrobin/taskmate/pkg/tasklist"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Tool names as seen by the agent.
const (
	GetAllTasksName    = "get_all_tasks"
	AddNewTaskName     = "add_new_task"
	ChangePriorityName = "change_task_priority"
)

// NewServer creates the MCP server with every task tool registered.
func NewServer(svc *tasklist.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"taskmate",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	getAll := NewGetAllTasksTool(svc)
	s.AddTool(getAll.Definition(), getAll.Handle)

	add := NewAddTaskTool(svc)
	s.AddTool(add.Definition(), add.Handle)

	priority := NewChangePriorityTool(svc)
	s.AddTool(priority.Definition(), priority.Handle)

	return s
}

const instructions = `These tools manage the user's personal task list.
Call get_all_tasks before adding a task to check that it does not exist yet.
Only change the priority of tasks that are already in the list.`

// GetAllTasksTool returns the whole list as text.
type GetAllTasksTool struct {
	svc *tasklist.Service
	log *logging.Logger
}

// NewGetAllTasksTool returns the get_all_tasks tool over svc.
func NewGetAllTasksTool(svc *tasklist.Service) *GetAllTasksTool {
	return &GetAllTasksTool{svc: svc, log: logging.Component("tools")}
}

// Definition describes the tool to the agent.
func (t *GetAllTasksTool) Definition() mcp.Tool {
	return mcp.NewTool(GetAllTasksName,
		mcp.WithDescription("useful for when you need to get all the tasks in the tasklist with details about priority, deadline and task type"),
	)
}

// Handle runs one call of the tool.
func (t *GetAllTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := t.svc.RenderAsText(ctx)
	if err != nil {
		t.log.Error().Err(err).Str("tool", GetAllTasksName).Msg("tool failed")
		return mcp.NewToolResultErrorFromErr("unable to read the task list", err), nil
	}
	if text == "" {
		text = "The task list is empty."
	}
	return mcp.NewToolResultText(text), nil
}

// AddTaskTool adds a task by description.
type AddTaskTool struct {
	svc *tasklist.Service
	log *logging.Logger
}

// NewAddTaskTool returns the add_new_task tool over svc.
func NewAddTaskTool(svc *tasklist.Service) *AddTaskTool {
	return &AddTaskTool{svc: svc, log: logging.Component("tools")}
}

// Definition describes the tool to the agent.
func (t *AddTaskTool) Definition() mcp.Tool {
	return mcp.NewTool(AddNewTaskName,
		mcp.WithDescription("useful for when you need to add a new task to the tasklist, but only if the task does not exist already"),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Description of the task to add"),
		),
	)
}

// Handle runs one call of the tool.
func (t *AddTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	msg, err := t.svc.AddTask(ctx, description)
	if err != nil {
		t.log.Error().Err(err).Str("tool", AddNewTaskName).Msg("tool failed")
		return mcp.NewToolResultErrorFromErr("unable to add the task", err), nil
	}
	return mcp.NewToolResultText(msg), nil
}

// ChangePriorityTool changes the priority of an existing task.
type ChangePriorityTool struct {
	svc *tasklist.Service
	log *logging.Logger
}

// NewChangePriorityTool returns the change_task_priority tool over svc.
func NewChangePriorityTool(svc *tasklist.Service) *ChangePriorityTool {
	return &ChangePriorityTool{svc: svc, log: logging.Component("tools")}
}

// Definition describes the tool to the agent.
func (t *ChangePriorityTool) Definition() mcp.Tool {
	return mcp.NewTool(ChangePriorityName,
		mcp.WithDescription("useful for when you need to change the priority of an existing task that is already in the tasklist. Do NOT add the task if it does not exist."),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Exact description of the task"),
		),
		mcp.WithNumber("priority",
			mcp.Required(),
			mcp.Description("New priority, an integer"),
		),
	)
}

// Handle runs one call of the tool.
func (t *ChangePriorityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := req.RequireFloat("priority")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if value != math.Trunc(value) {
		return mcp.NewToolResultError(fmt.Sprintf("priority must be a whole number, got %v", value)), nil
	}
	msg, err := t.svc.ChangePriority(ctx, description, int(value))
	if err != nil {
		t.log.Error().Err(err).Str("tool", ChangePriorityName).Msg("tool failed")
		return mcp.NewToolResultErrorFromErr("unable to change the priority", err), nil
	}
	return mcp.NewToolResultText(msg), nil
}
