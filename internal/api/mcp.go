package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/ptm/internal/planner"
	"github.com/kalambet/ptm/internal/views"
)

// NewMCPServer creates an MCP server exposing the planner's add and update
// operations as tools and the calendar and week plan as resources.
func NewMCPServer(app *views.App, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"ptm",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("ptm: personal time manager with a calendar, a job tracker, schoolwork to-dos and a weekly study plan."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("add_event",
			mcp.WithDescription("Add a calendar event. Date defaults to today."),
			mcp.WithString("title", mcp.Description("Event title"), mcp.Required()),
			mcp.WithString("notes", mcp.Description("Optional notes")),
			mcp.WithString("date", mcp.Description("Event date as YYYY-MM-DD")),
		),
		mcpAddEvent(app),
	)

	s.AddTool(
		mcp.NewTool("list_events",
			mcp.WithDescription("List calendar events, optionally only those on one date."),
			mcp.WithString("date", mcp.Description("Only events on this YYYY-MM-DD date")),
		),
		mcpListEvents(app),
	)

	s.AddTool(
		mcp.NewTool("add_job",
			mcp.WithDescription("Track a new job application or task. It starts pending unless status says otherwise."),
			mcp.WithString("title", mcp.Description("Job or task title"), mcp.Required()),
			mcp.WithString("company", mcp.Description("Company name")),
			mcp.WithString("due", mcp.Description("Due date as YYYY-MM-DD")),
			mcp.WithString("status", mcp.Description("Initial status"), mcp.Enum("pending", "completed", "late")),
		),
		mcpAddJob(app),
	)

	s.AddTool(
		mcp.NewTool("set_job_status",
			mcp.WithDescription("Change the status of a tracked job."),
			mcp.WithString("id", mcp.Description("Job id"), mcp.Required()),
			mcp.WithString("status", mcp.Description("New status"), mcp.Required(), mcp.Enum("pending", "completed", "late")),
		),
		mcpSetJobStatus(app),
	)

	s.AddTool(
		mcp.NewTool("add_todo",
			mcp.WithDescription("Add a schoolwork to-do."),
			mcp.WithString("text", mcp.Description("What needs doing"), mcp.Required()),
			mcp.WithString("due", mcp.Description("Due date as YYYY-MM-DD")),
		),
		mcpAddTodo(app),
	)

	s.AddTool(
		mcp.NewTool("toggle_todo",
			mcp.WithDescription("Flip a to-do between done and not done."),
			mcp.WithString("id", mcp.Description("To-do id"), mcp.Required()),
		),
		mcpToggleTodo(app),
	)

	s.AddTool(
		mcp.NewTool("add_plan_item",
			mcp.WithDescription("Add a study block to the weekly plan."),
			mcp.WithString("day", mcp.Description("Weekday, Mon through Sun"), mcp.Required()),
			mcp.WithString("subject", mcp.Description("Subject to study"), mcp.Required()),
			mcp.WithString("time", mcp.Description("Free-form time, e.g. 4-5pm")),
			mcp.WithString("notes", mcp.Description("Optional notes")),
		),
		mcpAddPlanItem(app),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"ptm://calendar",
			"Calendar",
			mcp.WithResourceDescription("Month grid and events for the selected date"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCalendar(app),
	)

	s.AddResource(
		mcp.NewResource(
			"ptm://week",
			"Weekly Plan",
			mcp.WithResourceDescription("Study plan for Monday through Sunday"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceWeek(app),
	)

	return s
}

func optionalDate(req mcp.CallToolRequest, key string) (planner.Date, error) {
	d, err := planner.ParseDate(req.GetString(key, ""))
	if err != nil {
		return planner.Date{}, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func mcpAddEvent(app *views.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcpError("title is required"), nil
		}
		date, err := optionalDate(req, "date")
		if err != nil {
			return mcpError(err.Error()), nil
		}
		ev, ok := app.Calendar.AddEvent(views.EventForm{
			Title: title,
			Notes: req.GetString("notes", ""),
			Date:  date,
		})
		if !ok {
			return mcpError("title must not be blank"), nil
		}
		return mcpJSON(ev)
	}
}

func mcpListEvents(app *views.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := optionalDate(req, "date")
		if err != nil {
			return mcpError(err.Error()), nil
		}
		if date.IsZero() {
			return mcpJSON(app.Collections.Events.All())
		}
		return mcpJSON(app.Collections.Events.OnDate(date))
	}
}

func mcpAddJob(app *views.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcpError("title is required"), nil
		}
		due, err := optionalDate(req, "due")
		if err != nil {
			return mcpError(err.Error()), nil
		}
		status := planner.StatusPending
		if raw := req.GetString("status", ""); raw != "" {
			if status, err = planner.ParseStatus(raw); err != nil {
				return mcpError(err.Error()), nil
			}
		}
		job, ok := app.Jobs.Add(views.JobForm{
			Title:   title,
			Company: req.GetString("company", ""),
			Due:     due,
			Status:  status,
		})
		if !ok {
			return mcpError("title must not be blank"), nil
		}
		return mcpJSON(job)
	}
}

func mcpSetJobStatus(app *views.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		raw, err := req.RequireString("status")
		if err != nil {
			return mcpError("status is required"), nil
		}
		status, err := planner.ParseStatus(raw)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		if !app.Jobs.SetStatus(id, status) {
			return mcpError(fmt.Sprintf("job %s not found", id)), nil
		}
		return mcpText(fmt.Sprintf("Job %s is now %s", id, status)), nil
	}
}

func mcpAddTodo(app *views.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcpError("text is required"), nil
		}
		due, err := optionalDate(req, "due")
		if err != nil {
			return mcpError(err.Error()), nil
		}
		todo, ok := app.Schoolwork.AddTodo(views.TodoForm{Text: text, Due: due})
		if !ok {
			return mcpError("text must not be blank"), nil
		}
		return mcpJSON(todo)
	}
}

func mcpToggleTodo(app *views.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcpError("id is required"), nil
		}
		if !app.Schoolwork.ToggleTodo(id) {
			return mcpError(fmt.Sprintf("todo %s not found", id)), nil
		}
		for _, t := range app.Schoolwork.Todos() {
			if t.ID == id {
				return mcpJSON(t)
			}
		}
		return mcpText(fmt.Sprintf("Toggled %s", id)), nil
	}
}

func mcpAddPlanItem(app *views.App) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawDay, err := req.RequireString("day")
		if err != nil {
			return mcpError("day is required"), nil
		}
		day, err := planner.ParseWeekday(rawDay)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		subject, err := req.RequireString("subject")
		if err != nil {
			return mcpError("subject is required"), nil
		}
		item, ok := app.Schoolwork.AddPlan(views.PlanForm{
			Day:     day,
			Subject: subject,
			Time:    req.GetString("time", ""),
			Notes:   req.GetString("notes", ""),
		})
		if !ok {
			return mcpError("subject must not be blank"), nil
		}
		return mcpJSON(item)
	}
}

func mcpResourceCalendar(app *views.App) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(req.Params.URI, calendarPage(app.Calendar))
	}
}

func mcpResourceWeek(app *views.App) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(req.Params.URI, orderedWeek(app.Schoolwork.Week()))
	}
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
