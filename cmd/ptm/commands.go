package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/ptm/internal/config"
	"github.com/kalambet/ptm/internal/export"
	"github.com/kalambet/ptm/internal/planner"
	"github.com/kalambet/ptm/internal/storage"
	"github.com/kalambet/ptm/internal/views"
)

// --- home ---

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the home summary and available views",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *views.App) error {
			renderSummary(cmd.OutOrStdout(), app.Home.Summary())
			return nil
		})
	},
}

// --- calendar ---

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Month grid and calendar events",
}

var calendarShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the month grid and the selected day's events",
	RunE: func(cmd *cobra.Command, args []string) error {
		rawDate, _ := cmd.Flags().GetString("date")
		next, _ := cmd.Flags().GetInt("next")
		prev, _ := cmd.Flags().GetInt("prev")

		date, err := parseDateFlag(rawDate)
		if err != nil {
			return err
		}

		return withApp(func(app *views.App) error {
			app.Calendar.Select(date)
			if delta := next - prev; delta != 0 {
				app.Calendar.ShiftMonth(delta)
			}

			out := cmd.OutOrStdout()
			renderGrid(out, app.Calendar.Grid(), cfg.Calendar.MaxDots)
			fmt.Fprintf(out, "\nEvents on %s:\n", app.Calendar.Selected())
			renderEvents(out, app.Calendar.DayEvents())
			return nil
		})
	},
}

var calendarAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a calendar event (date defaults to today)",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		notes, _ := cmd.Flags().GetString("notes")
		rawDate, _ := cmd.Flags().GetString("date")

		date, err := parseDateFlag(rawDate)
		if err != nil {
			return err
		}

		return withApp(func(app *views.App) error {
			ev, ok := app.Calendar.AddEvent(views.EventForm{Title: title, Notes: notes, Date: date})
			if !ok {
				printWarning("Event not added: a title is required")
				return nil
			}
			printSuccess("Added event %s on %s", shortID(ev.ID), ev.Date)
			return nil
		})
	},
}

var calendarRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a calendar event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *views.App) error {
			var ids []string
			for _, ev := range app.Collections.Events.All() {
				ids = append(ids, ev.ID)
			}
			id, err := resolveID(args[0], ids)
			if err != nil {
				return err
			}
			app.Calendar.DeleteEvent(id)
			printSuccess("Deleted event %s", shortID(id))
			return nil
		})
	},
}

var calendarDayCmd = &cobra.Command{
	Use:   "day",
	Short: "List the events on one day (default today)",
	RunE: func(cmd *cobra.Command, args []string) error {
		rawDate, _ := cmd.Flags().GetString("date")
		date, err := parseDateFlag(rawDate)
		if err != nil {
			return err
		}
		return withApp(func(app *views.App) error {
			app.Calendar.Select(date)
			renderEvents(cmd.OutOrStdout(), app.Calendar.DayEvents())
			return nil
		})
	},
}

func init() {
	calendarShowCmd.Flags().String("date", "", "selected date (YYYY-MM-DD, default today)")
	calendarShowCmd.Flags().Int("next", 0, "move forward this many months")
	calendarShowCmd.Flags().Int("prev", 0, "move back this many months")
	calendarAddCmd.Flags().String("title", "", "event title (required)")
	calendarAddCmd.Flags().String("notes", "", "event notes")
	calendarAddCmd.Flags().String("date", "", "event date (YYYY-MM-DD, default today)")
	calendarDayCmd.Flags().String("date", "", "day to list (YYYY-MM-DD, default today)")

	calendarCmd.AddCommand(calendarShowCmd)
	calendarCmd.AddCommand(calendarAddCmd)
	calendarCmd.AddCommand(calendarRmCmd)
	calendarCmd.AddCommand(calendarDayCmd)
}

// --- jobs ---

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Track job applications and tasks",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked jobs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *views.App) error {
			renderJobs(cmd.OutOrStdout(), app.Jobs.List())
			return nil
		})
	},
}

var jobsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Track a new job",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		company, _ := cmd.Flags().GetString("company")
		rawDue, _ := cmd.Flags().GetString("due")
		rawStatus, _ := cmd.Flags().GetString("status")

		due, err := parseDateFlag(rawDue)
		if err != nil {
			return err
		}
		status, err := planner.ParseStatus(rawStatus)
		if err != nil {
			return err
		}

		return withApp(func(app *views.App) error {
			job, ok := app.Jobs.Add(views.JobForm{Title: title, Company: company, Due: due, Status: status})
			if !ok {
				printWarning("Job not added: a title is required")
				return nil
			}
			printSuccess("Added job %s (%s)", shortID(job.ID), job.Status)
			return nil
		})
	},
}

var jobsStatusCmd = &cobra.Command{
	Use:   "status <id> <pending|completed|late>",
	Short: "Change a job's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := planner.ParseStatus(args[1])
		if err != nil {
			return err
		}
		return withApp(func(app *views.App) error {
			id, err := resolveID(args[0], jobIDs(app))
			if err != nil {
				return err
			}
			app.Jobs.SetStatus(id, status)
			printSuccess("Job %s is now %s", shortID(id), status)
			return nil
		})
	},
}

var jobsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Stop tracking a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *views.App) error {
			id, err := resolveID(args[0], jobIDs(app))
			if err != nil {
				return err
			}
			app.Jobs.Delete(id)
			printSuccess("Deleted job %s", shortID(id))
			return nil
		})
	},
}

func jobIDs(app *views.App) []string {
	var ids []string
	for _, j := range app.Jobs.List() {
		ids = append(ids, j.ID)
	}
	return ids
}

func init() {
	jobsAddCmd.Flags().String("title", "", "job title (required)")
	jobsAddCmd.Flags().String("company", "", "company name")
	jobsAddCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	jobsAddCmd.Flags().String("status", "pending", "initial status: pending, completed or late")

	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsAddCmd)
	jobsCmd.AddCommand(jobsStatusCmd)
	jobsCmd.AddCommand(jobsRmCmd)
}

// --- todos ---

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "Schoolwork to-dos",
}

var todosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List to-dos, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		open, _ := cmd.Flags().GetBool("open")
		return withApp(func(app *views.App) error {
			todos := app.Schoolwork.Todos()
			if open {
				todos = app.Collections.Todos.Open()
			}
			renderTodos(cmd.OutOrStdout(), todos)
			return nil
		})
	},
}

var todosAddCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a to-do",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawDue, _ := cmd.Flags().GetString("due")
		due, err := parseDateFlag(rawDue)
		if err != nil {
			return err
		}
		return withApp(func(app *views.App) error {
			todo, ok := app.Schoolwork.AddTodo(views.TodoForm{Text: strings.Join(args, " "), Due: due})
			if !ok {
				printWarning("To-do not added: text is required")
				return nil
			}
			printSuccess("Added to-do %s", shortID(todo.ID))
			return nil
		})
	},
}

var todosToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Mark a to-do done or not done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *views.App) error {
			id, err := resolveID(args[0], todoIDs(app))
			if err != nil {
				return err
			}
			app.Schoolwork.ToggleTodo(id)
			for _, t := range app.Schoolwork.Todos() {
				if t.ID == id {
					state := "not done"
					if t.Done {
						state = "done"
					}
					printSuccess("To-do %s marked %s", shortID(id), state)
				}
			}
			return nil
		})
	},
}

var todosRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a to-do",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *views.App) error {
			id, err := resolveID(args[0], todoIDs(app))
			if err != nil {
				return err
			}
			app.Schoolwork.DeleteTodo(id)
			printSuccess("Deleted to-do %s", shortID(id))
			return nil
		})
	},
}

func todoIDs(app *views.App) []string {
	var ids []string
	for _, t := range app.Schoolwork.Todos() {
		ids = append(ids, t.ID)
	}
	return ids
}

func init() {
	todosListCmd.Flags().Bool("open", false, "only list to-dos that are not done")
	todosAddCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")

	todosCmd.AddCommand(todosListCmd)
	todosCmd.AddCommand(todosAddCmd)
	todosCmd.AddCommand(todosToggleCmd)
	todosCmd.AddCommand(todosRmCmd)
}

// --- plan ---

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Weekly study plan",
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the plan for Monday through Sunday",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(app *views.App) error {
			renderWeek(cmd.OutOrStdout(), app.Schoolwork.Week())
			return nil
		})
	},
}

var planAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a study block to one day",
	RunE: func(cmd *cobra.Command, args []string) error {
		rawDay, _ := cmd.Flags().GetString("day")
		subject, _ := cmd.Flags().GetString("subject")
		at, _ := cmd.Flags().GetString("time")
		notes, _ := cmd.Flags().GetString("notes")

		day, err := planner.ParseWeekday(rawDay)
		if err != nil {
			return err
		}

		return withApp(func(app *views.App) error {
			item, ok := app.Schoolwork.AddPlan(views.PlanForm{Day: day, Subject: subject, Time: at, Notes: notes})
			if !ok {
				printWarning("Plan item not added: a subject is required")
				return nil
			}
			printSuccess("Added %s on %s (%s)", item.Subject, item.Day, shortID(item.ID))
			return nil
		})
	},
}

var planRmCmd = &cobra.Command{
	Use:   "rm <day> <id>",
	Short: "Remove a study block",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := planner.ParseWeekday(args[0])
		if err != nil {
			return err
		}
		return withApp(func(app *views.App) error {
			var ids []string
			for _, it := range app.Collections.Plan.Day(day) {
				ids = append(ids, it.ID)
			}
			id, err := resolveID(args[1], ids)
			if err != nil {
				return err
			}
			app.Schoolwork.DeletePlan(day, id)
			printSuccess("Removed %s from %s", shortID(id), day)
			return nil
		})
	},
}

func init() {
	planAddCmd.Flags().String("day", "Mon", "weekday, Mon through Sun")
	planAddCmd.Flags().String("subject", "", "subject (required)")
	planAddCmd.Flags().String("time", "", "free-form time, e.g. 4-5pm")
	planAddCmd.Flags().String("notes", "", "notes")

	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planAddCmd)
	planCmd.AddCommand(planRmCmd)
}

// --- data ---

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Export, import or purge stored data",
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all collections as JSON or YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		rawFormat, _ := cmd.Flags().GetString("format")

		format := export.JSON
		switch {
		case rawFormat != "":
			f, err := export.ParseFormat(rawFormat)
			if err != nil {
				return err
			}
			format = f
		case output != "":
			format = export.FormatFromPath(output)
		}

		return withApp(func(app *views.App) error {
			doc := export.Snapshot(app.Collections, time.Now())

			writer := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				writer = f
			}

			if err := export.Write(writer, doc, format); err != nil {
				return err
			}
			if output != "" {
				printSuccess("Data exported to %s", output)
			}
			return nil
		})
	},
}

var dataImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all collections with the contents of an export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawFormat, _ := cmd.Flags().GetString("format")
		format := export.FormatFromPath(args[0])
		if rawFormat != "" {
			f, err := export.ParseFormat(rawFormat)
			if err != nil {
				return err
			}
			format = f
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()

		doc, err := export.Read(f, format)
		if err != nil {
			return err
		}

		return withApp(func(app *views.App) error {
			export.Apply(app.Collections, doc)
			printSuccess("Imported %d events, %d jobs, %d to-dos", len(doc.Events), len(doc.Jobs), len(doc.Todos))
			return nil
		})
	},
}

var dataPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all stored data",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will delete ALL stored data. Use --confirm to proceed.")
			return nil
		}

		return withSession(func(s *session) error {
			for _, key := range []string{planner.EventsKey, planner.JobsKey, planner.TodosKey, planner.WeekPlanKey} {
				printStep("Deleting %s...", key)
				if err := s.store.DeleteSlot(key); err != nil && !errors.Is(err, storage.ErrNotFound) {
					printError("Failed to delete %s: %v", key, err)
					return err
				}
			}
			printSuccess("All data purged")
			return nil
		})
	},
}

var dataSlotsCmd = &cobra.Command{
	Use:   "slots [key]",
	Short: "List stored slots, or print the raw document of one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return withSession(func(s *session) error {
			if len(args) == 1 {
				slot, err := s.store.GetSlot(args[0])
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("no slot named %q", args[0])
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(out, slot.Value)
				return nil
			}

			slots, err := s.store.ListSlots()
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				fmt.Fprintln(out, "No data stored.")
				return nil
			}
			for _, sl := range slots {
				fmt.Fprintf(out, "%s  %6d bytes  updated %s\n",
					colorize(colorCyan, padRight(sl.Key, 14)),
					len(sl.Value),
					sl.UpdatedAt.Local().Format(time.DateTime),
				)
			}
			return nil
		})
	},
}

func init() {
	dataExportCmd.Flags().String("output", "", "output file path (default: stdout)")
	dataExportCmd.Flags().String("format", "", "json or yaml (default: from --output extension, else json)")
	dataImportCmd.Flags().String("format", "", "json or yaml (default: from file extension)")
	dataPurgeCmd.Flags().Bool("confirm", false, "confirm data purge")

	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataPurgeCmd)
	dataCmd.AddCommand(dataSlotsCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s  %s\n", colorize(colorBold, k.Key), k.Value, colorize(colorDim, "("+k.EnvVar+")"))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Valid keys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
