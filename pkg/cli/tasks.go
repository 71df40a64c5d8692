package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/harrisonrobin/taskmate/pkg/colors"
	"github.com/harrisonrobin/taskmate/pkg/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tasks",
	Long: `List every task in store order, most recently added first.

Use --text for the one-line-per-task form the chat agent reads,
--json for scripting and --overdue to show only tasks past their deadline.`,
	Args: cobra.NoArgs,
	RunE: withApp(runList),
}

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a task to the top of the list",
	Long: `Add a task with only a description. Existing tasks with the same
description are not checked; the new row is added regardless.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(runAdd),
}

var priorityCmd = &cobra.Command{
	Use:   "priority <description> <priority>",
	Short: "Change the priority of an existing task",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runPriority),
}

func init() {
	listCmd.Flags().Bool("text", false, "Output as agent-readable text")
	listCmd.Flags().Bool("json", false, "Output as JSON")
	listCmd.Flags().Bool("overdue", false, "Only tasks whose deadline has passed")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(priorityCmd)
}

func runList(cmd *cobra.Command, args []string, a *app) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	asText, _ := cmd.Flags().GetBool("text")
	asJSON, _ := cmd.Flags().GetBool("json")
	overdueOnly, _ := cmd.Flags().GetBool("overdue")

	if asText && !overdueOnly {
		text, err := a.service.RenderAsText(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, text)
		return err
	}

	var (
		tasks []*model.Task
		err   error
	)
	now := time.Now()
	if overdueOnly {
		tasks, err = a.service.Overdue(ctx, now)
	} else {
		tasks, err = a.service.ListAll(ctx)
	}
	if err != nil {
		return err
	}

	if asJSON {
		if tasks == nil {
			tasks = []*model.Task{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return nil
	}

	_, err = fmt.Fprintln(out, renderTable(tasks, colors.NewStyles(), model.DateOf(now)))
	return err
}

// renderTable lays tasks out in aligned columns. Widths are measured on the
// visible text, so styled cells stay aligned on colour terminals.
func renderTable(tasks []*model.Task, styles colors.Styles, today model.Date) string {
	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("DESCRIPTION", "CATEGORY", "PRIORITY", "DEADLINE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Header.PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})
	for _, t := range tasks {
		priority := styles.Muted.Render("-")
		if t.Priority != nil {
			priority = strconv.Itoa(*t.Priority)
		}
		deadline := styles.Muted.Render("-")
		if t.Deadline != nil {
			deadline = t.Deadline.String()
			if t.Deadline.Before(today) {
				deadline = styles.Overdue.Render(deadline)
			}
		}
		tbl.Row(t.Description, styles.Category(t.Category), priority, deadline)
	}
	return tbl.Render()
}

func runAdd(cmd *cobra.Command, args []string, a *app) error {
	msg, err := a.service.AddTask(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func runPriority(cmd *cobra.Command, args []string, a *app) error {
	priority, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("priority must be an integer: %q", args[1])
	}
	msg, err := a.service.ChangePriority(cmd.Context(), args[0], priority)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
