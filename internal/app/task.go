package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/studywatch/internal/output"
	"github.com/blackwell-systems/studywatch/internal/records"
)

var (
	taskSubject string
	taskDue     string
	taskAll     bool
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Add, complete, and list tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a task",
	Example: `  studywatch task add "Problem set 4" --subject Math --due 2026-01-20
  studywatch task add "Read chapter 7"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskAdd,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as done by ID or unique ID prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

func init() {
	taskAddCmd.Flags().StringVar(&taskSubject, "subject", "", "Subject the task belongs to")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "Scheduled date, as YYYY-MM-DD")
	taskListCmd.Flags().BoolVar(&taskAll, "all", false, "Include completed tasks")
	taskCmd.AddCommand(taskAddCmd, taskDoneCmd, taskListCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("task name must not be empty")
	}

	task := records.Task{Name: name, Subject: taskSubject}
	if taskDue != "" {
		due := records.ParseTimestamp(taskDue)
		if due.IsZero() {
			return fmt.Errorf("invalid --due %q (want YYYY-MM-DD)", taskDue)
		}
		task.ScheduledDate = &due
	}

	id, err := db.InsertTask(task)
	if err != nil {
		return err
	}

	if flagJSON {
		task.ID = id
		return writeJSON(os.Stdout, task)
	}
	fmt.Printf("Added task %s [%s]\n", output.StyleBold.Render(name), truncateID(id))
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	id, err := db.CompleteTask(args[0], nowFunc())
	if err != nil {
		return err
	}
	fmt.Printf("%s task %s\n", output.StyleSuccess.Render("Completed"), truncateID(id))
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	_, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tasks, err := db.ListTasks()
	if err != nil {
		return err
	}
	if !taskAll {
		open := tasks[:0]
		for _, t := range tasks {
			if !t.Done {
				open = append(open, t)
			}
		}
		tasks = open
	}

	if flagJSON {
		return writeJSON(os.Stdout, tasks)
	}

	if len(tasks) == 0 {
		fmt.Println("No open tasks. Use 'studywatch task add <name>' to create one.")
		return nil
	}

	today := nowFunc().Format("2006-01-02")
	fmt.Println(output.Section("Tasks"))
	fmt.Println()
	tbl := output.NewTable("ID", "Task", "Subject", "Due", "Status")
	for _, t := range tasks {
		due := ""
		if t.ScheduledDate != nil {
			due = t.ScheduledDate.Local().Format("2006-01-02")
		}
		tbl.AddRow(truncateID(t.ID), t.Name, t.Subject, due, taskStatus(t, today))
	}
	tbl.Print()
	return nil
}

// taskStatus labels a task as done, overdue, or open relative to today
// (YYYY-MM-DD).
func taskStatus(t records.Task, today string) string {
	if t.Done {
		return output.StyleSuccess.Render("done")
	}
	if t.ScheduledDate != nil && t.ScheduledDate.Local().Format("2006-01-02") < today {
		return output.StyleError.Render("overdue")
	}
	return output.StyleMuted.Render("open")
}
