package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"spasta/internal/model"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		if err := a.stores.Tasks.FetchAll(cmd.Context()); err != nil {
			return err
		}
		for _, t := range a.stores.Tasks.Items() {
			due := "-"
			if t.DueDate != nil {
				due = t.DueDate.Format("2006-01-02")
			}
			fmt.Printf("%s  [%-6s] %-30s %3d%%  due %s  (%d subtasks)\n",
				t.ID, t.Priority, t.Title, t.Progress, due, len(t.SubTasks))
		}
		return nil
	},
}

var (
	taskCategory    string
	taskFlow        string
	taskPriority    string
	taskDue         string
	taskDescription string
)

var tasksAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a task in a category flow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}

		draft := model.Task{
			Title:       args[0],
			Description: taskDescription,
			CategoryID:  taskCategory,
			FlowID:      taskFlow,
			Priority:    model.Priority(taskPriority),
		}
		if taskDue != "" {
			due, err := time.ParseInLocation("2006-01-02", taskDue, time.Local)
			if err != nil {
				return fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", taskDue)
			}
			draft.DueDate = &due
		}

		task, err := a.stores.Tasks.Add(cmd.Context(), draft)
		if err != nil {
			return err
		}
		fmt.Printf("Created task %s (%s)\n", task.Title, task.ID)
		return nil
	},
}

var tasksMoveCmd = &cobra.Command{
	Use:   "move [task-id] [flow-id]",
	Short: "Move a task to another flow; the terminal flow completes it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		if err := a.stores.Tasks.FetchAll(cmd.Context()); err != nil {
			return err
		}
		if err := a.stores.Tasks.MoveTask(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		if t, ok := a.stores.Tasks.Get(args[0]); ok && t.CompletedDate != nil {
			fmt.Printf("Task %s completed\n", t.Title)
		} else {
			fmt.Printf("Task moved to %s\n", args[1])
		}
		return nil
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm [task-id]",
	Short: "Delete a task and its subtasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		if err := a.stores.Tasks.FetchAll(cmd.Context()); err != nil {
			return err
		}
		if err := a.stores.Tasks.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted task %s\n", args[0])
		return nil
	},
}

func init() {
	tasksAddCmd.Flags().StringVar(&taskCategory, "category", "", "category id")
	tasksAddCmd.Flags().StringVar(&taskFlow, "flow", "", "flow id within the category")
	tasksAddCmd.Flags().StringVar(&taskPriority, "priority", "medium", "low, medium or high")
	tasksAddCmd.Flags().StringVar(&taskDue, "due", "", "due date, YYYY-MM-DD")
	tasksAddCmd.Flags().StringVar(&taskDescription, "description", "", "task description")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksMoveCmd)
	tasksCmd.AddCommand(tasksRmCmd)
}
