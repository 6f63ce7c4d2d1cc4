package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"spasta/internal/model"
	"spasta/internal/store"
)

var subTasksCmd = &cobra.Command{
	Use:   "subtasks",
	Short: "Manage subtasks of a task",
}

var subTaskParent string

var subTasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subtasks of a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		if err := a.stores.SubTasks.FetchAll(cmd.Context()); err != nil {
			return err
		}
		for _, st := range a.stores.SubTasks.ByTask(subTaskParent) {
			mark := " "
			if st.Completed {
				mark = "x"
			}
			fmt.Printf("%s  [%s] %s\n", st.ID, mark, st.Title)
		}
		fmt.Printf("%d%% complete\n", a.stores.SubTasks.CompletionByTask(subTaskParent))
		return nil
	},
}

var subTasksAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a subtask under a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		st, err := a.stores.SubTasks.Add(cmd.Context(), model.SubTask{
			ParentTaskID: subTaskParent,
			Title:        args[0],
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created subtask %s (%s)\n", st.Title, st.ID)
		return nil
	},
}

var subTasksDoneCmd = &cobra.Command{
	Use:   "done [subtask-id]",
	Short: "Mark a subtask completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		if err := a.stores.SubTasks.FetchAll(cmd.Context()); err != nil {
			return err
		}
		completed := true
		if err := a.stores.SubTasks.Update(cmd.Context(), args[0], store.SubTaskPatch{Completed: &completed}); err != nil {
			return err
		}
		fmt.Printf("Subtask %s completed\n", args[0])
		return nil
	},
}

var subTasksRmCmd = &cobra.Command{
	Use:   "rm [subtask-id]",
	Short: "Delete a subtask",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		if err := a.stores.SubTasks.FetchAll(cmd.Context()); err != nil {
			return err
		}
		if err := a.stores.SubTasks.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted subtask %s\n", args[0])
		return nil
	},
}

func init() {
	subTasksCmd.PersistentFlags().StringVar(&subTaskParent, "task", "", "parent task id")

	subTasksCmd.AddCommand(subTasksListCmd)
	subTasksCmd.AddCommand(subTasksAddCmd)
	subTasksCmd.AddCommand(subTasksDoneCmd)
	subTasksCmd.AddCommand(subTasksRmCmd)
}
