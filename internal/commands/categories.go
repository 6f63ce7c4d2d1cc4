package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spasta/internal/model"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage categories and their flow pipelines",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		if err := a.stores.Categories.FetchAll(cmd.Context()); err != nil {
			return err
		}
		for _, c := range a.stores.Categories.Items() {
			names := make([]string, 0, len(c.Flows))
			for _, f := range c.Flows {
				names = append(names, f.Name)
			}
			fmt.Printf("%s  %-20s  [%s]\n", c.ID, c.Name, strings.Join(names, " → "))
		}
		return nil
	},
}

var (
	categoryColor string
	categoryFlows string
)

var categoriesAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a category with a flow pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}

		var flows []model.Flow
		for i, name := range strings.Split(categoryFlows, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			flows = append(flows, model.Flow{
				ID:    fmt.Sprintf("flow-%d", i+1),
				Name:  name,
				Order: i,
			})
		}

		cat, err := a.stores.Categories.Add(cmd.Context(), model.Category{
			Name:  args[0],
			Color: categoryColor,
			Flows: flows,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created category %s (%s)\n", cat.Name, cat.ID)
		return nil
	},
}

var categoriesRmCmd = &cobra.Command{
	Use:   "rm [category-id]",
	Short: "Delete a category and every task under it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		if err := a.stores.Categories.FetchAll(cmd.Context()); err != nil {
			return err
		}
		if err := a.stores.Categories.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted category %s and its tasks\n", args[0])
		return nil
	},
}

func init() {
	categoriesAddCmd.Flags().StringVar(&categoryColor, "color", "#4f46e5", "display color")
	categoriesAddCmd.Flags().StringVar(&categoryFlows, "flows", "To Do,Doing,Done", "comma-separated flow names, last one is terminal")

	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesRmCmd)
}
