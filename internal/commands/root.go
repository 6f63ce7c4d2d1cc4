package commands

import (
	"github.com/spf13/cobra"

	"spasta/internal/auth"
	"spasta/internal/config"
	"spasta/internal/remote"
	"spasta/internal/service"
	"spasta/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "spasta",
	Short: "Personal productivity data from the terminal",
	Long: `spasta manages categories, tasks, subtasks and related records kept
in a document store, mirrored into in-memory caches. Set SPASTA_USER to the
id of the signed-in user; without it reads return nothing and mutations
fail.`,
	SilenceUsage: true,
}

// app is the wired runtime shared by all commands.
type app struct {
	cfg      config.Config
	session  *auth.MemorySession
	stores   *store.Stores
	rollover *service.Rollover
}

var rt *app

// setup wires config, gateway, session and stores on first use.
func setup() (*app, error) {
	if rt != nil {
		return rt, nil
	}

	cfg := config.Load()
	db, err := remote.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	gw := remote.NewSQLiteGateway(db)

	session := &auth.MemorySession{}
	if cfg.UserID != "" {
		session.SignIn(cfg.UserID)
	}

	stores := store.NewStores(gw, session)
	rt = &app{
		cfg:      cfg,
		session:  session,
		stores:   stores,
		rollover: service.NewRollover(stores.Tasks, stores.Categories),
	}
	return rt, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(subTasksCmd)
	rootCmd.AddCommand(serveCmd)
}
