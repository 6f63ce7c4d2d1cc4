package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"spasta/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the background sync and recurrence loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := a.stores.FetchAll(ctx); err != nil {
			return err
		}

		scheduler := service.NewScheduler(time.Local)
		if _, err := scheduler.ScheduleInterval(a.cfg.SyncInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := a.stores.FetchAll(jobCtx); err != nil {
				log.Printf("sync: %v", err)
				return
			}
			n, err := a.rollover.Run(jobCtx)
			if err != nil {
				log.Printf("rollover: %v", err)
				return
			}
			if n > 0 {
				log.Printf("re-opened %d recurring task(s)", n)
			}
		}); err != nil {
			return err
		}

		scheduler.Start()
		defer scheduler.Stop()

		log.Printf("spasta sync loop started (every %s).", a.cfg.SyncInterval)
		<-ctx.Done()
		log.Println("Shutdown complete.")
		return nil
	},
}
