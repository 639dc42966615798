package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jcadam/prospector/pkg/config"
	"github.com/jcadam/prospector/pkg/tasks"
	"github.com/spf13/cobra"
)

var daemonOnce bool

func init() {
	daemonCmd.Flags().BoolVar(&daemonOnce, "once", false, "Run a single due-check pass and exit")
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the follow-up reminder loop",
	Long: `Checks follow-up tasks every minute and prints a reminder when one
comes due. Each task is surfaced at most once per day until it is marked
done. With --once, performs a single pass and exits (useful from cron).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.ProspectorDir()
		if err != nil {
			return err
		}

		store, err := openTaskStore()
		if err != nil {
			return err
		}

		d := tasks.NewDaemon(tasks.DaemonConfig{
			Store:  store,
			State:  tasks.NewFileStateStore(filepath.Join(dir, "daemon-state.json")),
			Notify: printReminder,
			Logger: os.Stderr,
			Once:   daemonOnce,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !daemonOnce {
			fmt.Println("Watching for due tasks. Ctrl+C to stop.")
		}

		if err := d.Run(ctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	},
}

func printReminder(ctx context.Context, t *tasks.Task) error {
	line := fmt.Sprintf("Reminder: %s", t.Title)
	if t.Due != "" {
		line += " (due " + t.Due + ")"
	}
	if t.ContactSlug != "" {
		line += "  @" + t.ContactSlug
	}
	fmt.Println(line)
	return nil
}
