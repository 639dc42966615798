package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jcadam/prospector/pkg/config"
	"github.com/jcadam/prospector/pkg/crm"
	"github.com/jcadam/prospector/pkg/tasks"
	"github.com/spf13/cobra"
)

var (
	taskDue     string
	taskContact string
	taskNotes   string
)

func init() {
	tasksAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")
	tasksAddCmd.Flags().StringVar(&taskContact, "contact", "", "Contact this follow-up is for")
	tasksAddCmd.Flags().StringVar(&taskNotes, "notes", "", "Free-form notes")

	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksDoneCmd)
	tasksCmd.AddCommand(tasksRemoveCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage follow-up tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTaskStore()
		if err != nil {
			return err
		}

		list, err := store.List()
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No tasks. Use 'prospect tasks add <title>'.")
			return nil
		}

		now := time.Now()
		for _, t := range list {
			marker := " "
			switch {
			case t.Done:
				marker = "x"
			case t.Overdue(now):
				marker = "!"
			}
			line := fmt.Sprintf("[%s] %s", marker, t.Title)
			if t.Due != "" {
				line += "  (due " + t.Due + ")"
			}
			if t.ContactSlug != "" {
				line += "  @" + t.ContactSlug
			}
			fmt.Printf("  %s\n", line)
		}
		fmt.Printf("\n%d task(s)\n", len(list))
		return nil
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a follow-up task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTaskStore()
		if err != nil {
			return err
		}

		t := &tasks.Task{
			Title: strings.Join(args, " "),
			Due:   taskDue,
			Notes: taskNotes,
		}
		if taskContact != "" {
			t.ContactSlug = crm.SlugFor(taskContact)
		}

		if err := store.Add(t); err != nil {
			return fmt.Errorf("adding task: %w", err)
		}

		fmt.Printf("Added task %q", t.Title)
		if t.Due != "" {
			fmt.Printf(" due %s", t.Due)
		}
		fmt.Println()
		return nil
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <title>",
	Short: "Mark a task as done",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTaskStore()
		if err != nil {
			return err
		}

		slugName := crm.SlugFor(strings.Join(args, " "))
		if err := store.MarkDone(slugName); err != nil {
			return fmt.Errorf("task %q not found", strings.Join(args, " "))
		}

		fmt.Println("Done.")
		return nil
	},
}

var tasksRemoveCmd = &cobra.Command{
	Use:   "rm <title>",
	Short: "Remove a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTaskStore()
		if err != nil {
			return err
		}

		slugName := crm.SlugFor(strings.Join(args, " "))
		if err := store.Remove(slugName); err != nil {
			return fmt.Errorf("task %q not found", strings.Join(args, " "))
		}

		fmt.Println("Removed.")
		return nil
	},
}

// openTaskStore opens the task store from the standard location.
func openTaskStore() (*tasks.Store, error) {
	dir, err := config.ProspectorDir()
	if err != nil {
		return nil, err
	}
	return tasks.NewStore(filepath.Join(dir, "tasks"))
}
