package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"voice-notes/internal/form"
	"voice-notes/internal/models"
)

var (
	taskStatus      string
	taskPriority    string
	taskQuery       string
	taskTitle       string
	taskDescription string
	taskDue         string
	taskVoice       bool

	editTitle       string
	editDescription string
	editPriority    string
	editDue         string
	editVoice       bool
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your tasks, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		tasks, err := s.Tasks(cmd.Context(), models.TaskFilter{
			Status:   models.TaskStatus(taskStatus),
			Priority: models.Priority(taskPriority),
			Query:    taskQuery,
		})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, tasks)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, t := range tasks {
			mark := "[ ]"
			if t.Completed {
				mark = "[x]"
			}
			due := ""
			if t.DueDate != nil {
				due = t.DueDate.Format("2006-01-02")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, mark, t.Priority, due, t.Title)
		}
		return tw.Flush()
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a task, optionally by dictation",
	Long: `Create a task. With --voice the task is dictated from stdin, one
recognised phrase per line. The first sentence becomes the title and the rest
the description.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}

		f := form.TaskForm()
		for name, value := range map[string]string{
			"title":       taskTitle,
			"description": taskDescription,
			"priority":    taskPriority,
			"dueDate":     taskDue,
		} {
			if value == "" {
				continue
			}
			if err := f.Set(name, value); err != nil {
				return err
			}
		}
		if taskVoice {
			if err := dictate(cmd.Context(), cmd.InOrStdin(), f); err != nil {
				return err
			}
		}

		in, err := f.Build()
		if err != nil {
			return err
		}
		t, err := s.CreateTask(cmd.Context(), in)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, t)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", t.ID)
		return nil
	},
}

var tasksEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a task, optionally by dictation",
	Long: `Change a task. Flags overwrite single fields. With --voice a dictated
sentence ending in a period replaces the title and the rest the description;
dictation without a period replaces only the description.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		t, err := s.Task(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		f := form.EditTaskForm(t)
		for _, fl := range []struct{ field, flag, value string }{
			{"title", "title", editTitle},
			{"description", "description", editDescription},
			{"priority", "priority", editPriority},
			{"dueDate", "due", editDue},
		} {
			if !cmd.Flags().Changed(fl.flag) {
				continue
			}
			if err := f.Set(fl.field, fl.value); err != nil {
				return err
			}
		}
		if editVoice {
			if err := dictate(cmd.Context(), cmd.InOrStdin(), f); err != nil {
				return err
			}
		}

		p, err := f.Build()
		if err != nil {
			return err
		}
		t, err = s.UpdateTask(cmd.Context(), t.ID, p)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, t)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", t.ID)
		return nil
	},
}

var tasksToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a task between done and pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		t, err := s.ToggleTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, t)
		}
		state := "pending"
		if t.Completed {
			state = "done"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %s is %s\n", t.ID, state)
		return nil
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		if err := s.DeleteTask(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
		return nil
	},
}

func init() {
	tasksListCmd.Flags().StringVar(&taskStatus, "status", "", "all, completed or pending")
	tasksListCmd.Flags().StringVar(&taskPriority, "priority", "", "low, medium or high")
	tasksListCmd.Flags().StringVarP(&taskQuery, "query", "q", "", "search title and description")

	tasksAddCmd.Flags().StringVar(&taskTitle, "title", "", "task title")
	tasksAddCmd.Flags().StringVar(&taskDescription, "description", "", "task description")
	tasksAddCmd.Flags().StringVar(&taskPriority, "priority", "", "low, medium or high")
	tasksAddCmd.Flags().StringVar(&taskDue, "due", "", "due date (YYYY-MM-DD)")
	tasksAddCmd.Flags().BoolVar(&taskVoice, "voice", false, "dictate the task from stdin")

	tasksEditCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	tasksEditCmd.Flags().StringVar(&editDescription, "description", "", "new description, empty to clear")
	tasksEditCmd.Flags().StringVar(&editPriority, "priority", "", "low, medium or high")
	tasksEditCmd.Flags().StringVar(&editDue, "due", "", "due date (YYYY-MM-DD), empty to clear")
	tasksEditCmd.Flags().BoolVar(&editVoice, "voice", false, "dictate changes from stdin")

	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksEditCmd, tasksToggleCmd, tasksRmCmd)
	rootCmd.AddCommand(tasksCmd)
}
