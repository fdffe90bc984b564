package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/notes-go/pkg/notes"
)

func newTasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Manage tasks",
	}

	cmd.AddCommand(newTasksListCommand())
	cmd.AddCommand(newTasksGetCommand())
	cmd.AddCommand(newTasksCreateCommand())
	cmd.AddCommand(newTasksUpdateCommand())
	cmd.AddCommand(newTasksDeleteCommand())
	cmd.AddCommand(newTasksSearchCommand())
	cmd.AddCommand(newTasksAnalyzeCommand())

	return cmd
}

func parseDueDate(value string) (*notes.Date, error) {
	if value == "" {
		return nil, nil
	}
	due, err := notes.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", value)
	}
	return &due, nil
}

func newTasksListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := flags.params()
			if err != nil {
				return err
			}

			list, err := getCliContext(cmd).Client.Tasks.List(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render(cmd, list, func(w io.Writer) {
				printTasks(w, list.Tasks)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newTasksGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			task, err := getCliContext(cmd).Client.Tasks.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			return render(cmd, task, func(w io.Writer) {
				printTask(w, task)
			})
		},
	}
}

func newTasksCreateCommand() *cobra.Command {
	var (
		params notes.CreateTaskParams
		due    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := parseDueDate(due)
			if err != nil {
				return err
			}
			params.DueDate = dueDate

			task, err := getCliContext(cmd).Client.Tasks.Create(cmd.Context(), &params)
			if err != nil {
				return describeError(err)
			}

			return render(cmd, task, func(w io.Writer) {
				fmt.Fprintf(w, "Created task %d\n", task.ID)
			})
		},
	}

	cmd.Flags().StringVar(&params.Title, "title", "", "Title")
	cmd.Flags().StringVar(&params.Description, "description", "", "Description")
	cmd.Flags().BoolVar(&params.Completed, "completed", false, "Mark as completed")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")

	return cmd
}

func newTasksUpdateCommand() *cobra.Command {
	var (
		title, description, due string
		completed               bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			params := &notes.UpdateTaskParams{}
			if cmd.Flags().Changed("title") {
				params.Title = notes.String(title)
			}
			if cmd.Flags().Changed("description") {
				params.Description = notes.String(description)
			}
			if cmd.Flags().Changed("completed") {
				params.Completed = notes.Bool(completed)
			}
			if cmd.Flags().Changed("due") {
				if params.DueDate, err = parseDueDate(due); err != nil {
					return err
				}
			}

			task, err := getCliContext(cmd).Client.Tasks.Update(cmd.Context(), id, params)
			if err != nil {
				return describeError(err)
			}

			return render(cmd, task, func(w io.Writer) {
				fmt.Fprintf(w, "Updated task %d\n", task.ID)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().BoolVar(&completed, "completed", false, "Completion state")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")

	return cmd
}

func newTasksDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := getCliContext(cmd).Client.Tasks.Delete(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
			return nil
		},
	}
}

func newTasksSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := getCliContext(cmd).Client.Tasks.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			return render(cmd, list, func(w io.Writer) {
				printTasks(w, list.Tasks)
			})
		},
	}
}

func newTasksAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <id>",
		Short: "Analyze a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			analysis, err := getCliContext(cmd).Client.Tasks.Analyze(cmd.Context(), id)
			if err != nil {
				return err
			}

			return render(cmd, analysis, func(w io.Writer) {
				printAnalysis(w, analysis)
			})
		},
	}
}
