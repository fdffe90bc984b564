package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/notes-go/pkg/notes"
)

func newNotesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "Manage notes",
	}

	cmd.AddCommand(newNotesListCommand())
	cmd.AddCommand(newNotesGetCommand())
	cmd.AddCommand(newNotesCreateCommand())
	cmd.AddCommand(newNotesUpdateCommand())
	cmd.AddCommand(newNotesDeleteCommand())
	cmd.AddCommand(newNotesSearchCommand())
	cmd.AddCommand(newNotesAnalyzeCommand())

	return cmd
}

// listFlags binds the pagination and filter flags shared by list commands
type listFlags struct {
	page      int
	pageSize  int
	ordering  string
	completed string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 0, "Page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "Results per page")
	cmd.Flags().StringVar(&f.ordering, "ordering", "", "Order by field, prefix with - for descending")
	cmd.Flags().StringVar(&f.completed, "completed", "", "Filter by completion (true, false)")
}

func (f *listFlags) params() (*notes.ListParams, error) {
	params := &notes.ListParams{
		Page:     f.page,
		PageSize: f.pageSize,
		Ordering: f.ordering,
	}
	if f.completed != "" {
		completed, err := strconv.ParseBool(f.completed)
		if err != nil {
			return nil, fmt.Errorf("invalid --completed value %q", f.completed)
		}
		params.Completed = &completed
	}
	return params, nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func idsPtr(values []int64) *[]int64 {
	if values == nil {
		return nil
	}
	return &values
}

func newNotesListCommand() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := flags.params()
			if err != nil {
				return err
			}

			list, err := getCliContext(cmd).Client.Notes.List(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render(cmd, list, func(w io.Writer) {
				printNotes(w, list.Notes)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newNotesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			note, err := getCliContext(cmd).Client.Notes.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			return render(cmd, note, func(w io.Writer) {
				printNote(w, note)
			})
		},
	}
}

func newNotesCreateCommand() *cobra.Command {
	var params notes.CreateNoteParams

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Long: `Create a note.

Examples:
  notesctl notes create --title "Groceries" --content "milk, eggs" --category 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := getCliContext(cmd).Client.Notes.Create(cmd.Context(), &params)
			if err != nil {
				return describeError(err)
			}

			return render(cmd, note, func(w io.Writer) {
				fmt.Fprintf(w, "Created note %d\n", note.ID)
			})
		},
	}

	cmd.Flags().StringVar(&params.Title, "title", "", "Title")
	cmd.Flags().StringVar(&params.Content, "content", "", "Content")
	cmd.Flags().BoolVar(&params.Completed, "completed", false, "Mark as completed")
	cmd.Flags().Int64SliceVar(&params.CategoryIDs, "category", nil, "Category ID (repeatable)")
	cmd.Flags().Int64SliceVar(&params.SubjectIDs, "subject", nil, "Subject ID (repeatable)")

	return cmd
}

func newNotesUpdateCommand() *cobra.Command {
	var (
		title, content string
		completed      bool
		categories     []int64
		subjects       []int64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			params := &notes.UpdateNoteParams{}
			if cmd.Flags().Changed("title") {
				params.Title = notes.String(title)
			}
			if cmd.Flags().Changed("content") {
				params.Content = notes.String(content)
			}
			if cmd.Flags().Changed("completed") {
				params.Completed = notes.Bool(completed)
			}
			if cmd.Flags().Changed("category") {
				params.CategoryIDs = idsPtr(categories)
			}
			if cmd.Flags().Changed("subject") {
				params.SubjectIDs = idsPtr(subjects)
			}

			note, err := getCliContext(cmd).Client.Notes.Update(cmd.Context(), id, params)
			if err != nil {
				return describeError(err)
			}

			return render(cmd, note, func(w io.Writer) {
				fmt.Fprintf(w, "Updated note %d\n", note.ID)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title")
	cmd.Flags().StringVar(&content, "content", "", "Content")
	cmd.Flags().BoolVar(&completed, "completed", false, "Completion state")
	cmd.Flags().Int64SliceVar(&categories, "category", nil, "Category IDs, replaces the current set")
	cmd.Flags().Int64SliceVar(&subjects, "subject", nil, "Subject IDs, replaces the current set")

	return cmd
}

func newNotesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := getCliContext(cmd).Client.Notes.Delete(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", id)
			return nil
		},
	}
}

func newNotesSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := getCliContext(cmd).Client.Notes.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			return render(cmd, list, func(w io.Writer) {
				printNotes(w, list.Notes)
			})
		},
	}
}

func newNotesAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <id>",
		Short: "Summarize a note and detect its sentiment and keywords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			analysis, err := getCliContext(cmd).Client.Notes.Analyze(cmd.Context(), id)
			if err != nil {
				return err
			}

			return render(cmd, analysis, func(w io.Writer) {
				printAnalysis(w, analysis)
			})
		},
	}
}
