package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/notes-go/pkg/notes"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// render writes v as JSON when -o json was given, otherwise calls table
func render(cmd *cobra.Command, v interface{}, table func(w io.Writer)) error {
	out := cmd.OutOrStdout()

	switch getCliContext(cmd).Output {
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputTable, "":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		table(w)
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q", getCliContext(cmd).Output)
	}
}

func printNotes(w io.Writer, list []*notes.Note) {
	fmt.Fprintln(w, "ID\tTITLE\tDONE\tCATEGORIES\tUPDATED")
	for _, n := range list {
		names := make([]string, 0, len(n.Categories))
		for _, c := range n.Categories {
			names = append(names, c.Name)
		}
		fmt.Fprintf(w, "%d\t%s\t%t\t%s\t%s\n",
			n.ID, truncate(n.Title, 40), n.Completed, strings.Join(names, ","), formatTime(n.UpdatedAt))
	}
}

func printNote(w io.Writer, n *notes.Note) {
	fmt.Fprintf(w, "ID:\t%d\n", n.ID)
	fmt.Fprintf(w, "Title:\t%s\n", n.Title)
	fmt.Fprintf(w, "Completed:\t%t\n", n.Completed)
	fmt.Fprintf(w, "Created:\t%s\n", formatTime(n.CreatedAt))
	fmt.Fprintf(w, "Updated:\t%s\n", formatTime(n.UpdatedAt))
	if len(n.Files) > 0 {
		fmt.Fprintf(w, "Files:\t%d\n", len(n.Files))
	}
	fmt.Fprintf(w, "\n%s\n", n.Content)
}

func printTasks(w io.Writer, list []*notes.Task) {
	fmt.Fprintln(w, "ID\tTITLE\tDONE\tDUE")
	for _, t := range list {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", t.ID, truncate(t.Title, 40), t.Completed, due)
	}
}

func printTask(w io.Writer, t *notes.Task) {
	fmt.Fprintf(w, "ID:\t%d\n", t.ID)
	fmt.Fprintf(w, "Title:\t%s\n", t.Title)
	fmt.Fprintf(w, "Completed:\t%t\n", t.Completed)
	if t.DueDate != nil {
		fmt.Fprintf(w, "Due:\t%s\n", t.DueDate)
	}
	if t.Description != "" {
		fmt.Fprintf(w, "\n%s\n", t.Description)
	}
}

func printAnalysis(w io.Writer, a *notes.Analysis) {
	fmt.Fprintf(w, "Sentiment:\t%s\n", a.Sentiment)
	fmt.Fprintf(w, "Keywords:\t%s\n", strings.Join(a.Keywords, ", "))
	fmt.Fprintf(w, "Summary:\t%s\n", a.Summary)
}

// describeError adds field errors to the message of a validation failure
func describeError(err error) error {
	fields := notes.FieldErrorsOf(err)
	if len(fields) == 0 {
		return err
	}

	var b strings.Builder
	b.WriteString(err.Error())
	for _, fe := range fields {
		fmt.Fprintf(&b, "\n  %s: %s", fe.Field, strings.Join(fe.Messages, " "))
	}
	return fmt.Errorf("%s", b.String())
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
