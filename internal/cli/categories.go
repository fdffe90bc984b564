package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Browse note categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := getCliContext(cmd).Client.Categories.List(cmd.Context())
			if err != nil {
				return err
			}

			return render(cmd, categories, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
				for _, c := range categories {
					fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, truncate(c.Description, 60))
				}
			})
		},
	})

	return cmd
}

func newSubjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subjects",
		Aliases: []string{"subject"},
		Short:   "Browse note subjects",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := getCliContext(cmd).Client.Subjects.List(cmd.Context())
			if err != nil {
				return err
			}

			return render(cmd, subjects, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
				for _, s := range subjects {
					fmt.Fprintf(w, "%d\t%s\t%s\n", s.ID, s.Name, truncate(s.Description, 60))
				}
			})
		},
	})

	return cmd
}
