package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"voice-notes/internal/form"
	"voice-notes/internal/models"
)

var (
	noteCategory string
	noteQuery    string
	noteTitle    string
	noteContent  string
	noteVoice    bool
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage notes",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		notes, err := s.Notes(cmd.Context(), models.NoteFilter{
			Category: models.Category(noteCategory),
			Query:    noteQuery,
		})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, notes)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, n := range notes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.Category, n.UpdatedAt.Local().Format("2006-01-02 15:04"), n.Title)
		}
		return tw.Flush()
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note, optionally dictating its content",
	Long: `Create a note. With --voice the content is dictated: each line read
from stdin is one recognised phrase.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}

		f := form.NoteForm()
		if err := f.Set("title", noteTitle); err != nil {
			return err
		}
		if noteCategory != "" {
			if err := f.Set("category", noteCategory); err != nil {
				return err
			}
		}
		if noteContent != "" {
			if err := f.Set("content", noteContent); err != nil {
				return err
			}
		}
		if noteVoice {
			if err := dictate(cmd.Context(), cmd.InOrStdin(), f); err != nil {
				return err
			}
		}

		in, err := f.Build()
		if err != nil {
			return err
		}
		n, err := s.CreateNote(cmd.Context(), in)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, n)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created note %s\n", n.ID)
		return nil
	},
}

var notesRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		if err := s.DeleteNote(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s\n", args[0])
		return nil
	},
}

func init() {
	notesListCmd.Flags().StringVar(&noteCategory, "category", "", "only notes in this category")
	notesListCmd.Flags().StringVarP(&noteQuery, "query", "q", "", "search title and content")

	notesAddCmd.Flags().StringVar(&noteTitle, "title", "", "note title")
	notesAddCmd.Flags().StringVar(&noteContent, "content", "", "note content")
	notesAddCmd.Flags().StringVar(&noteCategory, "category", "", "General, Work, Personal, Ideas or To-Do")
	notesAddCmd.Flags().BoolVar(&noteVoice, "voice", false, "dictate the content from stdin")
	_ = notesAddCmd.MarkFlagRequired("title")

	notesCmd.AddCommand(notesListCmd, notesAddCmd, notesRmCmd)
	rootCmd.AddCommand(notesCmd)
}
