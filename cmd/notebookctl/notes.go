package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/linguanote/linguanote/internal/content"
	"github.com/linguanote/linguanote/internal/model"
)

func init() {
	notesCmd := &cobra.Command{Use: "notes", Short: "Note operations"}

	var playlistFilter string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			if playlistFilter != "" {
				w.SetFilter(playlistFilter)
			}
			for _, n := range w.Visible() {
				marker := " "
				if playlistFilter != "" {
					marker = "*"
				}
				fmt.Fprintf(os.Stdout, "%s %s  %s\n", marker, n.NoteID, n.Title)
			}
			return nil
		},
	}
	listCmd.Flags().StringVarP(&playlistFilter, "playlist", "p", "", "Show only notes in this playlist")
	notesCmd.AddCommand(listCmd)

	var title, body string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			if playlistFilter != "" {
				w.SetFilter(playlistFilter)
			}
			n, err := w.CreateNote(cmd.Context(), title, body)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, n.NoteID)
			return nil
		},
	}
	addCmd.Flags().StringVarP(&title, "title", "T", "", "Note title")
	addCmd.Flags().StringVarP(&body, "content", "c", "", "Note content; supports @audio(url), @video(url) and ![alt](url)")
	addCmd.Flags().StringVarP(&playlistFilter, "playlist", "p", "", "Also link the note into this playlist")
	notesCmd.AddCommand(addCmd)

	showCmd := &cobra.Command{
		Use:   "show NOTE_ID",
		Short: "Show a note with its media blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			var note *model.Note
			for _, n := range w.Notes() {
				if n.NoteID == args[0] {
					note = n
					break
				}
			}
			if note == nil {
				return fmt.Errorf("note not found: %s", args[0])
			}
			fmt.Fprintf(os.Stdout, "# %s\n", note.Title)
			for _, b := range content.Parse(note.Content) {
				switch b.Kind {
				case content.KindText:
					fmt.Fprintln(os.Stdout, b.Text)
				case content.KindImage:
					fmt.Fprintf(os.Stdout, "[image %s] %s\n", b.Alt, b.URL)
				default:
					fmt.Fprintf(os.Stdout, "[%s] %s\n", b.Kind, b.URL)
				}
			}
			return nil
		},
	}
	notesCmd.AddCommand(showCmd)

	var newTitle, newContent string
	editCmd := &cobra.Command{
		Use:   "edit NOTE_ID",
		Short: "Update a note's title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			patch := model.NotePatch{}
			if cmd.Flags().Changed("title") {
				patch.Title = &newTitle
			}
			if cmd.Flags().Changed("content") {
				patch.Content = &newContent
			}
			if patch.Title == nil && patch.Content == nil {
				return fmt.Errorf("nothing to update; pass --title or --content")
			}
			_, err = w.UpdateNote(cmd.Context(), args[0], patch)
			return err
		},
	}
	editCmd.Flags().StringVarP(&newTitle, "title", "T", "", "New title")
	editCmd.Flags().StringVarP(&newContent, "content", "c", "", "New content")
	notesCmd.AddCommand(editCmd)

	rmCmd := &cobra.Command{
		Use:   "rm NOTE_ID",
		Short: "Delete a note and its playlist memberships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			return w.DeleteNote(cmd.Context(), args[0])
		},
	}
	notesCmd.AddCommand(rmCmd)

	uploadCmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a media file and print its signed URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			up, err := c.Upload(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, up.URL)
			return nil
		},
	}
	notesCmd.AddCommand(uploadCmd)

	rootCmd.AddCommand(notesCmd)
}
