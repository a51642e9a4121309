package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	playlistsCmd := &cobra.Command{Use: "playlists", Short: "Playlist operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List playlists, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			for _, p := range w.Playlists() {
				fmt.Fprintf(os.Stdout, "%s  %s\n", p.PlaylistID, p.Name)
			}
			return nil
		},
	}
	playlistsCmd.AddCommand(listCmd)

	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			p, err := w.CreatePlaylist(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, p.PlaylistID)
			return nil
		},
	}
	playlistsCmd.AddCommand(addCmd)

	rmCmd := &cobra.Command{
		Use:   "rm PLAYLIST_ID",
		Short: "Delete a playlist; its notes are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			return w.DeletePlaylist(cmd.Context(), args[0])
		},
	}
	playlistsCmd.AddCommand(rmCmd)

	toggleCmd := &cobra.Command{
		Use:   "toggle PLAYLIST_ID NOTE_ID",
		Short: "Add the note to the playlist, or remove it if already present",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			added, err := w.ToggleMembership(cmd.Context(), args[1], args[0])
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintln(os.Stdout, "added")
			} else {
				fmt.Fprintln(os.Stdout, "removed")
			}
			return nil
		},
	}
	playlistsCmd.AddCommand(toggleCmd)

	notesCmd := &cobra.Command{
		Use:   "notes PLAYLIST_ID",
		Short: "List the playlist's notes in membership order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			notes, err := c.PlaylistNotes(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, n := range notes {
				fmt.Fprintf(os.Stdout, "%s  %s\n", n.NoteID, n.Title)
			}
			return nil
		},
	}
	playlistsCmd.AddCommand(notesCmd)

	rootCmd.AddCommand(playlistsCmd)
}
