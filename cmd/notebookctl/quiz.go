package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	var playlistID string
	quizCmd := &cobra.Command{
		Use:   "quiz",
		Short: "Study the visible notes as a quiz",
		Long: `Steps through notes title-first. Commands:
  r        reveal the current note's body
  n        next note (wraps around)
  p        previous note (wraps around)
  q        end the session`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWorkspace(cmd)
			if err != nil {
				return err
			}
			if playlistID != "" {
				w.SetFilter(playlistID)
			}
			seq, err := w.StartQuiz(cmd.Context())
			if err != nil {
				return err
			}

			in := bufio.NewScanner(os.Stdin)
			for {
				card, revealed := seq.Current()
				fmt.Fprintf(os.Stdout, "\n[%d/%d] %s\n", seq.Pos()+1, seq.Len(), card.Title)
				if revealed {
					fmt.Fprintln(os.Stdout, card.Content)
				}
				fmt.Fprint(os.Stdout, "(r)eveal / (n)ext / (p)rev / (q)uit > ")
				if !in.Scan() {
					return nil
				}
				switch strings.TrimSpace(in.Text()) {
				case "r":
					seq.Reveal()
				case "n":
					seq.Next()
				case "p":
					seq.Prev()
				case "q":
					return nil
				}
			}
		},
	}
	quizCmd.Flags().StringVarP(&playlistID, "playlist", "p", "", "Quiz only this playlist, in its own order")
	rootCmd.AddCommand(quizCmd)
}
