package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/linguanote/linguanote/internal/autosave"
	"github.com/linguanote/linguanote/internal/platform/logger"
)

func init() {
	var debounceMillis int
	basicCmd := &cobra.Command{
		Use:   "basic",
		Short: "Edit the free-form basic notebook for the study language",
		Long: `Opens the per-language scratch document and appends lines from stdin.
Every edit is autosaved after a short quiet period; Ctrl-D flushes and exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			lang, err := studyLang()
			if err != nil {
				return err
			}

			doc, err := c.OpenDocument(cmd.Context(), lang)
			if err != nil {
				return err
			}

			lines := strings.Split(doc.Plain, "\n")
			if doc.Plain == "" {
				lines = nil
			}
			fmt.Fprintf(os.Stdout, "basic notebook (%s), %d lines; type to append, Ctrl-D to finish\n", lang, len(lines))
			for _, l := range lines {
				fmt.Fprintln(os.Stdout, l)
			}

			saver := autosave.New(
				time.Duration(debounceMillis)*time.Millisecond,
				func(ctx context.Context, d json.RawMessage, plain string) error {
					_, err := c.SaveDocument(ctx, doc.DocumentID, d, plain)
					return err
				},
				logger.NewConsole("notebookctl"),
			)
			defer saver.Close()

			in := bufio.NewScanner(os.Stdin)
			for in.Scan() {
				lines = append(lines, in.Text())
				plain := strings.Join(lines, "\n")
				payload, err := json.Marshal(map[string]interface{}{"lines": lines})
				if err != nil {
					return err
				}
				saver.Update(payload, plain)
			}

			if err := saver.Flush(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "saved")
			return nil
		},
	}
	basicCmd.Flags().IntVar(&debounceMillis, "debounce", 600, "Autosave quiet period in milliseconds")
	rootCmd.AddCommand(basicCmd)
}
