package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linguanote/linguanote/internal/localstate"
	"github.com/linguanote/linguanote/internal/notebook"
	"github.com/linguanote/linguanote/pkg/client"
)

var (
	apiFlag   string
	tokenFlag string
	langFlag  string
	rootCmd   = &cobra.Command{
		Use:   "notebookctl",
		Short: "CLI client for the notebook service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "", "Notebook service base URL (defaults from prefs)")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", "", "Bearer token (defaults from prefs)")
	rootCmd.PersistentFlags().StringVarP(&langFlag, "lang", "l", "", "Study language (defaults from prefs)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds an API client from flags, falling back to saved prefs.
func newClient() (*client.Client, error) {
	prefs, err := localstate.LoadPrefs()
	if err != nil {
		return nil, err
	}
	base := apiFlag
	if base == "" {
		base = prefs.ServiceURL
	}
	if base == "" {
		base = "http://localhost:8080"
	}
	token := tokenFlag
	if token == "" {
		token = prefs.Token
	}
	if token == "" {
		return nil, fmt.Errorf("no token; pass --token or run 'notebookctl login'")
	}
	return client.New(base, token), nil
}

// studyLang resolves the study language from the flag or saved prefs.
func studyLang() (string, error) {
	if langFlag != "" {
		return langFlag, nil
	}
	prefs, err := localstate.LoadPrefs()
	if err != nil {
		return "", err
	}
	if prefs.StudyLanguage == "" {
		return "", fmt.Errorf("no study language; pass --lang or run 'notebookctl lang <code>'")
	}
	return prefs.StudyLanguage, nil
}

// newWorkspace builds a refreshed workspace for the resolved study language.
func newWorkspace(cmd *cobra.Command) (*notebook.Workspace, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	lang, err := studyLang()
	if err != nil {
		return nil, err
	}
	w := notebook.NewWorkspace(c, lang)
	if err := w.Refresh(cmd.Context()); err != nil {
		return nil, err
	}
	return w, nil
}
