package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linguanote/linguanote/internal/localstate"
)

func init() {
	loginCmd := &cobra.Command{
		Use:   "login SERVICE_URL TOKEN",
		Short: "Save service URL and token, then check the access gate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := localstate.LoadPrefs()
			if err != nil {
				return err
			}
			prefs.ServiceURL = args[0]
			prefs.Token = args[1]
			if err := localstate.SavePrefs(prefs); err != nil {
				return err
			}
			apiFlag, tokenFlag = args[0], args[1]
			return runGate(cmd)
		},
	}
	rootCmd.AddCommand(loginCmd)

	gateCmd := &cobra.Command{
		Use:   "gate",
		Short: "Show the access decision for the current token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGate(cmd)
		},
	}
	rootCmd.AddCommand(gateCmd)

	usernameCmd := &cobra.Command{
		Use:   "username SET_USERNAME",
		Short: "Claim a username for your profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			prof, err := c.SetUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "username set: %s (shown as %q)\n", *prof.Username, *prof.DisplayName)
			return nil
		},
	}
	rootCmd.AddCommand(usernameCmd)

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			prof, err := c.GetProfile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "user: %s\n", prof.UserID)
			if prof.Username != nil {
				fmt.Fprintf(os.Stdout, "username: %s\n", *prof.Username)
			}
			if prof.DisplayName != nil {
				fmt.Fprintf(os.Stdout, "display name: %s\n", *prof.DisplayName)
			}
			return nil
		},
	}
	rootCmd.AddCommand(profileCmd)

	var uiLangFlag string
	langCmd := &cobra.Command{
		Use:   "lang [CODE]",
		Short: "Set the default study language and the interface language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && uiLangFlag == "" {
				return fmt.Errorf("pass a study language code, --ui CODE, or both")
			}
			prefs, err := localstate.LoadPrefs()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				prefs.StudyLanguage = args[0]
			}
			if uiLangFlag != "" {
				prefs.UILanguage = uiLangFlag
			}
			if err := localstate.SavePrefs(prefs); err != nil {
				return err
			}
			if prefs.StudyLanguage != "" {
				fmt.Fprintf(os.Stdout, "study language: %s\n", prefs.StudyLanguage)
			}
			if prefs.UILanguage != "" {
				fmt.Fprintf(os.Stdout, "interface language: %s\n", prefs.UILanguage)
			}
			return nil
		},
	}
	langCmd.Flags().StringVar(&uiLangFlag, "ui", "", "Interface language for client messages")
	rootCmd.AddCommand(langCmd)
}

func runGate(cmd *cobra.Command) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	res, err := c.EvaluateGate(cmd.Context())
	if err != nil {
		return err
	}
	switch res.Decision {
	case "AUTHORIZED":
		fmt.Fprintf(os.Stdout, uiText("gate.authorized"), *res.Profile.Username)
	case "NEEDS_USERNAME":
		fmt.Fprintln(os.Stdout, uiText("gate.needsUsername"))
	default:
		fmt.Fprintln(os.Stdout, uiText("gate.unauthenticated"))
	}
	return nil
}
