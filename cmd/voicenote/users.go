package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"voice-notes/internal/client"
)

var (
	userName     string
	userEmail    string
	userPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and store its token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		s, err := c.Register(cmd.Context(), userName, userEmail, userPassword)
		if err != nil {
			return err
		}
		return saveSession(cmd, s)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		s, err := c.Login(cmd.Context(), userEmail, userPassword)
		if err != nil {
			return err
		}
		return saveSession(cmd, s)
	},
}

func saveSession(cmd *cobra.Command, s *client.Session) error {
	if err := writeToken(tokenFile, s.Token()); err != nil {
		return err
	}
	u := s.User()
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", u.Name, u.Email)
	return nil
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the logged in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		u, err := s.Me(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, u)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\nid: %s\nsince: %s\n", u.Name, u.Email, u.ID, u.CreatedAt.Format("2006-01-02"))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show note and task counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession()
		if err != nil {
			return err
		}
		st, err := s.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, st)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "notes: %d\ntasks: %d (%d done, %d pending)\n",
			st.TotalNotes, st.TotalTasks, st.CompletedTasks, st.PendingTasks)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&userName, "name", "", "display name")
	_ = registerCmd.MarkFlagRequired("name")
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&userEmail, "email", "", "account email")
		c.Flags().StringVar(&userPassword, "password", "", "account password")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	rootCmd.AddCommand(registerCmd, loginCmd, meCmd, statsCmd)
}
