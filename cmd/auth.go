package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/holidaze/internal/holidaze"
	"github.com/example/holidaze/internal/session"
)

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and store the session locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}
			email := args[0]
			if password == "" {
				if password, err = readLine(cmd, "Password: "); err != nil {
					return err
				}
			}

			res, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if err := a.tokens.Set(session.Session{AccessToken: res.AccessToken, User: res.Profile}); err != nil {
				return err
			}
			fmt.Printf("logged in as %s <%s>\n", res.Profile.Name, res.Profile.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var password string
	var manager bool

	cmd := &cobra.Command{
		Use:   "register <name> <email>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if password == "" {
				if password, err = readLine(cmd, "Password: "); err != nil {
					return err
				}
			}

			profile, err := a.api.Register(cmd.Context(), holidaze.RegisterRequest{
				Name:         args[0],
				Email:        args[1],
				Password:     password,
				VenueManager: manager,
			})
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Printf("registered %s <%s>, now run: holidaze login %s\n", profile.Name, profile.Email, profile.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&manager, "venue-manager", false, "register as a venue manager")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}
			if err := a.tokens.Clear(); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newAuthedApp()
			if err != nil {
				return err
			}
			sess, ok := a.tokens.Get()
			if !ok {
				return fmt.Errorf("not logged in")
			}
			fmt.Printf("%s <%s>", sess.User.Name, sess.User.Email)
			if sess.User.VenueManager {
				fmt.Print(" (venue manager)")
			}
			fmt.Println()
			return nil
		},
	}
}

func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	r := bufio.NewReader(cmd.InOrStdin())
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
