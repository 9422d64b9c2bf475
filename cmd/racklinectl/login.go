// Copyright (c) 2026 Rackline. All rights reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rackline/rackline/pkg/identity"
)

// credentialReply matches the gateway's login and oauth response shape.
type credentialReply struct {
	Success bool           `json:"success"`
	Token   string         `json:"token,omitempty"`
	User    *identity.User `json:"user,omitempty"`
	Message string         `json:"message,omitempty"`
}

func loginCmd() *cobra.Command {
	var usernameOrEmail string
	var password string
	var remember bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session credential",
		Long: `Sign in against the gateway with a username or email.

The password is read from --password or, when omitted, from standard
input. With --remember the gateway issues a 30-day session; otherwise the
credential lasts until logout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if usernameOrEmail == "" {
				return errors.New("--user is required")
			}
			if password == "" {
				fmt.Fprint(os.Stderr, "Password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			store, client, err := newSession()
			if err != nil {
				return err
			}

			var reply credentialReply
			err = client.Post(cmd.Context(), "/api/auth/login", map[string]any{
				"usernameOrEmail": usernameOrEmail,
				"password":        password,
				"remember":        remember,
			}, &reply)
			if err != nil {
				return err
			}
			if !reply.Success || reply.Token == "" || reply.User == nil {
				if reply.Message != "" {
					return errors.New(reply.Message)
				}
				return errors.New("login failed")
			}

			if err := store.SetCredentials(reply.Token, reply.User); err != nil {
				return err
			}

			fmt.Printf("Signed in as %s\n", reply.User.Username)
			printUser(reply.User)
			return nil
		},
	}

	cmd.Flags().StringVarP(&usernameOrEmail, "user", "u", "", "Username or email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (read from stdin when omitted)")
	cmd.Flags().BoolVarP(&remember, "remember", "r", false, "Request a 30-day session")

	return cmd
}
