package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loginCIN      string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign a staff member in at this station",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		password := loginPassword
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			p, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			password = p
		}

		st, err := buildStack(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.close()

		ctrl, err := st.controller(ctx, cfg, log("auth"))
		if err != nil {
			return err
		}
		res := ctrl.Login(ctx, loginCIN, password)
		if !res.Success {
			return fmt.Errorf("login failed: %s", res.Message)
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign the current staff member out and clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := buildStack(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.close()

		ctrl, err := st.controller(ctx, cfg, log("auth"))
		if err != nil {
			return err
		}
		ctrl.Logout(ctx)
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd)
	loginCmd.Flags().StringVar(&loginCIN, "cin", "", "Staff CIN (8 digits)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password; prompted on stdin when empty")
	_ = loginCmd.MarkFlagRequired("cin")
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
