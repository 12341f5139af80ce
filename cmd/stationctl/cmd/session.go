package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or reset the persisted station session",
}

var sessionInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what session is persisted, without contacting the auth service",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := buildStack(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.close()
		return printJSON(cmd.OutOrStdout(), st.manager.GetSessionInfo(cmd.Context()))
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the persisted session without telling the auth service",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := buildStack(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.close()
		st.manager.ClearSession(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
		return nil
	},
}

var sessionRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Run the startup session check and print the resulting state",
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
		return printJSON(cmd.OutOrStdout(), ctrl.State())
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionInfoCmd, sessionClearCmd, sessionRestoreCmd)
}
