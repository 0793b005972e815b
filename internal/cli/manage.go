package cli

import (
	"fmt"

	"github.com/2beens/vibefit/internal/session"
	"github.com/2beens/vibefit/internal/workout"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the session log as JSON or YAML",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.open(func(cmd *cobra.Command, args []string) error {
		exportFormat, err := workout.ParseExportFormat(format)
		if err != nil {
			return err
		}
		return a.withState(cmd.Context(), func(state *session.State) error {
			content, err := a.env.Service.Export(state, exportFormat)
			if err != nil {
				return fmt.Errorf("export log: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(content)
			if err == nil && exportFormat == workout.FormatJSON {
				_, err = fmt.Fprintln(cmd.OutOrStdout())
			}
			return err
		})
	})
	cmd.Flags().StringVar(&format, "format", string(workout.FormatJSON), "json | yaml")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the local session log (the remote log is kept)",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.open(func(cmd *cobra.Command, args []string) error {
		return a.withState(cmd.Context(), func(state *session.State) error {
			cleared := a.env.Service.ClearLog(state)
			fmt.Fprintf(cmd.OutOrStdout(), "已清除 %d 筆本地紀錄\n", cleared)
			return nil
		})
	})
	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "End the session and start a fresh workout",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.open(func(cmd *cobra.Command, args []string) error {
		state, err := a.env.Sessions.Reset(cmd.Context(), a.opts.SessionID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "session [%s] reset, workout clock restarted\n", state.ID)
		return nil
	})
	return cmd
}
