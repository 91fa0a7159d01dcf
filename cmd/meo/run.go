package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the game through Mod Engine 2",
	Long: `Run the launch script next to the game's loader config
(launchmod_<game>.sh, or .bat on Windows) and wait for it to exit.

The script runs in the game directory with MEO_GAME, MEO_GAME_DIR and
MEO_CONFIG_PATH set.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}

	// Unresolved conflicts are worth a warning but never block a launch
	if report, err := session.Conflicts(); err == nil && !report.Empty() {
		cmd.PrintErrln(colorYellow(fmt.Sprintf("warning: %d conflicting file(s), run 'meo conflicts' for details", report.FileCount())))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Launching %s...\n", session.Game.Name)
	result, err := svc.Launch(ctx, session.Game, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if verbose {
		cmd.Printf("%s exited with code %d\n", result.Script, result.ExitCode)
	}
	return nil
}
