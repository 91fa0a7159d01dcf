package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Game profile commands",
	Long: `Commands for managing game profiles.

A game profile names one Mod Engine 2 installation by the path of its
config_<game>.toml. The current game is used when --game is not given.`,
}

var gameListCmd = &cobra.Command{
	Use:   "list",
	Short: "List game profiles",
	Args:  cobra.NoArgs,
	RunE:  runGameList,
}

var gameAddCmd = &cobra.Command{
	Use:   "add <name> <config-path>",
	Short: "Add a game profile",
	Long: `Add a game profile pointing at a Mod Engine 2 config file.

The path must be absolute and name an existing config_<game>.toml.
The first game added becomes the current game.

Example:
  meo game add "Elden Ring" ~/Games/ModEngine2/config_eldenring.toml`,
	Args: cobra.ExactArgs(2),
	RunE: runGameAdd,
}

var gameRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a game profile",
	Long:  `Remove a game profile. The loader config and mod folders are left untouched.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGameRemove,
}

var gameRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a game profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runGameRename,
}

var gameSetPathCmd = &cobra.Command{
	Use:   "set-path <name> <config-path>",
	Short: "Point a game profile at a different config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runGameSetPath,
}

var gameSwitchCmd = &cobra.Command{
	Use:   "switch <name>",
	Short: "Make a game profile the current game",
	Args:  cobra.ExactArgs(1),
	RunE:  runGameSwitch,
}

func init() {
	gameCmd.AddCommand(gameListCmd)
	gameCmd.AddCommand(gameAddCmd)
	gameCmd.AddCommand(gameRemoveCmd)
	gameCmd.AddCommand(gameRenameCmd)
	gameCmd.AddCommand(gameSetPathCmd)
	gameCmd.AddCommand(gameSwitchCmd)
	rootCmd.AddCommand(gameCmd)
}

type gameJSON struct {
	Name       string `json:"name"`
	ConfigPath string `json:"config_path"`
	Current    bool   `json:"current"`
}

func runGameList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	games := svc.Games().List()
	current := svc.Config().CurrentGame

	if jsonOutput {
		out := make([]gameJSON, 0, len(games))
		for _, g := range games {
			out = append(out, gameJSON{Name: g.Name, ConfigPath: g.ConfigPath, Current: g.Name == current})
		}
		return printJSON(cmd, out)
	}

	if len(games) == 0 {
		cmd.Println("No games configured. Add one with 'meo game add <name> <config-path>'.")
		return nil
	}
	for _, g := range games {
		marker := "  "
		if g.Name == current {
			marker = colorGreen("* ")
		}
		cmd.Printf("%s%-24s %s\n", marker, g.Name, g.ConfigPath)
	}
	return nil
}

func runGameAdd(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	game, err := svc.Games().Add(args[0], args[1])
	if err != nil {
		return err
	}
	cmd.Printf("Added %s (%s)\n", game.Name, game.ConfigPath)
	if svc.Config().CurrentGame == game.Name {
		cmd.Printf("%s is now the current game\n", game.Name)
	}
	return nil
}

func runGameRemove(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	if err := svc.Games().Remove(args[0]); err != nil {
		return err
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runGameRename(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	if err := svc.RenameGame(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Renamed %s to %s\n", args[0], args[1])
	return nil
}

func runGameSetPath(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	if err := svc.Games().SetPath(args[0], args[1]); err != nil {
		return err
	}
	game, err := svc.Games().Get(args[0])
	if err != nil {
		return err
	}
	cmd.Printf("%s now uses %s\n", game.Name, game.ConfigPath)
	return nil
}

func runGameSwitch(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	if err := svc.Games().Switch(args[0]); err != nil {
		return err
	}
	cmd.Printf("Switched to %s\n", args[0])
	return nil
}
