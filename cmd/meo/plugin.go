package main

import (
	"fmt"
	"strconv"

	"meo/internal/core"

	"github.com/spf13/cobra"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "External DLL commands",
	Long: `Commands for the external DLLs Mod Engine 2 loads.

Plugins are the .dll files found under the game directory, outside the
loader's own modengine2 folder. Only enabled plugins are written to the
loader config, in list order.`,
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plugins in load order",
	Args:  cobra.NoArgs,
	RunE:  runPluginList,
}

var pluginEnableCmd = &cobra.Command{
	Use:   "enable <path>",
	Short: "Enable a plugin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setPluginEnabled(cmd, args[0], true)
	},
}

var pluginDisableCmd = &cobra.Command{
	Use:   "disable <path>",
	Short: "Disable a plugin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setPluginEnabled(cmd, args[0], false)
	},
}

var pluginReorderCmd = &cobra.Command{
	Use:   "reorder <path>...",
	Short: "Set the full plugin load order",
	Long: `Set the load order of all plugins at once. Every plugin must be named
exactly once, by its path relative to the game directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPluginReorder,
}

var pluginMoveCmd = &cobra.Command{
	Use:   "move <path> <delta>",
	Short: "Move a plugin up (negative) or down (positive) in load order",
	Args:  cobra.ExactArgs(2),
	RunE:  runPluginMove,
}

func init() {
	pluginCmd.AddCommand(pluginListCmd)
	pluginCmd.AddCommand(pluginEnableCmd)
	pluginCmd.AddCommand(pluginDisableCmd)
	pluginCmd.AddCommand(pluginReorderCmd)
	pluginCmd.AddCommand(pluginMoveCmd)
	rootCmd.AddCommand(pluginCmd)
}

type pluginJSON struct {
	Path    string `json:"path"`
	Enabled bool   `json:"enabled"`
}

// withPlugins opens the selected game's plugin list and runs fn against it
func withPlugins(fn func(list *core.PluginList) error) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}
	list, err := session.Plugins()
	if err != nil {
		return err
	}
	return fn(list)
}

func runPluginList(cmd *cobra.Command, args []string) error {
	return withPlugins(func(list *core.PluginList) error {
		plugins := list.List()
		if jsonOutput {
			out := make([]pluginJSON, 0, len(plugins))
			for _, p := range plugins {
				out = append(out, pluginJSON{Path: p.Path, Enabled: p.Enabled})
			}
			return printJSON(cmd, out)
		}

		if len(plugins) == 0 {
			cmd.Println("No .dll files found in the game directory.")
			return nil
		}
		for i, p := range plugins {
			state := colorRed("off")
			if p.Enabled {
				state = colorGreen("on ")
			}
			cmd.Printf("%-4d %s %s\n", i+1, state, p.Path)
		}
		return nil
	})
}

func setPluginEnabled(cmd *cobra.Command, path string, enabled bool) error {
	return withPlugins(func(list *core.PluginList) error {
		if err := list.SetEnabled(path, enabled); err != nil {
			return err
		}
		if enabled {
			cmd.Printf("Enabled %s\n", path)
		} else {
			cmd.Printf("Disabled %s\n", path)
		}
		return nil
	})
}

func runPluginReorder(cmd *cobra.Command, args []string) error {
	return withPlugins(func(list *core.PluginList) error {
		if err := list.Reorder(args); err != nil {
			return err
		}
		cmd.Println("Plugin order updated")
		return nil
	})
}

func runPluginMove(cmd *cobra.Command, args []string) error {
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid delta %q: %w", args[1], err)
	}
	return withPlugins(func(list *core.PluginList) error {
		if err := list.Move(args[0], delta); err != nil {
			return err
		}
		for i, p := range list.List() {
			if p.Path == args[0] {
				cmd.Printf("%s is now #%d\n", p.Path, i+1)
			}
		}
		return nil
	})
}
