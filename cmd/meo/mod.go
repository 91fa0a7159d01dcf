package main

import (
	"bufio"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"meo/internal/domain"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	modAddPath   string
	modRemoveYes bool
)

var modCmd = &cobra.Command{
	Use:   "mod",
	Short: "Mod registry commands",
	Long: `Commands for the mods registered in the loader config.

Mods are folders under the overlay root (the loader's "mod" directory).
Order matters: the loader applies mods in list order.`,
}

var modListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered mods in load order",
	Args:  cobra.NoArgs,
	RunE:  runModList,
}

var modAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a mod, creating its folder",
	Long: `Register a mod and create its folder under the overlay root.

The folder defaults to the mod name; use --path for a different top-level
folder under the overlay root. The new mod is enabled and placed last.`,
	Args: cobra.ExactArgs(1),
	RunE: runModAdd,
}

var modRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a mod and its folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runModRemove,
}

var modRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a mod and its folder",
	Args:  cobra.ExactArgs(2),
	RunE:  runModRename,
}

var modEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a mod",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setModEnabled(cmd, args[0], true)
	},
}

var modDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a mod",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setModEnabled(cmd, args[0], false)
	},
}

var modReorderCmd = &cobra.Command{
	Use:   "reorder <name>...",
	Short: "Set the full mod load order",
	Long: `Set the load order of all mods at once.

Every registered mod must be named exactly once.

Example:
  meo mod reorder ModB ModA ModC`,
	Args: cobra.MinimumNArgs(1),
	RunE: runModReorder,
}

var modMoveCmd = &cobra.Command{
	Use:   "move <name> <delta>",
	Short: "Move a mod up (negative) or down (positive) in load order",
	Args:  cobra.ExactArgs(2),
	RunE:  runModMove,
}

var modReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Register folders found under the overlay root",
	Long: `Register every top-level folder under the overlay root that no mod
points at. Found folders are added disabled.`,
	Args: cobra.NoArgs,
	RunE: runModReconcile,
}

var modTreeCmd = &cobra.Command{
	Use:   "tree <name>",
	Short: "List the files of a mod",
	Long:  `List every file in a mod's folder, with item names from the item catalog.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runModTree,
}

var modSwapCmd = &cobra.Command{
	Use:   "swap <name> <file> [item-id]",
	Short: "Rename an item file to another item of the same kind",
	Long: `Rename an item file inside a mod to another ID from the item catalog.

Without item-id, the alternatives for the file are listed instead.

Example:
  meo mod swap ArmorPack parts/am_f_1000.partsbnd.dcx am_f_1100.partsbnd.dcx`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runModSwap,
}

func init() {
	modAddCmd.Flags().StringVar(&modAddPath, "path", "", "folder relative to the overlay root (default: mod name)")
	modRemoveCmd.Flags().BoolVarP(&modRemoveYes, "yes", "y", false, "skip confirmation prompt")

	modCmd.AddCommand(modListCmd)
	modCmd.AddCommand(modAddCmd)
	modCmd.AddCommand(modRemoveCmd)
	modCmd.AddCommand(modRenameCmd)
	modCmd.AddCommand(modEnableCmd)
	modCmd.AddCommand(modDisableCmd)
	modCmd.AddCommand(modReorderCmd)
	modCmd.AddCommand(modMoveCmd)
	modCmd.AddCommand(modReconcileCmd)
	modCmd.AddCommand(modTreeCmd)
	modCmd.AddCommand(modSwapCmd)
	rootCmd.AddCommand(modCmd)
}

type modJSON struct {
	Name         string     `json:"name"`
	Enabled      bool       `json:"enabled"`
	RelativePath string     `json:"relative_path"`
	Size         int64      `json:"size"`
	ModifiedAt   *time.Time `json:"modified_at,omitempty"`
	Problem      string     `json:"problem,omitempty"`
}

func runModList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}
	reg := session.Registry

	folders := make(map[string]domain.ModFolder)
	list, err := reg.Folders()
	if err != nil && !errors.Is(err, domain.ErrRootNotFound) {
		return err
	}
	for _, f := range list {
		folders[f.Name] = f
	}
	problems := make(map[string]string)
	for _, p := range reg.Validate() {
		problems[p.Mod.Name] = p.Reason
	}

	mods := reg.List()
	if jsonOutput {
		out := make([]modJSON, 0, len(mods))
		for _, m := range mods {
			item := modJSON{Name: m.Name, Enabled: m.Enabled, RelativePath: m.RelativePath, Problem: problems[m.Name]}
			if f, ok := folders[m.Folder()]; ok {
				item.Size = f.Size
				modified := f.ModifiedAt
				item.ModifiedAt = &modified
			}
			out = append(out, item)
		}
		return printJSON(cmd, out)
	}

	cmd.Printf("%s (%s)\n\n", session.Game.Name, session.OverlayRoot())
	if len(mods) == 0 {
		cmd.Println("No mods registered. Use 'meo mod add' or 'meo mod reconcile'.")
		return nil
	}

	cmd.Printf("%-4s %-3s %-30s %-10s %s\n", "#", "ON", "NAME", "SIZE", "MODIFIED")
	for i, m := range mods {
		state := colorRed("off")
		if m.Enabled {
			state = colorGreen("on ")
		}
		size, modified := "-", "-"
		if f, ok := folders[m.Folder()]; ok {
			size = humanize.Bytes(uint64(f.Size))
			modified = humanize.Time(f.ModifiedAt)
		}
		cmd.Printf("%-4d %s %-30s %-10s %s\n", i+1, state, m.Name, size, modified)
		if reason, ok := problems[m.Name]; ok {
			cmd.Printf("     %s\n", colorYellow(reason+": "+m.RelativePath))
		}
	}
	return nil
}

func runModAdd(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}
	m, err := session.Registry.Add(args[0], modAddPath)
	if err != nil {
		return err
	}
	cmd.Printf("Added %s (%s)\n", m.Name, session.Registry.Dir(m))
	return nil
}

func runModRemove(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}
	dir, err := session.ModDir(args[0])
	if err != nil {
		return err
	}

	if !modRemoveYes {
		cmd.Printf("This will delete %s and everything in %s\n", args[0], dir)
		if !confirm(cmd, "Continue?") {
			cmd.Println("Aborted.")
			return ErrCancelled
		}
	}

	if err := session.Registry.Remove(args[0]); err != nil {
		return err
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runModRename(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}
	if err := session.Registry.Rename(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Renamed %s to %s\n", args[0], args[1])
	return nil
}

func setModEnabled(cmd *cobra.Command, name string, enabled bool) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}
	if err := session.Registry.SetEnabled(name, enabled); err != nil {
		return err
	}
	if enabled {
		cmd.Printf("Enabled %s\n", name)
	} else {
		cmd.Printf("Disabled %s\n", name)
	}
	return nil
}

func runModReorder(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}
	if err := session.Registry.Reorder(args); err != nil {
		return err
	}
	cmd.Printf("Load order: %s\n", strings.Join(args, ", "))
	return nil
}

func runModMove(cmd *cobra.Command, args []string) error {
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid delta %q: %w", args[1], err)
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}
	if err := session.Registry.Move(args[0], delta); err != nil {
		return err
	}
	for i, m := range session.Registry.List() {
		if m.Name == args[0] {
			cmd.Printf("%s is now #%d\n", m.Name, i+1)
		}
	}
	return nil
}

func runModReconcile(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}
	added, err := session.Registry.Reconcile()
	if err != nil {
		return err
	}
	if len(added) == 0 {
		cmd.Println("No unregistered folders found.")
		return nil
	}
	for _, m := range added {
		cmd.Printf("Registered %s (disabled)\n", m.Name)
	}
	return nil
}

func runModTree(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}
	dir, err := session.ModDir(args[0])
	if err != nil {
		return err
	}
	catalog, err := svc.ItemCatalog()
	if err != nil {
		return err
	}
	entries, err := catalog.Tree(dir)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, entries)
	}
	if len(entries) == 0 {
		cmd.Printf("%s is empty\n", dir)
		return nil
	}
	for _, e := range entries {
		indent := strings.Repeat("  ", strings.Count(e.Path, "/"))
		name := filepath.Base(e.Path)
		switch {
		case e.IsDir:
			cmd.Printf("%s%s/\n", indent, name)
		case e.Description != "":
			cmd.Printf("%s%s  %s\n", indent, name, colorGreen(e.Description))
		default:
			cmd.Printf("%s%s\n", indent, name)
		}
	}
	return nil
}

func runModSwap(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	session, err := openSession(svc)
	if err != nil {
		return err
	}
	dir, err := session.ModDir(args[0])
	if err != nil {
		return err
	}
	catalog, err := svc.ItemCatalog()
	if err != nil {
		return err
	}
	file := filepath.Join(dir, filepath.FromSlash(args[1]))

	if len(args) == 2 {
		alts := catalog.Alternatives(filepath.Base(file))
		if len(alts) == 0 {
			cmd.Printf("%s is not in the item catalog\n", filepath.Base(file))
			return nil
		}
		for _, a := range alts {
			cmd.Printf("%-32s %s\n", a.ID, a.Description)
		}
		return nil
	}

	newPath, err := catalog.Swap(file, args[2])
	if err != nil {
		return err
	}
	cmd.Printf("Renamed %s to %s\n", args[1], filepath.Base(newPath))
	return nil
}

// confirm asks a yes/no question on the command's input. Anything but y/yes
// is a no.
func confirm(cmd *cobra.Command, question string) bool {
	cmd.Printf("%s [y/N] ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
