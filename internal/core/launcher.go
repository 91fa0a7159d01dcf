package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"meo/internal/domain"
)

// LaunchContext provides environment information for the launch script
type LaunchContext struct {
	Game       string
	GameDir    string
	ConfigPath string
}

// LaunchResult contains the outcome of running the launch script
type LaunchResult struct {
	Script   string
	ExitCode int
}

// Launcher runs the loader's launch script for a game
type Launcher struct {
	timeout time.Duration // Zero means no limit
	Stdout  io.Writer
	Stderr  io.Writer
	goos    string
}

// NewLauncher creates a launcher. A zero timeout lets the game run until it exits.
func NewLauncher(timeout time.Duration) *Launcher {
	return &Launcher{timeout: timeout, Stdout: io.Discard, Stderr: io.Discard, goos: runtime.GOOS}
}

// ScriptPath finds launchmod_<id>.sh or launchmod_<id>.bat next to the game's
// loader config. The native script for the platform is preferred.
func (l *Launcher) ScriptPath(game *domain.Game) (string, error) {
	base := filepath.Join(game.Dir(), "launchmod_"+game.ConfigID())
	exts := []string{".sh", ".bat"}
	if l.goos == "windows" {
		exts = []string{".bat", ".sh"}
	}
	for _, ext := range exts {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: launch script %s.{sh,bat}", domain.ErrNotFound, base)
}

// Run starts the launch script and waits for it to exit
func (l *Launcher) Run(ctx context.Context, game *domain.Game) (*LaunchResult, error) {
	scriptPath, err := l.ScriptPath(game)
	if err != nil {
		return &LaunchResult{}, err
	}
	result := &LaunchResult{Script: scriptPath}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	cmd, err := l.command(ctx, scriptPath)
	if err != nil {
		return result, err
	}

	lc := LaunchContext{Game: game.Name, GameDir: game.Dir(), ConfigPath: game.ConfigPath}
	cmd.Dir = lc.GameDir
	cmd.WaitDelay = 100 * time.Millisecond // Allow graceful shutdown after context cancel
	cmd.Env = append(os.Environ(),
		"MEO_GAME="+lc.Game,
		"MEO_GAME_DIR="+lc.GameDir,
		"MEO_CONFIG_PATH="+lc.ConfigPath,
	)
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return result, fmt.Errorf("launch timed out after %v: %s", l.timeout, scriptPath)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, fmt.Errorf("launch script failed with exit code %d: %s", result.ExitCode, scriptPath)
		}
		return result, fmt.Errorf("running launch script: %w", err)
	}
	return result, nil
}

func (l *Launcher) command(ctx context.Context, scriptPath string) (*exec.Cmd, error) {
	if filepath.Ext(scriptPath) == ".bat" {
		if l.goos != "windows" {
			return nil, fmt.Errorf("batch launch script needs Windows: %s", scriptPath)
		}
		return exec.CommandContext(ctx, "cmd", "/C", scriptPath), nil
	}

	info, err := os.Stat(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("checking launch script: %w", err)
	}
	if info.Mode()&0111 == 0 {
		return nil, fmt.Errorf("launch script not executable: %s", scriptPath)
	}
	return exec.CommandContext(ctx, scriptPath), nil
}
