package tui

import (
	"errors"
	"fmt"

	"meo/internal/core"
	"meo/internal/domain"
	"meo/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ViewType represents different screens in the TUI
type ViewType int

const (
	ViewMods ViewType = iota
	ViewPlugins
	ViewGames
)

// NavigateMsg is sent to change views
type NavigateMsg struct {
	View ViewType
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

// App is the main TUI application model
type App struct {
	service     *core.Service
	session     *core.Session
	keys        *KeyMap
	currentView ViewType
	showHelp    bool
	width       int
	height      int
	err         error
	warning     string

	// Sub-models for each view
	mods    views.Mods
	plugins views.Plugins
	games   views.Games
}

// NewApp creates a new TUI application. A nil service renders empty views.
func NewApp(service *core.Service, gameName string) App {
	mode := ""
	if service != nil {
		mode = service.Config().Keybindings
	}
	keys := NewKeyMap(mode)

	a := App{
		service:     service,
		keys:        keys,
		currentView: ViewMods,
		width:       80,
		height:      24,
		mods:        views.NewMods(keys, "No game", nil, nil),
		plugins:     views.NewPlugins(keys, nil),
		games:       views.NewGames(keys, nil, ""),
	}
	if service == nil {
		return a
	}

	a.refreshGames()
	session, err := service.Open(gameName)
	if err != nil {
		a.err = err
		a.currentView = ViewGames
		return a
	}
	a.session = session
	a.mods = views.NewMods(keys, session.Game.Name, nil, nil)
	a.reload()
	return a
}

// CurrentView returns the current view type
func (a App) CurrentView() ViewType {
	return a.currentView
}

// Mods returns the mods view
func (a App) Mods() views.Mods {
	return a.mods
}

// Err returns the last error shown in the status line
func (a App) Err() error {
	return a.err
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case NavigateMsg:
		a.currentView = msg.View
		return a, nil

	case ErrorMsg:
		a.err = msg.Err
		return a, nil

	case views.ToggleModMsg:
		return a.apply(func(s *core.Session) error {
			return s.Registry.SetEnabled(msg.Name, msg.Enabled)
		})

	case views.MoveModMsg:
		next, cmd := a.apply(func(s *core.Session) error {
			return s.Registry.Move(msg.Name, msg.Delta)
		})
		app := next.(App)
		app.mods = app.mods.Select(msg.Name)
		return app, cmd

	case views.AddModMsg:
		next, cmd := a.apply(func(s *core.Session) error {
			_, err := s.Registry.Add(msg.Name, "")
			return err
		})
		app := next.(App)
		app.mods = app.mods.Select(msg.Name)
		return app, cmd

	case views.RenameModMsg:
		next, cmd := a.apply(func(s *core.Session) error {
			return s.Registry.Rename(msg.OldName, msg.NewName)
		})
		app := next.(App)
		app.mods = app.mods.Select(msg.NewName)
		return app, cmd

	case views.RemoveModMsg:
		return a.apply(func(s *core.Session) error {
			return s.Registry.Remove(msg.Name)
		})

	case views.TogglePluginMsg:
		return a.apply(func(s *core.Session) error {
			plugins, err := s.Plugins()
			if err != nil {
				return err
			}
			return plugins.SetEnabled(msg.Path, msg.Enabled)
		})

	case views.MovePluginMsg:
		next, cmd := a.apply(func(s *core.Session) error {
			plugins, err := s.Plugins()
			if err != nil {
				return err
			}
			return plugins.Move(msg.Path, msg.Delta)
		})
		app := next.(App)
		app.plugins = app.plugins.Select(msg.Path)
		return app, cmd

	case views.GameSelectedMsg:
		return a.switchGame(msg.Game)
	}

	// Delegate to current view's model
	return a.updateCurrentView(msg)
}

func (a App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text prompts get every key except ctrl+c
	if a.currentView == ViewMods && a.mods.Prompting() && msg.Type != tea.KeyCtrlC {
		return a.updateCurrentView(msg)
	}

	// Global keybindings
	switch {
	case a.keys.IsQuit(msg):
		return a, tea.Quit

	case a.keys.IsHelp(msg):
		a.showHelp = !a.showHelp
		return a, nil
	}

	switch msg.String() {
	case "1":
		a.currentView = ViewMods
		return a, nil
	case "2":
		a.currentView = ViewPlugins
		return a, nil
	case "3":
		a.currentView = ViewGames
		return a, nil
	}

	// Delegate to current view
	return a.updateCurrentView(msg)
}

func (a App) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var next tea.Model
	var cmd tea.Cmd

	switch a.currentView {
	case ViewMods:
		next, cmd = a.mods.Update(msg)
		a.mods = next.(views.Mods)
	case ViewPlugins:
		next, cmd = a.plugins.Update(msg)
		a.plugins = next.(views.Plugins)
	case ViewGames:
		next, cmd = a.games.Update(msg)
		a.games = next.(views.Games)
	}

	return a, cmd
}

// apply runs one mutation against the open game and reloads the views
func (a App) apply(fn func(*core.Session) error) (tea.Model, tea.Cmd) {
	if a.session == nil {
		a.err = errors.New("no game selected")
		return a, nil
	}
	a.err = fn(a.session)
	a.reload()
	return a, nil
}

func (a App) switchGame(game *domain.Game) (tea.Model, tea.Cmd) {
	if a.service == nil || game == nil {
		return a, nil
	}
	if err := a.service.Games().Switch(game.Name); err != nil {
		a.err = err
		return a, nil
	}
	session, err := a.service.Open(game.Name)
	if err != nil {
		a.err = err
		return a, nil
	}
	a.session = session
	a.err = nil
	a.mods = views.NewMods(a.keys, game.Name, nil, nil)
	a.plugins = views.NewPlugins(a.keys, nil)
	a.reload()
	a.refreshGames()
	a.currentView = ViewMods
	return a, nil
}

// reload refreshes every view from the session. Conflict detection runs
// again because any mutation can change the report.
func (a *App) reload() {
	if a.session == nil {
		return
	}
	a.warning = ""

	report, err := a.session.Conflicts()
	if errors.Is(err, domain.ErrRootNotFound) {
		a.warning = err.Error()
	} else if err != nil && a.err == nil {
		a.err = err
	}
	a.mods = a.mods.WithData(a.session.Registry.List(), report)

	plugins, err := a.session.Plugins()
	if err != nil {
		if a.err == nil {
			a.err = err
		}
		return
	}
	a.plugins = a.plugins.WithData(plugins.List())
}

func (a *App) refreshGames() {
	a.games = views.NewGames(a.keys, a.service.Games().List(), a.service.Config().CurrentGame)
}

// View implements tea.Model
func (a App) View() string {
	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	activeTabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	// Header
	header := titleStyle.Render("meo - Mod Engine Organizer")

	// Tab bar
	tabs := []string{"[1]Mods", "[2]Plugins", "[3]Games"}
	tabBar := ""
	for i, tab := range tabs {
		if ViewType(i) == a.currentView {
			tabBar += activeTabStyle.Render(tab) + "  "
		} else {
			tabBar += tabStyle.Render(tab) + "  "
		}
	}

	// Content
	var content string
	switch {
	case a.showHelp:
		content = a.keys.FullHelp()
	case a.currentView == ViewPlugins:
		content = a.plugins.View()
	case a.currentView == ViewGames:
		content = a.games.View()
	default:
		content = a.mods.View()
	}

	// Status line
	status := ""
	if a.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		status = "\n" + errStyle.Render(fmt.Sprintf("Error: %v", a.err))
	} else if a.warning != "" {
		warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
		status = "\n" + warnStyle.Render("Warning: "+a.warning)
	}

	// Footer
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)
	footer := footerStyle.Render(a.keys.NavigationHelp() + "  q: quit  ?: help")

	return fmt.Sprintf("%s\n%s\n\n%s\n%s\n%s", header, tabBar, content, status, footer)
}

// Run starts the TUI application
func Run(service *core.Service, gameName string) error {
	app := NewApp(service, gameName)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
