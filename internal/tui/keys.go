package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines keybindings for the TUI
type KeyMap struct {
	mode string
}

// NewKeyMap creates a new keymap for the given mode
func NewKeyMap(mode string) *KeyMap {
	if mode == "" {
		mode = "vim"
	}
	return &KeyMap{mode: mode}
}

// Mode returns the current keybinding mode
func (k *KeyMap) Mode() string {
	return k.mode
}

// IsUp returns true if the key is an "up" navigation key
func (k *KeyMap) IsUp(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyUp {
		return true
	}
	return k.mode == "vim" && msg.String() == "k"
}

// IsDown returns true if the key is a "down" navigation key
func (k *KeyMap) IsDown(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyDown {
		return true
	}
	return k.mode == "vim" && msg.String() == "j"
}

// IsConfirm returns true if the key is a confirm/select key
func (k *KeyMap) IsConfirm(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnter
}

// IsToggle returns true if the key flips the selected entry
func (k *KeyMap) IsToggle(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeySpace || msg.String() == " "
}

// IsCancel returns true if the key is a cancel/back key
func (k *KeyMap) IsCancel(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEsc
}

// IsQuit returns true if the key is a quit key
func (k *KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return msg.String() == "q" || msg.Type == tea.KeyCtrlC
}

// IsHelp returns true if the key should show help
func (k *KeyMap) IsHelp(msg tea.KeyMsg) bool {
	return msg.String() == "?"
}

// IsDelete returns true if the key is a delete key
func (k *KeyMap) IsDelete(msg tea.KeyMsg) bool {
	return msg.String() == "d" || msg.Type == tea.KeyDelete
}

// IsAdd returns true if the key starts adding an entry
func (k *KeyMap) IsAdd(msg tea.KeyMsg) bool {
	return msg.String() == "a"
}

// IsRename returns true if the key starts renaming the selected entry
func (k *KeyMap) IsRename(msg tea.KeyMsg) bool {
	return msg.String() == "r"
}

// IsHome returns true if the key should go to first item
func (k *KeyMap) IsHome(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyHome {
		return true
	}
	return k.mode == "vim" && msg.String() == "g"
}

// IsEnd returns true if the key should go to last item
func (k *KeyMap) IsEnd(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEnd {
		return true
	}
	return k.mode == "vim" && msg.String() == "G"
}

// IsMoveUp returns true if the key should move item up in order
func (k *KeyMap) IsMoveUp(msg tea.KeyMsg) bool {
	return msg.String() == "K" || msg.Type == tea.KeyShiftUp
}

// IsMoveDown returns true if the key should move item down in order
func (k *KeyMap) IsMoveDown(msg tea.KeyMsg) bool {
	return msg.String() == "J" || msg.Type == tea.KeyShiftDown
}

// NavigationHelp returns help text for navigation keys
func (k *KeyMap) NavigationHelp() string {
	if k.mode == "vim" {
		return "j/k: navigate  K/J: reorder"
	}
	return "↑/↓: navigate  shift+↑/↓: reorder"
}

// FullHelp returns complete help text
func (k *KeyMap) FullHelp() string {
	if k.mode == "vim" {
		return `Navigation:
  j/k     Move down/up
  g/G     Go to first/last item
  1/2/3   Mods, plugins, games

Actions:
  space   Enable/disable
  enter   Switch game (games tab)
  a       Add mod
  r       Rename mod
  d       Delete mod
  ?       Help
  q       Quit

Reorder:
  J/K     Move item down/up`
	}

	return `Navigation:
  ↑/↓     Move up/down
  Home    Go to first item
  End     Go to last item
  1/2/3   Mods, plugins, games

Actions:
  Space   Enable/disable
  Enter   Switch game (games tab)
  a       Add mod
  r       Rename mod
  Delete  Delete mod
  ?       Help
  q       Quit

Reorder:
  Shift+↓ Move item down
  Shift+↑ Move item up`
}
