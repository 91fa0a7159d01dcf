package domain

// PluginExtension is the file extension of loader plugins
const PluginExtension = ".dll"

// LoaderDir is the loader's own subdirectory; plugins inside it are never listed
const LoaderDir = "modengine2"

// Plugin is an auxiliary DLL the loader injects, in load order
type Plugin struct {
	Path    string // Relative to the game directory, forward slashes
	Enabled bool
}
