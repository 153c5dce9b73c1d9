// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Engine - these keys control how the external playback engine process is launched.
const (
	EnginePath = "engine.path"
	EngineArgs = "engine.args"
)

// Backdrop Playback - these keys govern the behavior of the video backdrop surface.
const (
	PlayerFadeDuration  = "player.fade_duration"
	PlayerStartupVolume = "player.startup_volume"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the command-line application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
