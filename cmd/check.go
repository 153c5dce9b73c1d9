// Package cmd implements the command-line interface for stagecast.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
	"github.com/stagecast-av/stagecast/constant"
	"github.com/stagecast-av/stagecast/icon"
	"github.com/stagecast-av/stagecast/key"
	"github.com/stagecast-av/stagecast/style"
	"github.com/stagecast-av/stagecast/util"
)

const (
	minBoxWidth = 40
	maxBoxWidth = 76
)

// errorBoxWidth sizes the dependency error box to the terminal, keeping it
// readable when the terminal is very narrow or its size is unknown.
func errorBoxWidth() int {
	w, _, err := util.TerminalSize()
	if err != nil || w <= 0 {
		return maxBoxWidth
	}
	return util.Clamp(w-4, minBoxWidth, maxBoxWidth)
}

// CheckDependencies verifies that the configured playback engine binary is
// reachable, either through PATH or as an absolute path.
func CheckDependencies() {
	binary := viper.GetString(key.EnginePath)

	_, err := exec.LookPath(binary)
	if err != nil {
		printMissingDependencyError(binary)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	if dep == "mpv" {
		switch runtime.GOOS {
		case constant.Darwin:
			installCmd = "brew install mpv"
		case constant.Linux:
			installCmd = "sudo apt install mpv" // Generic, maybe check distro
		case constant.Windows:
			installCmd = "scoop install mpv"
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Width(errorBoxWidth()).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Playback Engine", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The playback engine '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
