// Package cmd implements the command-line interface for stagecast.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stagecast-av/stagecast/engine"
	"github.com/stagecast-av/stagecast/icon"
	"github.com/stagecast-av/stagecast/key"
	"github.com/stagecast-av/stagecast/player"
	"github.com/stagecast-av/stagecast/util"
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("options", "o", "", "Comma-separated property=value pairs applied before loading")
	playCmd.Flags().BoolP("stretch", "s", false, "Stretch the video to fill the window, ignoring aspect ratio")
	playCmd.Flags().BoolP("repeat", "r", false, "Loop the video until interrupted")
	playCmd.Flags().BoolP("mute", "m", false, "Mute audio output")
	playCmd.Flags().Float64("hue", 0, "Hue adjustment on a 0.0 to 1.0 scale")
	playCmd.Flags().Int("volume", 0, "Playback volume from 0 to 100 (defaults to the configured startup volume)")

	playCmd.Flags().IntP("x", "x", 0, "Window X position")
	playCmd.Flags().IntP("y", "y", 0, "Window Y position")
	playCmd.Flags().IntP("width", "W", 1280, "Window width")
	playCmd.Flags().IntP("height", "H", 720, "Window height")
}

// playCmd plays a single video on the backdrop surface until it finishes or
// the user interrupts.
var playCmd = &cobra.Command{
	Use:   "play <file or url>",
	Short: "Play a video on the backdrop surface",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		var (
			options = lo.Must(cmd.Flags().GetString("options"))
			stretch = lo.Must(cmd.Flags().GetBool("stretch"))
			repeat  = lo.Must(cmd.Flags().GetBool("repeat"))
			mute    = lo.Must(cmd.Flags().GetBool("mute"))
			hue     = lo.Must(cmd.Flags().GetFloat64("hue"))

			x      = lo.Must(cmd.Flags().GetInt("x"))
			y      = lo.Must(cmd.Flags().GetInt("y"))
			width  = lo.Must(cmd.Flags().GetInt("width"))
			height = lo.Must(cmd.Flags().GetInt("height"))
		)

		volume := viper.GetInt(key.PlayerStartupVolume)
		if cmd.Flags().Changed("volume") {
			volume = lo.Must(cmd.Flags().GetInt("volume"))
		}

		eng := engine.NewMPV()
		handleErr(eng.Start())
		defer util.Ignore(eng.Close)

		host := player.NewFixedHost(x, y, width, height)
		backdrop := player.New(eng, host)
		defer backdrop.Close()

		if !backdrop.IsInit() {
			handleErr(errors.New("the playback engine did not come up, check the engine.path config value"))
		}

		backdrop.SetVolume(util.Clamp(volume, 0, 100))
		backdrop.SetMute(mute)
		backdrop.SetRepeat(repeat)
		if cmd.Flags().Changed("hue") {
			backdrop.SetHue(util.Clamp(hue, 0, 1))
		}

		backdrop.RefreshPosition()
		backdrop.PlayFile(args[0], options, stretch)
		backdrop.Show()

		finished := make(chan struct{})
		if !repeat {
			backdrop.SetOnFinished(func() { close(finished) })
		}

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

		eraser := util.PrintErasable(fmt.Sprintf("%s Playing %s", icon.Get(icon.Progress), args[0]))
		defer eraser()

		select {
		case <-finished:
		case <-interrupt:
		case <-eng.Wait():
			eraser()
			fmt.Printf("%s The playback engine exited unexpectedly\n", icon.Get(icon.Warning))
		}

		backdrop.Stop()
	},
}
