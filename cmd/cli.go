package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tuner/internal/config"
	"tuner/pkg/build"
)

// configPath resolves the config file path from the TUNER_CONFIG environment
// variable and the --config flag. The flag is scanned ahead of cobra because
// the file must be loaded before flag defaults are bound.
func configPath(args []string) string {
	path := os.Getenv("TUNER_CONFIG")
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			path = args[i+1]
		} else if strings.HasPrefix(arg, "--config=") {
			path = strings.TrimPrefix(arg, "--config=")
		}
	}
	return path
}

// ParseArgs loads the configuration (defaults, optional config.yaml,
// environment overrides) and applies command-line flags on top.
func ParseArgs() (*config.Config, error) {
	buildInfo := build.Current()

	options, err := config.LoadConfig(configPath(os.Args[1:]))
	if err != nil {
		return nil, err
	}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Instrument tuner for the terminal",
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			options.TUIMode = true
			return nil
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "list"
			options.TUIMode = false
		},
	}
	rootCmd.AddCommand(listCmd)

	// Audio device configuration.
	rootCmd.PersistentFlags().IntVarP(&options.Audio.InputDevice, "device", "d", options.Audio.InputDevice,
		"Input device ID. Use the 'list' command to see available devices.")
	rootCmd.PersistentFlags().IntVarP(&options.Audio.Channels, "channels", "c", options.Audio.Channels,
		"Number of input channels to capture (1=mono, 2=stereo)")
	rootCmd.PersistentFlags().Float64VarP(&options.Audio.SampleRate, "sample-rate", "s", options.Audio.SampleRate,
		"Sample rate, measured in Hertz (Hz)")
	rootCmd.PersistentFlags().IntVarP(&options.Audio.FramesPerBuffer, "frames-per-buffer", "b", options.Audio.FramesPerBuffer,
		"Analysis window length in frames (affects latency and pitch resolution)")
	rootCmd.PersistentFlags().BoolVarP(&options.Audio.LowLatency, "low-latency", "l", options.Audio.LowLatency,
		"Use low latency mode for real-time capture")

	// Tuning configuration.
	rootCmd.PersistentFlags().Float64VarP(&options.Tuner.ReferenceFrequency, "a4", "a", options.Tuner.ReferenceFrequency,
		"Reference frequency for A4 in Hz")

	// Recording configuration.
	rootCmd.PersistentFlags().BoolVarP(&options.Recording.Enabled, "record", "r", options.Recording.Enabled,
		"Record the raw input to a WAV file")
	rootCmd.PersistentFlags().StringVarP(&options.Recording.OutputFile, "output", "o", options.Recording.OutputFile,
		"Recording file name. Default is recording-DD-MM-YYYY-HHMMSS.wav")

	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", options.Verbose,
		"Show verbose output")

	// Registered so cobra accepts it; the value was consumed by configPath.
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	if options.Recording.OutputFile == "" {
		options.Recording.OutputFile = "recording-" +
			time.Now().UTC().Format("02-01-2006-150405") + ".wav"
	}

	// Flags may have moved values outside the validated range.
	if err := options.Validate(); err != nil {
		return nil, err
	}

	return options, nil
}
