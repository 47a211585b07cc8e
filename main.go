package main

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"tuner/cmd"
	"tuner/internal/analysis"
	"tuner/internal/audio"
	"tuner/internal/config"
	"tuner/internal/log"
	"tuner/internal/pitch"
	"tuner/internal/transport"
	"tuner/internal/transport/udp"
	"tuner/internal/tui"
)

// main runs the tuner. The program flow is divided into three phases:
//
// 1. Startup Phase (Cold Path):
//   - Configure runtime settings and logging
//   - Initialize PortAudio
//   - Parse command line arguments
//   - Execute one-off commands if requested
//
// 2. Concurrent Phase (Hot Path):
//   - Start the capture engine and recording if enabled
//   - Start the analysis publisher feeding every sink
//   - Run the terminal display
//
// 3. Shutdown Phase (Cold Path):
//   - Stop the publisher and recording
//   - Close sinks and release capture resources
func main() {
	// ==================== STARTUP PHASE (Cold Path) ====================

	// One thread for the capture callback, one for the display and sinks.
	runtime.GOMAXPROCS(2)

	cfg, err := cmd.ParseArgs()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if cfg.Verbose {
		log.SetLevel(log.LevelDebug)
	} else if level, ok := log.ParseLevel(cfg.LogLevel); ok {
		log.SetLevel(level)
	}

	if err := audio.Initialize(); err != nil {
		log.Fatalf("%v", err)
	}
	defer audio.Terminate()

	if cfg.Command != "" {
		if err := executeCommand(cfg.Command); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}
	if !cfg.TUIMode {
		return
	}

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	spectrum, err := analysis.NewSpectrum(cfg.Audio.FramesPerBuffer, cfg.Audio.SampleRate)
	if err != nil {
		log.Fatalf("%v", err)
	}

	engine, err := audio.NewEngine(cfg, spectrum)
	if err != nil {
		log.Fatalf("%v", err)
	}

	analyzer, err := pitch.NewAnalyzer(cfg.Audio.FramesPerBuffer, cfg.Audio.SampleRate, pitch.Config{
		ReferenceFrequency:   cfg.Tuner.ReferenceFrequency,
		MinRMS:               cfg.Tuner.MinRMS,
		CorrelationThreshold: cfg.Tuner.CorrelationThreshold,
		MinOffset:            cfg.Tuner.MinOffset,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	// The first call to StartInputStream triggers PortAudio to begin
	// calling the capture callback, marking the start of the hot path.
	if err := engine.StartInputStream(); err != nil {
		log.Fatalf("%v", err)
	}

	if cfg.Recording.Enabled {
		if err := engine.StartRecording(cfg.Recording.OutputFile); err != nil {
			log.Fatalf("%v", err)
		}
	}

	program := tea.NewProgram(tui.NewModel(), tea.WithAltScreen())

	sinks, err := buildSinks(cfg, program)
	if err != nil {
		log.Fatalf("%v", err)
	}

	publisher, err := transport.NewPublisher(cfg.Tuner.UpdateInterval, engine, analyzer, spectrum, sinks...)
	if err != nil {
		log.Fatalf("%v", err)
	}
	publisher.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		program.Quit()
	}()

	// Block until the user quits the display or a signal arrives.
	if _, err := program.Run(); err != nil {
		log.Errorf("display error: %v", err)
	}

	// ==================== SHUTDOWN PHASE (Cold Path) ====================

	if err := publisher.Stop(); err != nil {
		log.Errorf("error stopping publisher: %v", err)
	}

	for _, sink := range sinks {
		if err := sink.Close(); err != nil {
			log.Errorf("error closing sink: %v", err)
		}
	}

	if cfg.Recording.Enabled {
		if err := engine.StopRecording(); err != nil {
			log.Errorf("error stopping recording: %v", err)
		} else {
			log.Infof("recording saved to %s", cfg.Recording.OutputFile)
		}
	}

	if err := engine.Close(); err != nil {
		log.Errorf("error closing audio engine: %v", err)
	}
}

// buildSinks assembles the sinks the publisher fans results out to. The
// display sink is always present; network and logging sinks follow the
// configuration.
func buildSinks(cfg *config.Config, program *tea.Program) ([]transport.Transport, error) {
	sinks := []transport.Transport{tui.NewSink(program)}

	if cfg.Transport.WebSocketEnabled {
		sinks = append(sinks, transport.NewWebSocketTransport(cfg.Transport.WebSocketAddr))
	}
	if cfg.Transport.UDPEnabled {
		udpSink, err := udp.NewTransport(cfg.Transport.UDPTargetAddress)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, udpSink)
	}
	if cfg.Verbose {
		sinks = append(sinks, transport.NewLoggingTransport())
	}

	return sinks, nil
}

// executeCommand handles one-off commands that run without the capture
// engine.
func executeCommand(command string) error {
	switch command {
	case "list":
		return audio.ListDevices()
	}
	return nil
}
