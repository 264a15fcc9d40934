package config

import "flag"

var (
	flagConfig         = flag.String("config", "", "Path to config file")
	flagDebug          = flag.Bool("debug", false, "Enable debug logging")
	flagFrames         = flag.Int("frames", 0, "Number of frames to simulate")
	flagWorkers        = flag.Int("workers", 0, "Collider synthesis workers")
	flagSkipDegenerate = flag.Bool("skip-degenerate", false, "Skip degenerate hull meshes instead of aborting")
	flagFire           = flag.String("fire", "", "Fire intent target: player or all")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagFrames > 0 {
		cfg.Simulation.Frames = *flagFrames
	}
	if *flagWorkers > 0 {
		cfg.Synthesis.Workers = *flagWorkers
	}
	if *flagSkipDegenerate {
		cfg.Synthesis.Degenerate = "skip"
	}
	if *flagFire != "" {
		cfg.Simulation.FireTarget = *flagFire
	}
}
