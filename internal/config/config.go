package config

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	Brief   BriefConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

type BriefConfig struct {
	// MergePolicy selects how new evidence replaces stored brief fields:
	// "monotonic" or "fill-empty".
	MergePolicy string
	// DraftIdleDays is how long a draft can go without updates before the
	// janitor archives it. Zero disables archiving.
	DraftIdleDays int
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4600,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Brief: BriefConfig{
			MergePolicy:   "monotonic",
			DraftIdleDays: 14,
		},
	}
}

// Load reads configuration from the platform-native backend and environment
// variables.
//
// On macOS the backend is UserDefaults (domain: com.briefd.app).
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/briefd/config.json.
//
// Environment variables (BRIEFD_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}
