package config

const (
	defaultDataDir         = "~/.local/share/barberq"
	defaultLogDir          = "~/.local/share/barberq/logs"
	defaultBind            = "127.0.0.1:8480"
	defaultSessionTTLHours = 12
	defaultLoginRatePerMin = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Server: Server{
			Bind:            defaultBind,
			SessionTTLHours: defaultSessionTTLHours,
			LoginRatePerMin: defaultLoginRatePerMin,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
