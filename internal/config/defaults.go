package config

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = ".stockconsole.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:              8090,
		APIBaseURL:        "http://localhost:8080/api",
		LoginURL:          "/login.html",
		Storage:           StorageMemory,
		DataDir:           ".stockconsole",
		LowStockThreshold: 5,
		LogLevel:          "info",
		RequestTimeout:    "15s",
	}
}
