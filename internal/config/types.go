package config

// StorageType selects where per-client credentials are kept.
type StorageType string

const (
	StorageMemory StorageType = "memory"
	StorageSQLite StorageType = "sqlite"
)

// Config is the top-level stock console configuration, corresponding to
// .stockconsole.yml.
type Config struct {
	Port              int         `yaml:"port" koanf:"port"`
	APIBaseURL        string      `yaml:"api_base_url" koanf:"api_base_url"`
	LoginURL          string      `yaml:"login_url" koanf:"login_url"`
	Storage           StorageType `yaml:"storage" koanf:"storage"`
	DataDir           string      `yaml:"data_dir" koanf:"data_dir"`
	LowStockThreshold int         `yaml:"low_stock_threshold" koanf:"low_stock_threshold"`
	LogLevel          string      `yaml:"log_level" koanf:"log_level"`
	AllowedOrigins    []string    `yaml:"allowed_origins" koanf:"allowed_origins"`
	RequestTimeout    string      `yaml:"request_timeout" koanf:"request_timeout"`
}
