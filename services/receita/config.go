package receita

import (
	"log/slog"
	"time"
	"transparencia-backend/lib/configutil"
	"transparencia-backend/lib/restyutil"
	"transparencia-backend/lib/scrapers/transparencia"
)

type PortalConfig struct {
	BaseUrl        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	UserAgent      string `json:"user_agent"`
	SkipTLSVerify  bool   `json:"skip_tls_verify"`
}

type Config struct {
	ServiceName string       `json:"service_name"`
	LogLevel    string       `json:"log_level"`
	Port        int          `json:"port"`
	Portal      PortalConfig `json:"portal"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "transparencia-receita-fortaleza",
		LogLevel:    "INFO",
		Port:        8000,
		Portal: PortalConfig{
			BaseUrl:        transparencia.DefaultBaseUrl,
			TimeoutSeconds: int(transparencia.DefaultTimeout / time.Second),
			UserAgent:      transparencia.DefaultUserAgent,
		},
	}
}

// ApplyEnv overrides the config with the process environment:
// TIMEOUT (seconds), LOG_LEVEL, BOT_NAME, PORT and PORTAL_BASE_URL.
func (c *Config) ApplyEnv() {
	configutil.OverrideInt(&c.Portal.TimeoutSeconds, "TIMEOUT")
	configutil.OverrideString(&c.LogLevel, "LOG_LEVEL")
	configutil.OverrideString(&c.ServiceName, "BOT_NAME")
	configutil.OverrideInt(&c.Port, "PORT")
	configutil.OverrideString(&c.Portal.BaseUrl, "PORTAL_BASE_URL")
}

// Load reads config.json5 (and its .local override) on top of
// DefaultConfig, then applies the environment.
func Load(path string) (Config, error) {
	err := configutil.LoadDotEnv()
	if err != nil {
		return Config{}, err
	}
	cfg, err := configutil.ReadConfigOr(path, DefaultConfig())
	if err != nil {
		return Config{}, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func (c Config) ClientOptions(logger *slog.Logger, dump restyutil.InstrumentOutput) transparencia.ClientOptions {
	return transparencia.ClientOptions{
		BaseUrl:       c.Portal.BaseUrl,
		Timeout:       time.Duration(c.Portal.TimeoutSeconds) * time.Second,
		UserAgent:     c.Portal.UserAgent,
		SkipTLSVerify: c.Portal.SkipTLSVerify,
		Logger:        logger,
		DumpOutput:    dump,
	}
}
