package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const appDirName = "controle-emprestimos"

type Config struct {
	Port string
	Env  string

	StoreDriver string
	StorePath   string
	ExportDir   string

	AddressLookupURL     string
	AddressLookupTimeout time.Duration

	SMSMode     string
	SMSRelayURL string
	TwilioSID   string
	TwilioToken string
	TwilioPhone string
	RelayPort   string

	NotifyInterval   time.Duration
	RequestBodyLimit int64
}

func Load() Config {
	driver := strings.ToLower(getEnv("STORE_DRIVER", "json"))
	return Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("APP_ENV", "local"),

		StoreDriver: driver,
		StorePath:   getEnv("STORE_PATH", defaultStorePath(driver)),
		ExportDir:   getEnv("EXPORT_DIR", defaultExportDir()),

		AddressLookupURL:     getEnv("ADDRESS_LOOKUP_URL", "https://viacep.com.br/ws"),
		AddressLookupTimeout: getEnvDuration("ADDRESS_LOOKUP_TIMEOUT", 5*time.Second),

		SMSMode:     strings.ToLower(getEnv("SMS_MODE", "none")),
		SMSRelayURL: getEnv("SMS_RELAY_URL", "http://localhost:3000/send-sms"),
		TwilioSID:   getEnv("TWILIO_SID", ""),
		TwilioToken: getEnv("TWILIO_TOKEN", ""),
		TwilioPhone: getEnv("TWILIO_PHONE", ""),
		RelayPort:   getEnv("RELAY_PORT", "3000"),

		NotifyInterval:   getEnvDuration("NOTIFY_INTERVAL", 2*time.Second),
		RequestBodyLimit: getEnvInt64("REQUEST_BODY_LIMIT", 1<<20),
	}
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) RelayAddr() string {
	return fmt.Sprintf(":%s", c.RelayPort)
}

func (c Config) ExportPath() string {
	return filepath.Join(c.ExportDir, "emprestimos.pdf")
}

func (c Config) TwilioConfigured() bool {
	return c.TwilioSID != "" && c.TwilioToken != "" && c.TwilioPhone != ""
}

func defaultStorePath(driver string) string {
	name := "loans.json"
	if driver == "bolt" {
		name = "loans.db"
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, appDirName, name)
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Documents")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		var out int64
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return fallback
}
