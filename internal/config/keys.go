package config

import "os"

// SecretSource represents where a secret value comes from.
type SecretSource string

const (
	SourceEnv    SecretSource = "env"
	SourceConfig SecretSource = "config"
	SourceNone   SecretSource = "none"
)

// SecretStatus describes a configured secret without revealing it.
type SecretStatus struct {
	Name   string       `json:"name"`
	Source SecretSource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"` // e.g., "abc...xyz"
}

// CheckSecrets returns the status of all secrets the configuration can hold.
func CheckSecrets(cfg *Config) []SecretStatus {
	return []SecretStatus{
		checkSecret("Redis Password", cfg.Cache.Redis.Password, "STOCKSENTIMENT_CACHE_REDIS_PASSWORD"),
	}
}

func checkSecret(name, value, envVar string) SecretStatus {
	status := SecretStatus{
		Name:   name,
		IsSet:  value != "",
		Source: SourceNone,
	}
	if value == "" {
		return status
	}
	if os.Getenv(envVar) != "" {
		status.Source = SourceEnv
	} else {
		status.Source = SourceConfig
	}
	status.Masked = maskSecret(value)
	return status
}

// maskSecret shows only the first 3 and last 3 characters.
func maskSecret(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:3] + "..." + s[len(s)-3:]
}
