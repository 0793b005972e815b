package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	EnvGeminiAPIKey          = "VIBEFIT_GEMINI_API_KEY"
	EnvServiceAccount        = "VIBEFIT_GCP_SERVICE_ACCOUNT"
	EnvServiceAccountFile    = "VIBEFIT_GCP_SERVICE_ACCOUNT_FILE"
	EnvRedisPassword         = "VIBEFIT_REDIS_PASS"
	EnvPostgresPassword      = "VIBEFIT_POSTGRES_PASS"
	EnvSentryDSN             = "SENTRY_DSN"
	EnvHoneycombEnabled      = "HONEYCOMB_ENABLED"
	EnvHoneycombAPIKey       = "HONEYCOMB_API_KEY"
	EnvOpenTelemetryService  = "OTEL_SERVICE_NAME"
	serviceAccountJSONPrefix = "{"
)

// Secrets are credentials taken from the environment, never from the TOML file.
type Secrets struct {
	GeminiAPIKey       string
	ServiceAccountJSON []byte
	RedisPassword      string
	PostgresPassword   string
	SentryDSN          string
	HoneycombEnabled   bool
}

// LoadSecrets reads credentials via getenv. A missing Gemini API key is a
// ConfigurationError; missing spreadsheet credentials are not (local-only mode).
func LoadSecrets(getenv func(string) string) (*Secrets, error) {
	secrets := &Secrets{
		GeminiAPIKey:     strings.TrimSpace(getenv(EnvGeminiAPIKey)),
		RedisPassword:    getenv(EnvRedisPassword),
		PostgresPassword: getenv(EnvPostgresPassword),
		SentryDSN:        getenv(EnvSentryDSN),
		HoneycombEnabled: getenv(EnvHoneycombEnabled) == "true",
	}

	if secrets.GeminiAPIKey == "" {
		return nil, &ConfigurationError{
			Setting: EnvGeminiAPIKey,
			Reason:  "gemini api key not set",
		}
	}

	serviceAccount, err := readServiceAccount(getenv)
	if err != nil {
		return nil, err
	}
	secrets.ServiceAccountJSON = serviceAccount

	return secrets, nil
}

func readServiceAccount(getenv func(string) string) ([]byte, error) {
	if inline := strings.TrimSpace(getenv(EnvServiceAccount)); inline != "" {
		if !strings.HasPrefix(inline, serviceAccountJSONPrefix) {
			return nil, &ConfigurationError{
				Setting: EnvServiceAccount,
				Reason:  "expected service account JSON",
			}
		}
		return []byte(inline), nil
	}

	path := strings.TrimSpace(getenv(EnvServiceAccountFile))
	if path == "" {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{
			Setting: EnvServiceAccountFile,
			Reason:  fmt.Sprintf("read service account file: %s", err),
		}
	}
	return content, nil
}
