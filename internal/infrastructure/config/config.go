package config

import "github.com/kelseyhightower/envconfig"

// Database holds Turso database configuration. The URL may be a local file
// path, ":memory:", or a remote libsql URL with an auth token.
type Database struct {
	URL       string `envconfig:"CODEPULSE_DATABASE_URL" required:"true"`
	AuthToken string `envconfig:"CODEPULSE_AUTH_TOKEN"`
}

// Ingest holds configuration for the ingest daemon.
type Ingest struct {
	Addr string `envconfig:"CODEPULSE_INGEST_ADDR" default:"127.0.0.1:7532"`
}

// OTel holds configuration for the OTLP metrics exporter.
type OTel struct {
	Enabled  bool   `envconfig:"CODEPULSE_OTEL_ENABLED" default:"false"`
	Endpoint string `envconfig:"CODEPULSE_OTEL_ENDPOINT" default:"localhost:4317"`
	Insecure bool   `envconfig:"CODEPULSE_OTEL_INSECURE" default:"true"`
}

// Serve bundles everything the serve command needs.
type Serve struct {
	Database Database
	Ingest   Ingest
	OTel     OTel
}

// LoadDatabase loads database configuration from environment variables.
func LoadDatabase() (*Database, error) {
	var cfg Database
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadServe loads serve configuration from environment variables.
func LoadServe() (*Serve, error) {
	var cfg Serve
	if err := envconfig.Process("", &cfg.Database); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Ingest); err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.OTel); err != nil {
		return nil, err
	}
	return &cfg, nil
}
