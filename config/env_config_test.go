package config

import "testing"

func clearLibraryEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PGPOOL_PORT", "REDIS_PORT", "RABBITMQ_HOST", "RABBITMQ_PORT",
		"RABBITMQ_USER", "RABBITMQ_PASSWORD", "MINIO_ENDPOINT", "MINIO_USE_SSL",
		"LIBRARY_BUCKET", "LIBRARY_PUBLIC_BASE_URL", "LIBRARY_RECENT_LIMIT",
		"GRAFANA_OTLP_ENDPOINT", "SERVICE_NAME", "DEPLOY_ENV", "GROUP_NAME", "HTTP_PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadEnvConfig_Defaults(t *testing.T) {
	clearLibraryEnv(t)

	cfg := LoadEnvConfig()

	if cfg.Postgres.Port != "5432" {
		t.Errorf("Postgres.Port = %q, want 5432", cfg.Postgres.Port)
	}
	if cfg.Redis.Port != "6379" {
		t.Errorf("Redis.Port = %q, want 6379", cfg.Redis.Port)
	}
	if cfg.RabbitMQ.Host != "localhost" || cfg.RabbitMQ.Port != "5672" {
		t.Errorf("RabbitMQ = %s:%s, want localhost:5672", cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	}
	if cfg.RabbitMQ.Username != "guest" || cfg.RabbitMQ.Password != "guest" {
		t.Errorf("RabbitMQ credentials = %s/%s, want guest/guest", cfg.RabbitMQ.Username, cfg.RabbitMQ.Password)
	}
	if cfg.Library.Bucket != "library-files" {
		t.Errorf("Library.Bucket = %q, want library-files", cfg.Library.Bucket)
	}
	if cfg.Library.RecentLimit != 6 {
		t.Errorf("Library.RecentLimit = %d, want 6", cfg.Library.RecentLimit)
	}
	if cfg.Grafana.ServiceName != "edushelf-catalog-service" {
		t.Errorf("Grafana.ServiceName = %q, want edushelf-catalog-service", cfg.Grafana.ServiceName)
	}
	if cfg.Environment.Mode != "development" {
		t.Errorf("Environment.Mode = %q, want development", cfg.Environment.Mode)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
}

func TestLoadEnvConfig_Overrides(t *testing.T) {
	clearLibraryEnv(t)
	t.Setenv("LIBRARY_BUCKET", "school-uploads")
	t.Setenv("LIBRARY_RECENT_LIMIT", "12")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DEPLOY_ENV", "production")

	cfg := LoadEnvConfig()

	if cfg.Library.Bucket != "school-uploads" {
		t.Errorf("Library.Bucket = %q, want school-uploads", cfg.Library.Bucket)
	}
	if cfg.Library.RecentLimit != 12 {
		t.Errorf("Library.RecentLimit = %d, want 12", cfg.Library.RecentLimit)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.Environment.Mode != "production" {
		t.Errorf("Environment.Mode = %q, want production", cfg.Environment.Mode)
	}
}

func TestLoadEnvConfig_RecentLimitIgnoresInvalidValues(t *testing.T) {
	clearLibraryEnv(t)

	for _, bad := range []string{"abc", "0", "-3"} {
		t.Setenv("LIBRARY_RECENT_LIMIT", bad)
		if got := LoadEnvConfig().Library.RecentLimit; got != 6 {
			t.Errorf("RecentLimit with %q = %d, want 6", bad, got)
		}
	}
}

func TestLoadEnvConfig_PublicBaseURL(t *testing.T) {
	clearLibraryEnv(t)
	t.Setenv("MINIO_ENDPOINT", "minio.local:9000")

	if got := LoadEnvConfig().Library.PublicBaseURL; got != "http://minio.local:9000" {
		t.Errorf("PublicBaseURL = %q, want http://minio.local:9000", got)
	}

	t.Setenv("MINIO_USE_SSL", "true")
	if got := LoadEnvConfig().Library.PublicBaseURL; got != "https://minio.local:9000" {
		t.Errorf("PublicBaseURL with SSL = %q, want https://minio.local:9000", got)
	}

	t.Setenv("LIBRARY_PUBLIC_BASE_URL", "https://files.edushelf.io/")
	if got := LoadEnvConfig().Library.PublicBaseURL; got != "https://files.edushelf.io" {
		t.Errorf("PublicBaseURL = %q, want trailing slash trimmed", got)
	}
}

func TestLoadEnvConfig_GrafanaEndpointStripsScheme(t *testing.T) {
	clearLibraryEnv(t)

	cases := map[string]string{
		"https://otlp.grafana.net": "otlp.grafana.net",
		"http://localhost:4318":    "localhost:4318",
		"collector:4318":           "collector:4318",
	}
	for in, want := range cases {
		t.Setenv("GRAFANA_OTLP_ENDPOINT", in)
		if got := LoadEnvConfig().Grafana.OTLPEndpoint; got != want {
			t.Errorf("OTLPEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
