package main

import "time"

// Config holds server configuration loaded from environment variables.
// DataverseBaseURL is deliberately not required: the server starts without
// it and reports the missing configuration on the affected endpoints, so
// the auth flow can be exercised before an environment is provisioned.
type Config struct {
	Port               int           `envconfig:"PORT" default:"8080"`
	DataverseBaseURL   string        `envconfig:"DATAVERSE_BASE_URL"`
	DataverseTenantID  string        `envconfig:"DATAVERSE_TENANT_ID" default:"common"`
	DataverseClientID  string        `envconfig:"DATAVERSE_CLIENT_ID" default:"04b07795-8ddb-461a-bbee-02f9e1bf7b46"`
	TokenCachePath     string        `envconfig:"TOKEN_CACHE_PATH" default:"/tmp/dataverse-token-cache.json"`
	RedisURL           string        `envconfig:"REDIS_URL"`
	TokenRefreshBuffer time.Duration `envconfig:"TOKEN_REFRESH_BUFFER" default:"5m"`
	EmployeeCacheTTL   time.Duration `envconfig:"EMPLOYEE_CACHE_TTL" default:"60s"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	ReadHeaderTimeout  time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"5s"`
	ReadTimeout        time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout       time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout        time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
}
