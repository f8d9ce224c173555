package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed tolerances.yaml
var tolerancesYAML []byte

type Config struct {
	Database DatabaseConfig
	Matching MatchingConfig
	Report   ReportConfig
	Server   ServerConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type MatchingConfig struct {
	Dim       int     // embedding dimensionality (default 128)
	Tolerance float64 // maximum Euclidean distance for a face match
	Profile   string  // tolerance profile name from tolerances.yaml
}

type ReportConfig struct {
	Timezone string // civil timezone for rendering timestamps (default America/Sao_Paulo)
}

type ServerConfig struct {
	Host string
	Port int
}

// TolerancesConfig maps profile names to match tolerances. Shipped as an
// embedded asset so deployments can pick a profile by name instead of a
// raw number.
type TolerancesConfig struct {
	Profiles map[string]float64 `yaml:"profiles"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envString reads an environment variable with a default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var tolerances TolerancesConfig
	if err := yaml.Unmarshal(tolerancesYAML, &tolerances); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded tolerances.yaml: " + err.Error())
	}

	profile := envString("MATCH_PROFILE", "default")
	tolerance := tolerances.Profiles[profile]
	if tolerance == 0 {
		tolerance = tolerances.Profiles["default"]
	}
	// An explicit MATCH_TOLERANCE overrides the profile.
	tolerance = envFloat("MATCH_TOLERANCE", tolerance)

	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Matching: MatchingConfig{
			Dim:       envInt("EMBEDDING_DIM", 128),
			Tolerance: tolerance,
			Profile:   profile,
		},
		Report: ReportConfig{
			Timezone: envString("REPORT_TIMEZONE", "America/Sao_Paulo"),
		},
		Server: ServerConfig{
			Host: envString("SERVER_HOST", "0.0.0.0"),
			Port: envInt("SERVER_PORT", 8080),
		},
	}
}
