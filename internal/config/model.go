// internal/config/model.go
//
// Typed configuration model for the scraper.
//
// Context
// -------
// These structs define the shape of the configuration tree the loader
// builds from three overlay layers:
//
//   • optional `conf/.env`                        – dotenv values,
//   • `conf/global.yaml`                          – primary static file,
//   • `APTSCRAPE_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the binary fails fast if
// required fields are missing.

package config

import "time"

// Database holds the store DSN.  A bare path is a SQLite file; a
// user:pass@tcp(...)/db DSN selects MySQL.
type Database struct {
	DSN string `koanf:"dsn" validate:"required"`
}

// Sheets configures the spreadsheet collaborator.  Empty SpreadsheetID
// disables registry sync and publishing; scrape-only deployments run fine
// without it.
type Sheets struct {
	SpreadsheetID   string `koanf:"spreadsheet_id"`
	CredentialsFile string `koanf:"credentials_file" validate:"required_with=SpreadsheetID"`
	RegistryTab     string `koanf:"registry_tab"`
	StatusTab       string `koanf:"status_tab"`
	AvailabilityTab string `koanf:"availability_tab"`
	ValidationTab   string `koanf:"validation_tab"`
}

// Scrape holds runner switches that are deployment decisions rather than
// CLI flags.
type Scrape struct {
	// ClearOnFailure drops a building's units when its scrape fails.
	// Retention is the default; this flag exists so the old behavior is
	// an explicit operator choice, never a silent one.
	ClearOnFailure bool `koanf:"clear_on_failure"`
}

// Log configures the daemon's rotating file sink.
type Log struct {
	Dir        string `koanf:"dir"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
}

// Ops configures the read-only listener served in daemon mode.
type Ops struct {
	ListenAddr string `koanf:"listen_addr" validate:"omitempty,hostname_port"`
}

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers Root so later code can build absolute file paths.
type Paths struct {
	Root string
}

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the process lifetime.
type Config struct {
	Database Database `koanf:"database"`
	Sheets   Sheets   `koanf:"sheets"`
	Scrape   Scrape   `koanf:"scrape"`
	Log      Log      `koanf:"log"`
	Ops      Ops      `koanf:"ops"`
	Paths    Paths    `koanf:"-"`
}

// Rotating-log defaults applied when the log section is absent: 5 MB
// files, seven backups, under <root>/log.
const (
	DefaultLogMaxSizeMB  = 5
	DefaultLogMaxBackups = 7
)

// VaultCacheTTL bounds how long resolved vault secrets are reused.
const VaultCacheTTL = 10 * time.Minute
