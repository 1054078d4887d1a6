// internal/config/loader.go
//
// Configuration loader with Vault support.
//
// Context
// -------
// `Load()` builds one immutable `Config` struct from three layers (highest
// precedence last):
//
//  1. Optional `<root>/conf/.env`.
//  2. `conf/global.yaml`, when present.
//  3. Environment variables prefixed `APTSCRAPE_`, where `__` maps to "."
//     (e.g., `APTSCRAPE_DATABASE__DSN → database.dsn`).
//
// **Vault integration** — any string value that begins with the prefix
// `vault:` is treated as a Vault URI of the form `vault:<secret-path>#<key>`
// and is resolved through `internal/vault.Client` before unmarshalling, so
// callers stay oblivious.  The Vault client is only built when a `vault:`
// URI actually appears; deployments that keep secrets in env never need a
// Vault server.
//
// Logs use the global *sugared* logger (`zap.S()`), so early boot issues
// surface even before the file logger is installed.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/aptscrape/internal/vault"
)

var current atomic.Pointer[Config]

/*──────────────────── lazy Vault client ────────────────────────────────────*/

var (
	vaultMu  sync.Mutex
	vaultCli *vault.Client // nil until the first vault: URI shows up
)

func ensureVault(ctx context.Context) error {
	vaultMu.Lock()
	defer vaultMu.Unlock()
	if vaultCli != nil {
		return nil
	}
	cli, err := vault.New(ctx, zap.S().Debugf)
	if err != nil {
		return err
	}
	vaultCli = cli
	return nil
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves APTSCRAPE_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to the executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("APTSCRAPE_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves Vault URIs, validates,
// applies defaults, and caches the Config.  Safe for concurrent use.
func Load() (*Config, error) {
	ctx := context.Background()
	root := rootDir()

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, err
		}
	} else {
		zap.S().Debugw("config yaml absent, env only", "file", yamlPath)
	}

	// Env overrides: APTSCRAPE_DATABASE__DSN → database.dsn
	if err := k.Load(env.Provider("APTSCRAPE_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(
			strings.TrimPrefix(s, "APTSCRAPE_"), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	// Resolve Vault URIs in-place.
	if err := resolveVaultURIs(ctx, k); err != nil {
		zap.S().Errorw("config vault resolve failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	applyDefaults(&cfg)
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"dsn_kind", dsnKind(cfg.Database.DSN),
		"sheets", cfg.Sheets.SpreadsheetID != "",
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = filepath.Join(cfg.Paths.Root, "log")
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = DefaultLogMaxBackups
	}
}

// dsnKind classifies the DSN for the boot log without echoing credentials.
func dsnKind(dsn string) string {
	if strings.HasPrefix(dsn, "mysql://") || strings.Contains(dsn, "@tcp(") {
		return "mysql"
	}
	return "sqlite"
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }

/*──────────────────── Vault URI resolver ───────────────────────────────────*/

func resolveVaultURIs(ctx context.Context, k *koanf.Koanf) error {
	const prefix = "vault:"

	keys := k.Keys() // snapshot to avoid concurrent mutation
	for _, key := range keys {
		val, ok := k.Get(key).(string)
		if !ok || !strings.HasPrefix(val, prefix) {
			continue
		}

		if err := ensureVault(ctx); err != nil {
			return err
		}

		body := strings.TrimPrefix(val, prefix)
		parts := strings.SplitN(body, "#", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid vault URI %q (want vault:path#key)", val)
		}
		secretPath, field := parts[0], parts[1]

		plain, err := vaultCli.GetKV(ctx, secretPath, field, VaultCacheTTL)
		if err != nil {
			return err
		}
		k.Set(key, plain)
		zap.S().Debugw("vault uri resolved",
			"key", key, "path", secretPath, "field", field)
	}
	return nil
}
