package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=bank_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultMigrationsDir = "migrations"
const defaultBranchCode = "52"

// fileConfig mirrors the optional TOML file pointed at by BANKLEDGER_CONFIG.
// Environment variables win over file values.
type fileConfig struct {
	DatabaseDSN   string `toml:"database_dsn"`
	MigrationsDir string `toml:"migrations_dir"`
	BranchCode    string `toml:"branch_code"`
}

type Config struct {
	DatabaseDSN   string
	MigrationsDir string
	BranchCode    string
}

func Load() (Config, error) {
	var fromFile fileConfig
	if path := strings.TrimSpace(os.Getenv("BANKLEDGER_CONFIG")); path != "" {
		if _, err := toml.DecodeFile(path, &fromFile); err != nil {
			return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	conn := firstNonEmpty(os.Getenv("DATABASE_DSN"), fromFile.DatabaseDSN, defaultConnectionString)
	migrationsDir := firstNonEmpty(os.Getenv("MIGRATIONS_DIR"), fromFile.MigrationsDir, defaultMigrationsDir)
	branchCode := firstNonEmpty(os.Getenv("BRANCH_CODE"), fromFile.BranchCode, defaultBranchCode)

	return Config{
		DatabaseDSN:   normalizeConnectionString(conn),
		MigrationsDir: migrationsDir,
		BranchCode:    branchCode,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// normalizeConnectionString accepts either a lib/pq DSN or a semicolon
// key=value connection string and returns a lib/pq DSN. Only semicolon
// strings are rewritten; anything else (space-separated DSN, postgres://
// URL) is already in a form lib/pq understands and is returned verbatim,
// including whatever sslmode it carries.
func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
