package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	// DBDriver selects the storage backend: "mysql" or "sqlite".
	DBDriver   string
	MySQLHost  string
	MySQLPort  string
	MySQLDB    string
	MySQLUser  string
	MySQLPass  string
	SQLitePath string

	RedisAddr string
	RedisDB   int

	// Directory generated PDFs are written to.
	StorageDir string

	// Single shared credential; the tool has no per-user identity.
	AdminUser string
	AdminPass string

	SessionTTLSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "5050"),
		DBDriver:  getenv("DB_DRIVER", "sqlite"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "safeguard"),
		MySQLUser: getenv("MYSQL_USER", "safeguard"),
		MySQLPass: getenv("MYSQL_PASS", "safeguard"),

		SQLitePath: getenv("SQLITE_PATH", "deals.db"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),

		StorageDir: getenv("STORAGE_DIR", "storage"),

		AdminUser: getenv("ADMIN_USER", "admin"),
		AdminPass: os.Getenv("ADMIN_PASS"),

		SessionTTLSecs: 12 * 60 * 60,
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("SESSION_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SessionTTLSecs = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q (want mysql or sqlite)", c.DBDriver)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.AdminPass == "" {
		return errors.New("missing ADMIN_PASS")
	}
	if c.StorageDir == "" {
		return errors.New("missing STORAGE_DIR")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME columns
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
