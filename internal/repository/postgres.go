package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/SherlockH0olms/Lendly/internal/domain"
	_ "github.com/lib/pq"
)

func openPostgres(cfg domain.RepositoryConfig) (*sql.DB, error) {
	host := cfg.PostgresHost
	if host == "" {
		host = "localhost"
	}
	port := cfg.PostgresPort
	if port == 0 {
		port = 5432
	}
	dbname := cfg.PostgresDB
	if dbname == "" {
		dbname = "lendly"
	}
	sslmode := cfg.PostgresSSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	params := []string{
		"host=" + host,
		fmt.Sprintf("port=%d", port),
		"dbname=" + dbname,
		"sslmode=" + sslmode,
	}
	if cfg.PostgresUser != "" {
		params = append(params, "user="+cfg.PostgresUser)
	}
	if cfg.PostgresPassword != "" {
		params = append(params, "password="+cfg.PostgresPassword)
	}

	return openVerified("postgres", strings.Join(params, " "))
}
