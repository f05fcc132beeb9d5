package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// InitDB opens the backing store. Postgres is used when DATABASE_URL is set
// (see postgres.go); otherwise a local sqlite file, or an in-memory database
// under tests.
func InitDB() error {
	if os.Getenv("DATABASE_URL") != "" {
		db, err := CreatePostgresDB()
		if err != nil {
			return err
		}
		DB = db
		return nil
	}

	var dbPath string
	if os.Getenv("DATA_DIR") != "" {
		dbPath = filepath.Join(os.Getenv("DATA_DIR"), "loanpool.db")
	} else if os.Getenv("TEST_DB") == "1" {
		dbPath = ":memory:"
	} else {
		dbPath = "./loanpool.db"
	}

	var err error
	// Connection parameters for better concurrency handling
	dsn := dbPath + "?_journal=WAL&_timeout=10000&_busy_timeout=10000"
	DB, err = sql.Open("sqlite3", dsn)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(5)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(time.Minute * 5)

	if _, err = DB.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}
	if _, err = DB.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		return err
	}

	return DB.Ping()
}
