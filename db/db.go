package db

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

type Database struct {
	database *sql.DB
}

func NewDatabase(path string) (*Database, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	return &Database{database: database}, nil
}

func (db *Database) Conn(ctx context.Context) (*sql.Conn, error) {
	return db.database.Conn(ctx)
}

func (db *Database) Close() error {
	return db.database.Close()
}
