package tracing

import (
	"database/sql"
	"fmt"
	"os"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/intersim/arbitration"
)

// SQLiteTraceWriter stores serviced vehicles into a SQLite database.
type SQLiteTraceWriter struct {
	*sql.DB
	statement *sql.Stmt

	dbName    string
	services  []arbitration.Service
	batchSize int
}

// NewSQLiteTraceWriter creates a new SQLiteTraceWriter. The ".sqlite3"
// extension is appended to path. An empty path picks a unique name.
func NewSQLiteTraceWriter(path string) *SQLiteTraceWriter {
	return &SQLiteTraceWriter{
		dbName:    path,
		batchSize: 10000,
	}
}

// Path returns the name of the database file.
func (t *SQLiteTraceWriter) Path() string {
	return t.dbName + ".sqlite3"
}

// Init creates the database and the service table.
func (t *SQLiteTraceWriter) Init() error {
	err := t.createDatabase()
	if err != nil {
		return err
	}

	err = t.createTable()
	if err != nil {
		t.closeDB()
		return err
	}

	t.statement, err = t.Prepare(`
		INSERT INTO service (
			round,
			id,
			direction,
			turn,
			arrival_time,
			entry_time,
			exit_time,
			wait_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		t.closeDB()
		return fmt.Errorf("preparing insert: %w", err)
	}

	atexit.Register(func() { t.Close() })

	return nil
}

func (t *SQLiteTraceWriter) createDatabase() error {
	if t.dbName == "" {
		t.dbName = "intersim_trace_" + traceNameGenerator.Generate()
	}

	filename := t.Path()
	_, err := os.Stat(filename)
	if err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return err
	}

	t.DB = db

	return nil
}

func (t *SQLiteTraceWriter) createTable() error {
	_, err := t.Exec(`
		CREATE TABLE service
		(
			round        INTEGER NOT NULL PRIMARY KEY,
			id           VARCHAR(100),
			direction    CHAR(1) NOT NULL,
			turn         CHAR(1) NOT NULL,
			arrival_time REAL NOT NULL,
			entry_time   REAL NOT NULL,
			exit_time    REAL NOT NULL,
			wait_time    REAL NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	_, err = t.Exec(`CREATE INDEX service_direction ON service (direction);`)
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	return nil
}

// Write buffers a service.
func (t *SQLiteTraceWriter) Write(svc arbitration.Service) {
	t.services = append(t.services, svc)
	if len(t.services) >= t.batchSize {
		t.Flush()
	}
}

// Flush writes all the buffered services in one transaction.
func (t *SQLiteTraceWriter) Flush() {
	if len(t.services) == 0 {
		return
	}

	tx, err := t.Begin()
	if err != nil {
		panic(err)
	}

	stmt := tx.Stmt(t.statement)
	for _, svc := range t.services {
		_, err := stmt.Exec(
			svc.Round,
			svc.Arrival.ID,
			svc.Arrival.Direction.String(),
			svc.Arrival.Turn.String(),
			svc.Arrival.Time,
			svc.Entry,
			svc.Exit,
			svc.Wait,
		)
		if err != nil {
			_ = tx.Rollback()
			panic(err)
		}
	}

	err = tx.Commit()
	if err != nil {
		panic(err)
	}

	t.services = nil
}

// Close flushes the buffered services and closes the database. Closing twice
// is a no-op.
func (t *SQLiteTraceWriter) Close() error {
	if t.statement != nil {
		t.Flush()
		t.statement.Close()
		t.statement = nil
	}

	return t.closeDB()
}

func (t *SQLiteTraceWriter) closeDB() error {
	if t.DB == nil {
		return nil
	}

	err := t.DB.Close()
	t.DB = nil

	return err
}
