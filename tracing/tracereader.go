package tracing

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sarchlab/intersim/arbitration"
	"github.com/sarchlab/intersim/traffic"
)

// QueryParams selects the services to read.
type QueryParams struct {
	// Direction keeps only the services of one direction. The zero value
	// keeps all directions.
	Direction traffic.Direction

	// Limit is the maximum number of services to return. Set to 0 for no
	// limit.
	Limit int

	// Offset is the number of services to skip.
	Offset int
}

// SQLiteTraceReader reads the services stored by a SQLiteTraceWriter.
type SQLiteTraceReader struct {
	*sql.DB
}

// NewSQLiteTraceReader opens the database file.
func NewSQLiteTraceReader(filename string) (*SQLiteTraceReader, error) {
	db, err := sql.Open("sqlite3", "file:"+filename+"?mode=ro")
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}

	return &SQLiteTraceReader{DB: db}, nil
}

// Services returns the services in round order and the number of services
// that match the direction filter.
func (r *SQLiteTraceReader) Services(
	ctx context.Context,
	params QueryParams,
) ([]arbitration.Service, int, error) {
	var (
		where string
		args  []any
	)

	if params.Direction != 0 {
		where = " WHERE direction = ?"
		args = append(args, params.Direction.String())
	}

	var total int
	err := r.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM service"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := new(strings.Builder)
	query.WriteString(`SELECT round, id, direction, turn,
		arrival_time, entry_time, exit_time, wait_time FROM service`)
	query.WriteString(where)
	query.WriteString(" ORDER BY round")

	if params.Limit > 0 {
		fmt.Fprintf(query, " LIMIT %d", params.Limit)
	} else if params.Offset > 0 {
		query.WriteString(" LIMIT -1")
	}

	if params.Offset > 0 {
		fmt.Fprintf(query, " OFFSET %d", params.Offset)
	}

	rows, err := r.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var services []arbitration.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, 0, err
		}

		services = append(services, svc)
	}

	return services, total, rows.Err()
}

func scanService(rows *sql.Rows) (arbitration.Service, error) {
	var (
		svc       arbitration.Service
		id        sql.NullString
		direction string
		turn      string
	)

	err := rows.Scan(
		&svc.Round,
		&id,
		&direction,
		&turn,
		&svc.Arrival.Time,
		&svc.Entry,
		&svc.Exit,
		&svc.Wait,
	)
	if err != nil {
		return svc, err
	}

	if len(direction) != 1 || len(turn) != 1 {
		return svc, fmt.Errorf("round %d: bad direction %q or turn %q",
			svc.Round, direction, turn)
	}

	svc.Arrival.ID = id.String
	svc.Arrival.Direction = traffic.Direction(direction[0])
	svc.Arrival.Turn = traffic.Turn(turn[0])

	return svc, nil
}
