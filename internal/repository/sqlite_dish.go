package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/dishform/internal/db"
	"github.com/alexanderramin/dishform/internal/dish"
)

// SQLiteDishRepo implements DishRepo using a SQLite database.
type SQLiteDishRepo struct {
	conn db.DBTX
}

// NewSQLiteDishRepo creates a new SQLiteDishRepo.
func NewSQLiteDishRepo(conn db.DBTX) *SQLiteDishRepo {
	return &SQLiteDishRepo{conn: conn}
}

var _ DishRepo = (*SQLiteDishRepo)(nil)

const dishColumns = `id, name, preparation_time, type, no_of_slices, diameter, spiciness_scale, slices_of_bread, created_at`

func (r *SQLiteDishRepo) Create(ctx context.Context, d *dish.Stored) error {
	query := `INSERT INTO dishes (` + dishColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.conn.ExecContext(ctx, query,
		d.ID,
		d.Name,
		d.PreparationTime,
		string(d.Type),
		nullableIntToValue(d.NoOfSlices),
		nullableFloatToValue(d.Diameter),
		nullableIntToValue(d.SpicinessScale),
		nullableIntToValue(d.SlicesOfBread),
		d.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting dish: %w", err)
	}
	return nil
}

func (r *SQLiteDishRepo) GetByID(ctx context.Context, id string) (*dish.Stored, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE id = ?`
	d, err := scanDish(r.conn.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("dish %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return d, nil
}

// List returns the newest dishes first. A limit <= 0 returns all of them.
func (r *SQLiteDishRepo) List(ctx context.Context, limit int) ([]*dish.Stored, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + dishColumns + ` FROM dishes ORDER BY created_at DESC, id LIMIT ?`
	rows, err := r.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing dishes: %w", err)
	}
	defer rows.Close()

	var dishes []*dish.Stored
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dishes: %w", err)
	}
	return dishes, nil
}

func (r *SQLiteDishRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM dishes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting dishes: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDish(row rowScanner) (*dish.Stored, error) {
	var d dish.Stored
	var typ, createdAt string
	var slices, spiciness, bread sql.NullInt64
	var diameter sql.NullFloat64

	err := row.Scan(&d.ID, &d.Name, &d.PreparationTime, &typ, &slices, &diameter, &spiciness, &bread, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning dish: %w", err)
	}

	d.Type = dish.Type(typ)
	d.NoOfSlices = intPtr(slices)
	d.Diameter = floatPtr(diameter)
	d.SpicinessScale = intPtr(spiciness)
	d.SlicesOfBread = intPtr(bread)
	d.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &d, nil
}
