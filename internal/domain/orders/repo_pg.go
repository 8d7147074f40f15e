package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicare/hospital/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const orderCols = `id, patient_id, inventory_id, quantity, order_date, status`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.PatientID, &o.InventoryID, &o.Quantity, &o.OrderDate, &o.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &o, err
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Order, error) {
	defer rows.Close()
	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, o *Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO orders (id, patient_id, inventory_id, quantity, order_date, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		o.ID, o.PatientID, o.InventoryID, o.Quantity, o.OrderDate, o.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	return scanOrder(r.conn(ctx).QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id))
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Order, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+orderCols+` FROM orders ORDER BY order_date DESC`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Order, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+orderCols+` FROM orders WHERE patient_id = $1 ORDER BY order_date DESC`, patientID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) Update(ctx context.Context, o *Order) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE orders SET quantity=$2, status=$3 WHERE id = $1`,
		o.ID, o.Quantity, o.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
