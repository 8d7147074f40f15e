package inventory

import (
	"context"
	"errors"
	"time"

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

const itemCols = `id, name, description, quantity, unit, category, supplier,
	expiry_date, price, minimum_stock, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var i Item
	err := row.Scan(&i.ID, &i.Name, &i.Description, &i.Quantity, &i.Unit, &i.Category, &i.Supplier,
		&i.ExpiryDate, &i.Price, &i.MinimumStock, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &i, err
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Item, error) {
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, i *Item) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO inventory (id, name, description, quantity, unit, category, supplier,
			expiry_date, price, minimum_stock)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		i.ID, i.Name, i.Description, i.Quantity, i.Unit, i.Category, i.Supplier,
		i.ExpiryDate, i.Price, i.MinimumStock)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateItem
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	return scanItem(r.conn(ctx).QueryRow(ctx, `SELECT `+itemCols+` FROM inventory WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, i *Item) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE inventory SET name=$2, description=$3, quantity=$4, unit=$5, category=$6,
			supplier=$7, expiry_date=$8, price=$9, minimum_stock=$10, updated_at=NOW()
		WHERE id = $1`,
		i.ID, i.Name, i.Description, i.Quantity, i.Unit, i.Category,
		i.Supplier, i.ExpiryDate, i.Price, i.MinimumStock)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateItem
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+itemCols+` FROM inventory ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) ListByCategory(ctx context.Context, category string) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+itemCols+` FROM inventory WHERE category = $1 ORDER BY name`, category)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) ListBySupplier(ctx context.Context, supplier string) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+itemCols+` FROM inventory WHERE supplier = $1 ORDER BY name`, supplier)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) ListLowStock(ctx context.Context) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+itemCols+` FROM inventory
		WHERE minimum_stock IS NOT NULL AND quantity <= minimum_stock
		ORDER BY quantity`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) ListExpiringBefore(ctx context.Context, date time.Time) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+itemCols+` FROM inventory
		WHERE expiry_date IS NOT NULL AND expiry_date <= $1
		ORDER BY expiry_date`, date)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) Search(ctx context.Context, term string) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+itemCols+` FROM inventory
		WHERE name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		ORDER BY name`, term)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *repoPG) ExistsByNameAndCategory(ctx context.Context, name, category string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM inventory WHERE name = $1 AND category = $2)`,
		name, category).Scan(&exists)
	return exists, err
}

func (r *repoPG) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE inventory SET quantity = $2, updated_at = NOW() WHERE id = $1`, id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
