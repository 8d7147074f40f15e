package staff

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

const staffCols = `id, user_id, first_name, last_name, email, phone_number, role, department,
	address, city, state, date_of_birth, hire_date, salary,
	emergency_contact, emergency_phone, password, created_at, updated_at`

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.PhoneNumber, &p.Role, &p.Department,
		&p.Address, &p.City, &p.State, &p.DateOfBirth, &p.HireDate, &p.Salary,
		&p.EmergencyContact, &p.EmergencyPhone, &p.Password, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff (id, user_id, first_name, last_name, email, phone_number, role, department,
			address, city, state, date_of_birth, hire_date, salary,
			emergency_contact, emergency_phone, password)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		p.ID, p.UserID, p.FirstName, p.LastName, p.Email, p.PhoneNumber, p.Role, p.Department,
		p.Address, p.City, p.State, p.DateOfBirth, p.HireDate, p.Salary,
		p.EmergencyContact, p.EmergencyPhone, p.Password)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return scanProfile(r.conn(ctx).QueryRow(ctx, `SELECT `+staffCols+` FROM staff WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	return scanProfile(r.conn(ctx).QueryRow(ctx, `SELECT `+staffCols+` FROM staff WHERE email = $1`, email))
}

func (r *repoPG) List(ctx context.Context) ([]*Profile, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+staffCols+` FROM staff ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, p *Profile) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff SET first_name=$2, last_name=$3, phone_number=$4, role=$5, department=$6,
			address=$7, city=$8, state=$9, date_of_birth=$10, hire_date=$11, salary=$12,
			emergency_contact=$13, emergency_phone=$14, password=$15, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.PhoneNumber, p.Role, p.Department,
		p.Address, p.City, p.State, p.DateOfBirth, p.HireDate, p.Salary,
		p.EmergencyContact, p.EmergencyPhone, p.Password)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
