package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/profiledash/internal/account"
	"github.com/dmitrijs2005/profiledash/internal/cryptox"
	"github.com/dmitrijs2005/profiledash/internal/dbx"
	"github.com/dmitrijs2005/profiledash/internal/server/migrations"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const selectAccount = `SELECT id, email, name, full_name, role, bio, avatar, phone, location,
		 join_date, last_login, salt, password_hash
		 FROM accounts`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanRecord(row *sql.Row) (*Record, error) {
	var (
		rec       Record
		role      string
		lastLogin sql.NullTime
	)
	p := &rec.Profile
	err := row.Scan(&p.ID, &p.Email, &p.Name, &p.FullName, &role, &p.Bio, &p.Avatar,
		&p.Phone, &p.Location, &p.JoinDate, &lastLogin, &rec.Salt, &rec.Hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.Role = account.Role(role)
	if lastLogin.Valid {
		p.LastLogin = lastLogin.Time
	}
	return &rec, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Record, error) {
	return scanRecord(r.db.QueryRowContext(ctx, selectAccount+` WHERE email = $1`, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Record, error) {
	return scanRecord(r.db.QueryRowContext(ctx, selectAccount+` WHERE id = $1`, id))
}

func (r *PostgresRepository) Update(ctx context.Context, p account.Profile) error {
	query :=
		`UPDATE accounts SET email = $2, name = $3, full_name = $4, bio = $5, avatar = $6
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, p.ID, p.Email, p.Name, p.FullName, p.Bio, p.Avatar)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

// insert adds rec unless an account with the same email exists.
func (r *PostgresRepository) insert(ctx context.Context, rec Record) error {
	query :=
		`INSERT INTO accounts (email, name, full_name, role, bio, avatar, phone, location, join_date, salt, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (email) DO NOTHING`

	p := rec.Profile
	_, err := r.db.ExecContext(ctx, query, p.Email, p.Name, p.FullName, string(p.Role), p.Bio, p.Avatar,
		p.Phone, p.Location, p.JoinDate, rec.Salt, rec.Hash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SeedDemoAccounts inserts the demo accounts that are not present yet, in a
// single transaction.
func SeedDemoAccounts(ctx context.Context, db *sql.DB) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewPostgresRepository(tx)
		for _, s := range account.Seeds() {
			salt, hash := cryptox.HashPassword([]byte(s.Password))
			if err := repo.insert(ctx, Record{Profile: s.Profile, Salt: salt, Hash: hash}); err != nil {
				return err
			}
		}
		return nil
	})
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded account migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, ".")
}

// InitDatabase connects to PostgreSQL, migrates the schema and seeds the
// demo accounts.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := SeedDemoAccounts(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
