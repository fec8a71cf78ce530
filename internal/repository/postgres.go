// Package repository содержит реализации каталога купонов.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/cart-pricing/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrCouponExists возвращается при попытке создать купон с уже существующим кодом.
	ErrCouponExists = errors.New("coupon already exists")
	// ErrCouponNotFound возвращается, если купон с таким кодом отсутствует в каталоге.
	ErrCouponNotFound = errors.New("coupon not found")
)

// PostgresRepository хранит каталог купонов в PostgreSQL.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{
		pool:   pool,
		delays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	return retry(ctx, r.delays, fn)
}

func retry(ctx context.Context, delays []time.Duration, fn func() error) error {
	var err error
	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !isRetryable(err) || i == len(delays) {
			break
		}

		timer := time.NewTimer(delays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// CreateCoupon сохраняет купон в каталоге и возвращает его идентификатор.
func (r *PostgresRepository) CreateCoupon(ctx context.Context, def model.CouponDefinition) (int64, error) {
	var id int64
	err := r.withRetry(ctx, func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO coupons (code, kind, percentage, amount, category, nth)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			def.Code, string(def.Kind), def.Percentage, def.Amount, strings.ToUpper(def.Category), def.Nth,
		).Scan(&id)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: %s", ErrCouponExists, def.Code)
		}
		return 0, fmt.Errorf("create coupon: %w", err)
	}
	return id, nil
}

// GetCouponByCode возвращает купон по коду.
func (r *PostgresRepository) GetCouponByCode(ctx context.Context, code string) (*model.CouponDefinition, error) {
	var def model.CouponDefinition
	err := r.withRetry(ctx, func() error {
		row := r.pool.QueryRow(ctx,
			`SELECT id, code, kind, percentage, amount, category, nth, created_at
			 FROM coupons
			 WHERE code = $1`,
			code,
		)
		return scanCoupon(row, &def)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}

	return &def, nil
}

// ListCoupons возвращает все купоны каталога в порядке создания.
func (r *PostgresRepository) ListCoupons(ctx context.Context) ([]model.CouponDefinition, error) {
	var res []model.CouponDefinition
	err := r.withRetry(ctx, func() error {
		res = res[:0]

		rows, err := r.pool.Query(ctx,
			`SELECT id, code, kind, percentage, amount, category, nth, created_at
			 FROM coupons
			 ORDER BY id`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var def model.CouponDefinition
			if err := scanCoupon(rows, &def); err != nil {
				return err
			}
			res = append(res, def)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("select coupons: %w", err)
	}

	return res, nil
}

func scanCoupon(row pgx.Row, def *model.CouponDefinition) error {
	var kind string
	if err := row.Scan(
		&def.ID,
		&def.Code,
		&kind,
		&def.Percentage,
		&def.Amount,
		&def.Category,
		&def.Nth,
		&def.CreatedAt,
	); err != nil {
		return err
	}
	def.Kind = model.CouponKind(kind)
	return nil
}
