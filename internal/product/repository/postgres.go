package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/himapp/pos/internal/product/domain"
)

// PostgresProductRepository is the plain-SQL variant of the database backend,
// selected with STORAGE_BACKEND=postgres-plain.
type PostgresProductRepository struct {
	db *sql.DB

	mu     sync.Mutex
	lastID int64
}

// NewPostgresProductRepository creates a product repository over database/sql
func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// Migrate creates the products table if it does not exist
func (r *PostgresProductRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			sku TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			stock INTEGER NOT NULL DEFAULT 0,
			categories TEXT[] NOT NULL DEFAULT '{}',
			image TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) nextID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= r.lastID {
		now = r.lastID + 1
	}
	r.lastID = now
	return strconv.FormatInt(now, 10)
}

func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	product.ID = r.nextID()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, sku, price, stock, categories, image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		product.ID, product.Name, product.SKU, product.Price, product.Stock,
		pq.Array(product.Categories), product.Image,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	var categories pq.StringArray
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.Stock, &categories, &p.Image); err != nil {
		return nil, err
	}
	p.Categories = []string(categories)
	return &p, nil
}

func (r *PostgresProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, sku, price, stock, categories, image FROM products WHERE id = $1`, id)

	product, err := r.scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return product, nil
}

func (r *PostgresProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, sku, price, stock, categories, image FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(product)
	_, err = r.db.ExecContext(ctx,
		`UPDATE products SET name = $2, sku = $3, price = $4, stock = $5, categories = $6, image = $7
		 WHERE id = $1`,
		product.ID, product.Name, product.SKU, product.Price, product.Stock,
		pq.Array(product.Categories), product.Image,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *PostgresProductRepository) ReplaceAll(ctx context.Context, products []domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	for _, p := range products {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (id, name, sku, price, stock, categories, image)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, p.Name, p.SKU, p.Price, p.Stock, pq.Array(p.Categories), p.Image,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
	}
	return tx.Commit()
}

func (r *PostgresProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}
