package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	GetByID(ctx context.Context, productID string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, productID string) error
	AddReview(ctx context.Context, rev *Review) error
	ListReviews(ctx context.Context, productID string) ([]Review, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

const productColumns = `id, name, description, price, category, colors, tags, rating, stock_count, image, created_at, updated_at`

func (r *repo) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		query += fmt.Sprintf(" AND $%d = ANY(tags)", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return products, nil
}

func (r *repo) GetByID(ctx context.Context, productID string) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, productID)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, `
INSERT INTO products (id, name, description, price, category, colors, tags, rating, stock_count, image, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.Category,
		pq.Array(p.Colors), pq.Array(p.Tags), p.Rating, p.StockCount, p.Image,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *repo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE products
SET name = $2, description = $3, price = $4, category = $5, colors = $6,
    tags = $7, stock_count = $8, image = $9, updated_at = NOW()
WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price, p.Category,
		pq.Array(p.Colors), pq.Array(p.Tags), p.StockCount, p.Image,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, productID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddReview inserts the review and recomputes the product rating as the
// average of all reviews, in one transaction.
func (r *repo) AddReview(ctx context.Context, rev *Review) error {
	if rev.ID == "" {
		rev.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
INSERT INTO product_reviews (id, product_id, user_id, user_name, rating, comment, created_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
RETURNING created_at`,
		rev.ID, rev.ProductID, rev.UserID, rev.UserName, rev.Rating, rev.Comment,
	).Scan(&rev.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
UPDATE products
SET rating = (SELECT AVG(rating)::float8 FROM product_reviews WHERE product_id = $1),
    updated_at = NOW()
WHERE id = $1`, rev.ProductID)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) ListReviews(ctx context.Context, productID string) ([]Review, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, product_id, user_id, user_name, rating, comment, created_at
FROM product_reviews WHERE product_id = $1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.UserName, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return reviews, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category,
		pq.Array(&p.Colors), pq.Array(&p.Tags), &p.Rating, &p.StockCount,
		&p.Image, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, sql.ErrNoRows
		}
		return Product{}, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}
