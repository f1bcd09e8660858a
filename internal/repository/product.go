package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verbstore/backoffice/internal/domain/product"
)

const productColumns = `p.id, p.name, pt.name, pg.name, p.weight, p.unit_price, p.qty,
		p.description, COALESCE(p.return_policy, ''), p.discount, p.added_at, COALESCE(p.added_by, ''),
		(SELECT COALESCE(array_agg(t.name ORDER BY t.name), '{}')
			FROM product_themes x JOIN thought_themes t ON t.id = x.theme_id
			WHERE x.product_id = p.id),
		(SELECT COALESCE(array_agg(c.name ORDER BY c.name), '{}')
			FROM product_colors x JOIN colors c ON c.id = x.color_id
			WHERE x.product_id = p.id),
		(SELECT COALESCE(array_agg(f.name ORDER BY f.name), '{}')
			FROM product_frames x JOIN frame_types f ON f.id = x.frame_type_id
			WHERE x.product_id = p.id)`

const productFrom = ` FROM products p
		JOIN product_types pt ON pt.id = p.product_type_id
		JOIN product_grades pg ON pg.id = p.grade_id`

const (
	listProductsSQL = `SELECT ` + productColumns + productFrom + `
		WHERE ($1 = '' OR pt.name = $1)
		  AND ($2 = '' OR pg.name = $2)
		  AND ($3 = '' OR EXISTS (SELECT 1 FROM product_themes x JOIN thought_themes t ON t.id = x.theme_id
				WHERE x.product_id = p.id AND t.name = $3))
		  AND ($4 = '' OR EXISTS (SELECT 1 FROM product_colors x JOIN colors c ON c.id = x.color_id
				WHERE x.product_id = p.id AND c.name = $4))
		  AND ($5 = '' OR EXISTS (SELECT 1 FROM product_frames x JOIN frame_types f ON f.id = x.frame_type_id
				WHERE x.product_id = p.id AND f.name = $5))
		ORDER BY p.added_at DESC`

	getProductByIDSQL  = `SELECT ` + productColumns + productFrom + ` WHERE p.id = $1`
	getProductsByIDsQL = `SELECT ` + productColumns + productFrom + ` WHERE p.id = ANY($1)`

	getProductSizesSQL = `SELECT d.id, d.width, d.height
		FROM product_sizes x JOIN dimensions d ON d.id = x.dimension_id
		WHERE x.product_id = $1 ORDER BY d.width, d.height`

	getProductImagesSQL = `SELECT id, photo_url, description, added_at
		FROM product_images WHERE product_id = $1 ORDER BY added_at`

	insertProductSQL = `INSERT INTO products
		(id, name, product_type_id, grade_id, weight, unit_price, qty, description, return_policy, discount, added_by)
		VALUES ($1, $2,
			(SELECT id FROM product_types WHERE name = $3),
			(SELECT id FROM product_grades WHERE name = $4),
			$5, $6, $7, $8, NULLIF($9, ''), $10, NULLIF($11, ''))`

	updateProductSQL = `UPDATE products SET
		name = $2,
		product_type_id = (SELECT id FROM product_types WHERE name = $3),
		grade_id = (SELECT id FROM product_grades WHERE name = $4),
		weight = $5, unit_price = $6, qty = $7, description = $8,
		return_policy = NULLIF($9, ''), discount = $10
		WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	insertReviewSQL = `INSERT INTO product_reviews (id, product_id, colleague_id, message)
		VALUES ($1, $2, $3, $4)`

	listReviewsSQL = `SELECT id, product_id, colleague_id, message, added_at
		FROM product_reviews WHERE product_id = $1 ORDER BY added_at DESC`

	insertImageSQL = `INSERT INTO product_images (id, product_id, photo_url, description)
		VALUES ($1, $2, $3, $4)`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns catalog products matching the filter, newest first. Variant
// attribute filters match by name against the seeded reference rows.
func (r *ProductRepository) List(ctx context.Context, f product.ListFilter) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL, f.Type, f.Grade, f.Theme, f.Color, f.FrameType)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product with its sizes and image references.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	if p.Sizes, err = r.sizes(ctx, id); err != nil {
		return nil, err
	}
	if p.Images, err = r.images(ctx, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs in one query.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Create inserts the product and its attribute links in one transaction.
// Unknown type or grade names fail the insert (NOT NULL violation on the
// resolved id).
func (r *ProductRepository) Create(ctx context.Context, p product.CreateParams) (*product.Product, error) {
	id := uuid.New().String()

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertProductSQL,
			id, p.Name, p.Type, p.Grade, p.Weight, p.UnitPrice, p.Qty,
			p.Description, p.ReturnPolicy, p.Discount, p.AddedBy,
		)
		if err != nil {
			return fmt.Errorf("inserting product: %w", err)
		}
		return linkAttributes(ctx, tx, id, p)
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Update rewrites the product's scalar fields and replaces its attribute
// links in one transaction.
func (r *ProductRepository) Update(ctx context.Context, id string, p product.CreateParams) (*product.Product, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateProductSQL,
			id, p.Name, p.Type, p.Grade, p.Weight, p.UnitPrice, p.Qty,
			p.Description, p.ReturnPolicy, p.Discount,
		)
		if err != nil {
			return fmt.Errorf("updating product %q: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return product.ErrNotFound
		}

		for _, table := range []string{"product_themes", "product_colors", "product_frames"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE product_id = $1`, id); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}
		return linkAttributes(ctx, tx, id, p)
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Delete removes a product; attribute links and images cascade.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// AddReview stores a colleague's review.
func (r *ProductRepository) AddReview(ctx context.Context, rev *product.Review) error {
	_, err := r.pool.Exec(ctx, insertReviewSQL, rev.ID, rev.ProductID, rev.ColleagueID, rev.Message)
	if err != nil {
		return fmt.Errorf("inserting review for product %q: %w", rev.ProductID, err)
	}
	return nil
}

// ListReviews returns reviews for a product, newest first.
func (r *ProductRepository) ListReviews(ctx context.Context, productID string) ([]product.Review, error) {
	rows, err := r.pool.Query(ctx, listReviewsSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for product %q: %w", productID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (product.Review, error) {
		var rev product.Review
		err := row.Scan(&rev.ID, &rev.ProductID, &rev.ColleagueID, &rev.Message, &rev.AddedAt)
		return rev, err
	})
}

// AddImage stores an image URL reference for a product.
func (r *ProductRepository) AddImage(ctx context.Context, productID string, img *product.Image) error {
	_, err := r.pool.Exec(ctx, insertImageSQL, img.ID, productID, img.URL, img.Description)
	if err != nil {
		return fmt.Errorf("inserting image for product %q: %w", productID, err)
	}
	return nil
}

func (r *ProductRepository) sizes(ctx context.Context, productID string) ([]product.Dimension, error) {
	rows, err := r.pool.Query(ctx, getProductSizesSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("getting sizes for product %q: %w", productID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (product.Dimension, error) {
		var d product.Dimension
		err := row.Scan(&d.ID, &d.Width, &d.Height)
		return d, err
	})
}

func (r *ProductRepository) images(ctx context.Context, productID string) ([]product.Image, error) {
	rows, err := r.pool.Query(ctx, getProductImagesSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("getting images for product %q: %w", productID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (product.Image, error) {
		var img product.Image
		err := row.Scan(&img.ID, &img.URL, &img.Description, &img.AddedAt)
		return img, err
	})
}

func linkAttributes(ctx context.Context, tx pgx.Tx, productID string, p product.CreateParams) error {
	links := []struct {
		insert string
		names  []string
	}{
		{`INSERT INTO product_themes (product_id, theme_id)
			SELECT $1, id FROM thought_themes WHERE name = $2`, p.Themes},
		{`INSERT INTO product_colors (product_id, color_id)
			SELECT $1, id FROM colors WHERE name = $2`, p.Colors},
		{`INSERT INTO product_frames (product_id, frame_type_id)
			SELECT $1, id FROM frame_types WHERE name = $2`, p.FrameTypes},
	}

	for _, link := range links {
		for _, name := range link.names {
			tag, err := tx.Exec(ctx, link.insert, productID, name)
			if err != nil {
				return fmt.Errorf("linking attribute %q: %w", name, err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("unknown attribute %q", name)
			}
		}
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Type, &p.Grade, &p.Weight, &p.UnitPrice, &p.Qty,
		&p.Description, &p.ReturnPolicy, &p.Discount, &p.AddedAt, &p.AddedBy,
		&p.Themes, &p.Colors, &p.FrameTypes,
	)
	return p, err
}
