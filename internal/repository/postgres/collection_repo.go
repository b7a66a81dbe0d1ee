package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/curio/internal/errs"
	"github.com/and161185/curio/internal/model"
	"github.com/and161185/curio/internal/visibility"
)

// CollectionRepo implements CollectionRepository using PostgreSQL.
type CollectionRepo struct{ db *DB }

// NewCollectionRepo constructs a collection repository.
func NewCollectionRepo(db *DB) *CollectionRepo { return &CollectionRepo{db: db} }

const collectionCols = `
c.id, c.owner_id, c.name, c.description, c.privacy, c.views_count, c.created_at, c.updated_at,
COUNT(i.id) AS items_count,
COALESCE(SUM(i.current_value), 0)::float8 AS total_current_value,
COALESCE(SUM(i.purchase_price), 0)::float8 AS total_purchase_price`

// Create inserts a collection row.
func (r *CollectionRepo) Create(ctx context.Context, c model.Collection) error {
	const q = `
INSERT INTO collections (id, owner_id, name, description, privacy)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, c.ID, c.OwnerID, c.Name, c.Description, string(c.Privacy))
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// Get selects a collection with aggregates by id, regardless of visibility.
func (r *CollectionRepo) Get(ctx context.Context, id uuid.UUID) (*model.CollectionWithStats, error) {
	q := fmt.Sprintf(`
SELECT %s
FROM collections c
LEFT JOIN items i ON i.collection_id = c.id
WHERE c.id = $1
GROUP BY c.id`, collectionCols)

	row := r.db.Pool.QueryRow(ctx, q, id)
	c, err := scanCollection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Update persists name, description, and privacy.
func (r *CollectionRepo) Update(ctx context.Context, c model.Collection) error {
	const q = `
UPDATE collections SET name=$2, description=$3, privacy=$4, updated_at=now()
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, c.ID, c.Name, c.Description, string(c.Privacy))
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the collection; items go with it via ON DELETE CASCADE.
func (r *CollectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM collections WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter.
func (r *CollectionRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE collections SET views_count = views_count + 1 WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, id)
	return err
}

// List returns collections matching the pushed-down predicate in name order,
// optionally narrowed to a single owner's profile.
func (r *CollectionRepo) List(ctx context.Context, pred visibility.Pred, owner *uuid.UUID) ([]model.CollectionWithStats, error) {
	t := newCollectionTranslator()
	where := t.render(pred)
	if owner != nil {
		where = fmt.Sprintf("%s AND c.owner_id = %s", where, t.arg(*owner))
	}
	q := fmt.Sprintf(`
SELECT %s
FROM collections c
LEFT JOIN items i ON i.collection_id = c.id
WHERE %s
GROUP BY c.id
ORDER BY c.name`, collectionCols, where)

	return r.list(ctx, q, t.args)
}

// ListFeed returns collections matching the predicate, newest first.
func (r *CollectionRepo) ListFeed(ctx context.Context, pred visibility.Pred) ([]model.CollectionWithStats, error) {
	t := newCollectionTranslator()
	where := t.render(pred)
	q := fmt.Sprintf(`
SELECT %s
FROM collections c
LEFT JOIN items i ON i.collection_id = c.id
WHERE %s
GROUP BY c.id
ORDER BY c.created_at DESC`, collectionCols, where)

	return r.list(ctx, q, t.args)
}

func (r *CollectionRepo) list(ctx context.Context, q string, args []any) ([]model.CollectionWithStats, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CollectionWithStats
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanCollection(row pgx.Row) (*model.CollectionWithStats, error) {
	var (
		c       model.CollectionWithStats
		privacy string
	)
	if err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Description, &privacy, &c.ViewsCount,
		&c.CreatedAt, &c.UpdatedAt,
		&c.Stats.ItemsCount, &c.Stats.TotalCurrentValue, &c.Stats.TotalPurchasePrice,
	); err != nil {
		return nil, err
	}
	c.Privacy = model.PrivacyTier(privacy)
	return &c, nil
}
