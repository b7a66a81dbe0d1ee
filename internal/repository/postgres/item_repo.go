package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/curio/internal/errs"
	"github.com/and161185/curio/internal/model"
	"github.com/and161185/curio/internal/repository"
	"github.com/and161185/curio/internal/visibility"
)

// ItemRepo implements ItemRepository using PostgreSQL. Every read joins the
// parent collection so callers get the owner and collection tier along with
// the item.
type ItemRepo struct{ db *DB }

// NewItemRepo constructs an item repository.
func NewItemRepo(db *DB) *ItemRepo { return &ItemRepo{db: db} }

const itemCols = `
i.id, i.collection_id, i.name, i.description, i.category, i.privacy,
i.quantity, i.location, i.purchase_date, i.purchase_price::float8, i.current_value::float8,
i.currency, i.extra, i.hidden_fields, i.created_at, i.updated_at,
c.owner_id, c.privacy`

// Create inserts an item row. A missing collection maps to ErrNotFound.
func (r *ItemRepo) Create(ctx context.Context, it model.Item) error {
	const q = `
INSERT INTO items (id, collection_id, name, description, category, privacy,
                   quantity, location, purchase_date, purchase_price, current_value,
                   currency, extra, hidden_fields)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := r.db.Pool.Exec(ctx, q,
		it.ID, it.CollectionID, it.Name, it.Description, it.Category, string(it.Privacy),
		it.Quantity, it.Location, it.PurchaseDate, it.PurchasePrice, it.CurrentValue,
		it.Currency, it.Extra, it.HiddenFields,
	)
	if isForeignKeyViolation(err) {
		return errs.ErrNotFound
	}
	return err
}

// Get selects an item with its collection context by id, regardless of visibility.
func (r *ItemRepo) Get(ctx context.Context, id uuid.UUID) (*model.ItemWithOwner, error) {
	q := fmt.Sprintf(`
SELECT %s
FROM items i
JOIN collections c ON c.id = i.collection_id
WHERE i.id = $1`, itemCols)

	row := r.db.Pool.QueryRow(ctx, q, id)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return it, nil
}

// Update persists mutable item fields.
func (r *ItemRepo) Update(ctx context.Context, it model.Item) error {
	const q = `
UPDATE items SET name=$2, description=$3, category=$4, privacy=$5,
                 quantity=$6, location=$7, purchase_date=$8, purchase_price=$9,
                 current_value=$10, currency=$11, extra=$12, hidden_fields=$13,
                 updated_at=now()
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q,
		it.ID, it.Name, it.Description, it.Category, string(it.Privacy),
		it.Quantity, it.Location, it.PurchaseDate, it.PurchasePrice,
		it.CurrentValue, it.Currency, it.Extra, it.HiddenFields,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the item.
func (r *ItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM items WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// List returns items matching the query and the pushed-down predicate, newest first.
func (r *ItemRepo) List(ctx context.Context, iq repository.ItemQuery, pred visibility.Pred) ([]model.ItemWithOwner, error) {
	t := newItemTranslator()
	where := t.render(pred)
	if iq.CollectionID != nil {
		where = fmt.Sprintf("%s AND i.collection_id = %s", where, t.arg(*iq.CollectionID))
	}
	if iq.Search != "" {
		p := t.arg("%" + iq.Search + "%")
		where = fmt.Sprintf("%s AND (i.name ILIKE %s OR i.description ILIKE %s)", where, p, p)
	}
	q := fmt.Sprintf(`
SELECT %s
FROM items i
JOIN collections c ON c.id = i.collection_id
WHERE %s
ORDER BY i.created_at DESC`, itemCols, where)

	rows, err := r.db.Pool.Query(ctx, q, t.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ItemWithOwner
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func scanItem(row pgx.Row) (*model.ItemWithOwner, error) {
	var (
		it          model.ItemWithOwner
		itemPrivacy string
		collPrivacy string
	)
	if err := row.Scan(
		&it.ID, &it.CollectionID, &it.Name, &it.Description, &it.Category, &itemPrivacy,
		&it.Quantity, &it.Location, &it.PurchaseDate, &it.PurchasePrice, &it.CurrentValue,
		&it.Currency, &it.Extra, &it.HiddenFields, &it.CreatedAt, &it.UpdatedAt,
		&it.OwnerID, &collPrivacy,
	); err != nil {
		return nil, err
	}
	it.Privacy = model.PrivacyTier(itemPrivacy)
	it.CollectionPrivacy = model.PrivacyTier(collPrivacy)
	return &it, nil
}
