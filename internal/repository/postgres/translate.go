package postgres

import (
	"fmt"
	"strings"

	"github.com/and161185/curio/internal/visibility"
)

// translator renders a visibility predicate tree into a SQL fragment over the
// concrete schema. This is the storage side of the push-down boundary: the
// visibility package speaks ownership/tiers/edges, the translator knows the
// columns. Placeholders continue the shared args slice so a repository can
// mix its own conditions with the rendered predicate.
type translator struct {
	ownerCol    string // column holding the resource owner, e.g. "c.owner_id"
	collTierCol string // collection privacy column
	itemTierCol string // item privacy column, "" for collection queries
	args        []any
}

func newCollectionTranslator() *translator {
	return &translator{ownerCol: "c.owner_id", collTierCol: "c.privacy"}
}

func newItemTranslator() *translator {
	return &translator{ownerCol: "c.owner_id", collTierCol: "c.privacy", itemTierCol: "i.privacy"}
}

func (t *translator) arg(v any) string {
	t.args = append(t.args, v)
	return fmt.Sprintf("$%d", len(t.args))
}

// render returns the SQL condition for the predicate. Unknown nodes render as
// FALSE so a mismatched policy can only under-expose, never leak.
func (t *translator) render(p visibility.Pred) string {
	switch p := p.(type) {
	case visibility.False:
		return "FALSE"
	case visibility.Owner:
		return fmt.Sprintf("%s = %s", t.ownerCol, t.arg(p.UserID))
	case visibility.CollectionTier:
		return fmt.Sprintf("%s = %s", t.collTierCol, t.arg(string(p.Tier)))
	case visibility.ItemTier:
		if t.itemTierCol == "" {
			return "FALSE"
		}
		return fmt.Sprintf("%s = %s", t.itemTierCol, t.arg(string(p.Tier)))
	case visibility.OwnerFollows:
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM follows f WHERE f.follower_id = %s AND f.following_id = %s)",
			t.ownerCol, t.arg(p.ViewerID),
		)
	case visibility.ViewerFollows:
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM follows f WHERE f.follower_id = %s AND f.following_id = %s)",
			t.arg(p.ViewerID), t.ownerCol,
		)
	case visibility.And:
		return t.renderList(p.Preds, " AND ")
	case visibility.Or:
		return t.renderList(p.Preds, " OR ")
	default:
		return "FALSE"
	}
}

func (t *translator) renderList(preds []visibility.Pred, sep string) string {
	if len(preds) == 0 {
		return "FALSE"
	}
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		parts = append(parts, t.render(p))
	}
	return "(" + strings.Join(parts, sep) + ")"
}
