// Package convert shapes domain entities into output records for API
// consumers. Records are plain maps so the redaction pass can null or prune
// fields without knowing the entity type.
package convert

import (
	"time"

	"github.com/and161185/curio/internal/model"
	"github.com/and161185/curio/internal/redact"
)

// ItemRecord shapes an item for output. The extra map is copied so redaction
// never mutates the domain entity.
func ItemRecord(it model.Item) map[string]any {
	rec := map[string]any{
		"id":             it.ID.String(),
		"collection":     it.CollectionID.String(),
		"name":           it.Name,
		"description":    it.Description,
		"category":       it.Category,
		"privacy":        it.Privacy.String(),
		"quantity":       it.Quantity,
		"location":       it.Location,
		"purchase_date":  dateOrNil(it.PurchaseDate),
		"purchase_price": it.PurchasePrice,
		"current_value":  it.CurrentValue,
		"currency":       it.Currency,
		"extra":          copyExtra(it.Extra),
		"created_at":     it.CreatedAt,
		"updated_at":     it.UpdatedAt,
	}
	rec[redact.HiddenFieldsKey] = append([]string(nil), it.HiddenFields...)
	return rec
}

// CollectionRecord shapes a collection with its aggregates for output.
func CollectionRecord(c model.CollectionWithStats) map[string]any {
	return map[string]any{
		"id":                   c.ID.String(),
		"owner":                c.OwnerID.String(),
		"name":                 c.Name,
		"description":          c.Description,
		"privacy":              c.Privacy.String(),
		"views_count":          c.ViewsCount,
		"items_count":          c.Stats.ItemsCount,
		"total_current_value":  c.Stats.TotalCurrentValue,
		"total_purchase_price": c.Stats.TotalPurchasePrice,
		"created_at":           c.CreatedAt,
		"updated_at":           c.UpdatedAt,
	}
}

func copyExtra(extra map[string]any) map[string]any {
	if extra == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func dateOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}
