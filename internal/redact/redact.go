// Package redact applies owner-declared hidden field paths to shaped output
// records before they leave the service layer.
package redact

import (
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/curio/internal/model"
)

// HiddenFieldsKey is the output key carrying the declared hidden paths.
// It is echoed back to the owner and staff only.
const HiddenFieldsKey = "hidden_fields"

const extraKey = "extra"

// Apply masks the record's hidden paths for everyone but the resource owner
// and elevated viewers. Path forms:
//
//	"name"        -> top-level field set to nil
//	"extra"       -> whole extra map set to nil
//	"extra.<key>" -> single key removed from extra, siblings kept
//
// Unrecognized paths are ignored. The record is modified in place and
// returned for chaining.
func Apply(record map[string]any, hidden []string, viewer model.Viewer, ownerID uuid.UUID) map[string]any {
	if record == nil {
		return nil
	}
	if viewer.Is(ownerID) || viewer.Elevated {
		return record
	}

	for _, path := range hidden {
		switch {
		case path == extraKey:
			if _, ok := record[extraKey]; ok {
				record[extraKey] = nil
			}
		case strings.HasPrefix(path, extraKey+"."):
			key := path[len(extraKey)+1:]
			if extra, ok := record[extraKey].(map[string]any); ok {
				delete(extra, key)
			}
		default:
			if _, ok := record[path]; ok {
				record[path] = nil
			}
		}
	}

	// The hidden list itself is owner-only metadata.
	delete(record, HiddenFieldsKey)
	return record
}
