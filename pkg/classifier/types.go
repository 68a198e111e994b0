package classifier

import (
	"encoding/json"
	"log"
	"strings"
)

// Result is one classification outcome. Raw preserves the upstream payload
// exactly as received so it can be stored with the processed-message record.
type Result struct {
	Category string
	Score    float64
	Raw      json.RawMessage
}

// ScoredLabel is one element of the legacy array-shaped classifier response.
type ScoredLabel struct {
	Name  string  `json:"Name"`
	Score float64 `json:"Score"`
}

// EntityKind tags a recognized entity type.
type EntityKind string

const (
	KindCompanyName EntityKind = "company_name"
	KindStatus      EntityKind = "status"
	KindJobRole     EntityKind = "job_role"
)

// Entity is one span extracted from an email body.
type Entity struct {
	Kind EntityKind
	Text string
}

// wireEntity is the extractor's response element shape.
type wireEntity struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// parseEntities converts raw upstream entities into tagged variants.
// Unrecognized types are dropped with a warning rather than silently
// ignored.
func parseEntities(raw []wireEntity) []Entity {
	entities := make([]Entity, 0, len(raw))
	for _, item := range raw {
		kind, ok := entityKind(item.Type)
		if !ok {
			log.Printf("[WARN] Dropping entity with unknown type %q", item.Type)
			continue
		}
		entities = append(entities, Entity{Kind: kind, Text: item.Text})
	}
	return entities
}

func entityKind(raw string) (EntityKind, bool) {
	switch strings.ToLower(raw) {
	case "company_name":
		return KindCompanyName, true
	case "status":
		return KindStatus, true
	case "job_role":
		return KindJobRole, true
	default:
		return "", false
	}
}
