// Package slot implements single-key durable storage for the console session
// record. Every backend stores the record as JSON under one key, so the last
// login always overwrites the previous one.
package slot

import (
	"encoding/json"
	"fmt"

	"github.com/hongminglow/all-in-console/internal/models"
)

// DefaultKey is the slot key used when none is configured.
const DefaultKey = "console.session"

func encode(record models.SessionRecord) ([]byte, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode session record: %w", err)
	}
	return raw, nil
}

func decode(raw []byte) (models.SessionRecord, error) {
	var record models.SessionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return models.SessionRecord{}, fmt.Errorf("decode session record: %w", err)
	}
	return record, nil
}
