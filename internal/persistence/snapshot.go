package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/database"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/errors"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/models"
	"github.com/xeipuuv/gojsonschema"
)

// PersistedState is the draft snapshot written to the store on every edit.
// Attachment raw file handles are excluded by the Attachment JSON tags, so a
// rehydrated draft carries metadata plus any inline base64 content only.
type PersistedState struct {
	FormData    models.FormData     `json:"formData"`
	ImageURL    string              `json:"imageUrl,omitempty"`
	Theme       string              `json:"theme"`
	Attachments []models.Attachment `json:"attachments"`
	SavedAt     time.Time           `json:"savedAt"`
}

// snapshotSchema is a shape check applied before hydrating: a corrupt or
// foreign record under our key must not poison the application state.
const snapshotSchema = `{
	"type": "object",
	"required": ["formData"],
	"properties": {
		"formData":    {"type": "object"},
		"imageUrl":    {"type": "string"},
		"theme":       {"type": "string"},
		"attachments": {"type": "array"}
	}
}`

// Store persists one draft snapshot under a fixed key.
type Store struct {
	redis  *database.RedisClient
	logger logger.Logger
	key    string
	ttl    time.Duration
	schema *gojsonschema.Schema
}

// NewStore builds a snapshot store over Redis. ttl of zero means drafts never
// expire.
func NewStore(redis *database.RedisClient, log logger.Logger, key string, ttl time.Duration) (*Store, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(snapshotSchema))
	if err != nil {
		return nil, err
	}
	return &Store{
		redis:  redis,
		logger: log,
		key:    key,
		ttl:    ttl,
		schema: schema,
	}, nil
}

// Save serializes the snapshot and writes it under the fixed key.
func (s *Store) Save(ctx context.Context, st PersistedState) error {
	st.SavedAt = time.Now().UTC()
	raw, err := json.Marshal(st)
	if err != nil {
		return errors.NewPersistenceWriteFailedError(err)
	}
	if err := s.redis.Set(ctx, s.key, string(raw), s.ttl); err != nil {
		return errors.NewPersistenceWriteFailedError(err)
	}
	s.logger.Debug("Draft snapshot persisted", map[string]interface{}{
		"key":   s.key,
		"bytes": len(raw),
	})
	return nil
}

// Load reads the snapshot if one exists. A missing key returns (nil, nil).
// A record that fails the shape check is treated as corrupt and discarded.
func (s *Store) Load(ctx context.Context) (*PersistedState, error) {
	raw, err := s.redis.Get(ctx, s.key)
	if err != nil {
		if database.IsNil(err) {
			return nil, nil
		}
		return nil, errors.NewPersistenceReadFailedError(err)
	}

	result, err := s.schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil || !result.Valid() {
		s.logger.Warn("Discarding corrupt draft snapshot", map[string]interface{}{
			"key": s.key,
		})
		return nil, errors.NewSnapshotCorruptError(s.key)
	}

	var st PersistedState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, errors.NewSnapshotCorruptError(s.key)
	}
	st.FormData.Normalize()
	if st.Attachments == nil {
		st.Attachments = []models.Attachment{}
	}
	return &st, nil
}

// Clear deletes the persisted snapshot. Deleting a missing key is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key); err != nil {
		return errors.NewPersistenceWriteFailedError(err)
	}
	return nil
}
