package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	redisc "github.com/menulens/core/internal/pkg/redis"
	"github.com/redis/go-redis/v9"
)

// Stage is the lifecycle state of a single menu upload.
type Stage string

const (
	StageReceived   Stage = "received"
	StageExtracting Stage = "extracting"
	StageEnriching  Stage = "enriching"
	StagePersisting Stage = "persisting"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Upload is the progress record for one upload, stored in Redis.
type Upload struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Stage     Stage     `json:"stage"`
	MenuID    string    `json:"menu_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	keyPrefix = "ml:upload:"
	keyIndex  = "ml:uploads:index" // sorted set: score=created_at, member=upload_id
	uploadTTL = 24 * time.Hour
)

// Tracker records per-upload processing stages in Redis.
type Tracker struct {
	rc *redisc.Client
}

func NewTracker(rc *redisc.Client) *Tracker {
	return &Tracker{rc: rc}
}

func (t *Tracker) uploadKey(id string) string { return keyPrefix + id }

// Begin creates a progress record in the received stage.
func (t *Tracker) Begin(ctx context.Context, userID string) (*Upload, error) {
	up := &Upload{
		ID:        uuid.New().String(),
		UserID:    userID,
		Stage:     StageReceived,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	data, err := json.Marshal(up)
	if err != nil {
		return nil, err
	}

	pipe := t.rc.Raw().TxPipeline()
	pipe.Set(ctx, t.uploadKey(up.ID), data, uploadTTL)
	pipe.ZAdd(ctx, keyIndex, redis.Z{
		Score:  float64(up.CreatedAt.UnixMilli()),
		Member: up.ID,
	})
	_, err = pipe.Exec(ctx)
	return up, err
}

// Advance moves an upload to the given stage.
func (t *Tracker) Advance(ctx context.Context, id string, stage Stage) error {
	return t.update(ctx, id, func(up *Upload) {
		up.Stage = stage
	})
}

// Complete marks an upload done and records the persisted menu id.
func (t *Tracker) Complete(ctx context.Context, id, menuID string) error {
	return t.update(ctx, id, func(up *Upload) {
		up.Stage = StageDone
		up.MenuID = menuID
	})
}

// Fail marks an upload failed with a failure kind (extraction, persistence, ...).
func (t *Tracker) Fail(ctx context.Context, id, kind string) error {
	return t.update(ctx, id, func(up *Upload) {
		up.Stage = StageFailed
		up.Error = kind
	})
}

// ListByUser returns the user's uploads, newest first. Index members whose
// records have expired are pruned along the way.
func (t *Tracker) ListByUser(ctx context.Context, userID string) ([]*Upload, error) {
	ids, err := t.rc.Raw().ZRevRange(ctx, keyIndex, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	uploads := []*Upload{}
	var expired []interface{}
	for _, id := range ids {
		up, err := t.GetByID(ctx, id)
		if err != nil {
			continue
		}
		if up == nil {
			expired = append(expired, id)
			continue
		}
		if up.UserID != userID {
			continue
		}
		uploads = append(uploads, up)
	}

	if len(expired) > 0 {
		t.rc.Raw().ZRem(ctx, keyIndex, expired...)
	}
	return uploads, nil
}

// GetByID retrieves an upload's progress record.
func (t *Tracker) GetByID(ctx context.Context, id string) (*Upload, error) {
	data, err := t.rc.Raw().Get(ctx, t.uploadKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var up Upload
	return &up, json.Unmarshal(data, &up)
}

func (t *Tracker) update(ctx context.Context, id string, mutate func(*Upload)) error {
	up, err := t.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if up == nil {
		return fmt.Errorf("upload not found")
	}

	mutate(up)
	up.UpdatedAt = time.Now()

	data, err := json.Marshal(up)
	if err != nil {
		return err
	}
	return t.rc.Raw().Set(ctx, t.uploadKey(id), data, uploadTTL).Err()
}
