package farmrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/farmsight/internal/domain/farm"
)

// ValkeyRepository stores each owner's farms in a single hash, field id -> JSON.
type ValkeyRepository struct {
	client valkey.Client
	prefix string
}

// NewValkeyRepository constructs a repository backed by Valkey.
func NewValkeyRepository(client valkey.Client, prefix string) *ValkeyRepository {
	if prefix == "" {
		prefix = "farmsight"
	}
	return &ValkeyRepository{client: client, prefix: prefix}
}

func (r *ValkeyRepository) Create(ctx context.Context, f farm.Farm) (farm.Farm, error) {
	payload, err := json.Marshal(f)
	if err != nil {
		return farm.Farm{}, err
	}
	cmd := r.client.B().Hset().Key(r.ownerKey(f.OwnerID)).FieldValue().FieldValue(f.ID, string(payload)).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return farm.Farm{}, err
	}
	return f, nil
}

func (r *ValkeyRepository) ListByOwner(ctx context.Context, ownerID int64) ([]farm.Farm, error) {
	entries, err := r.client.Do(ctx, r.client.B().Hgetall().Key(r.ownerKey(ownerID)).Build()).AsStrMap()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]farm.Farm, 0, len(entries))
	for id, payload := range entries {
		var f farm.Farm
		if err := json.Unmarshal([]byte(payload), &f); err != nil {
			return nil, fmt.Errorf("decode farm %s: %w", id, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *ValkeyRepository) Get(ctx context.Context, ownerID int64, id string) (farm.Farm, bool, error) {
	payload, err := r.client.Do(ctx, r.client.B().Hget().Key(r.ownerKey(ownerID)).Field(id).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return farm.Farm{}, false, nil
		}
		return farm.Farm{}, false, err
	}
	var f farm.Farm
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return farm.Farm{}, false, err
	}
	return f, true, nil
}

func (r *ValkeyRepository) Delete(ctx context.Context, ownerID int64, id string) (bool, error) {
	removed, err := r.client.Do(ctx, r.client.B().Hdel().Key(r.ownerKey(ownerID)).Field(id).Build()).AsInt64()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

func (r *ValkeyRepository) ownerKey(ownerID int64) string {
	return fmt.Sprintf("%s:farms:%d", r.prefix, ownerID)
}

var _ farm.Repository = (*ValkeyRepository)(nil)
