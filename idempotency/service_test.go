package idempotency

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammdex/amm-ledger/models"
)

type fakeStore struct {
	records map[string]*models.IdempotencyRecord
	deleted []string
}

func storeKey(key, endpoint string) string {
	return key + "/" + endpoint
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*models.IdempotencyRecord)}
}

func (f *fakeStore) put(rec *models.IdempotencyRecord) {
	f.records[storeKey(rec.Key, rec.Endpoint)] = rec
}

func (f *fakeStore) FindByKey(ctx context.Context, key, endpoint string) (*models.IdempotencyRecord, error) {
	return f.records[storeKey(key, endpoint)], nil
}

func (f *fakeStore) DeleteByKey(ctx context.Context, key, endpoint string) error {
	delete(f.records, storeKey(key, endpoint))
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) DeleteOlderThan(ctx context.Context, cutoff int64) (int, error) {
	removed := 0
	for key, rec := range f.records {
		if rec.CreatedAt < cutoff {
			delete(f.records, key)
			removed++
		}
	}
	return removed, nil
}

func newTestService(store Store) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewService(store, logger.WithField("app", "test"))
}

func TestCheckMiss(t *testing.T) {
	svc := newTestService(newFakeStore())

	cached, err := svc.Check(context.Background(), "absent", "swap")
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestCheckHit(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	now := time.Now()
	svc.now = func() time.Time { return now }

	store.put(&models.IdempotencyRecord{
		Key:       "key-1",
		Endpoint:  "swap",
		Response:  `{"success":true}`,
		CreatedAt: now.Add(-time.Hour).UnixMilli(),
	})

	cached, err := svc.Check(context.Background(), "key-1", "swap")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(cached))
}

func TestCheckExpiredRecordIsDropped(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	now := time.Now()
	svc.now = func() time.Time { return now }

	store.put(&models.IdempotencyRecord{
		Key:       "stale",
		Endpoint:  "swap",
		Response:  `{}`,
		CreatedAt: now.Add(-TTL - time.Minute).UnixMilli(),
	})

	cached, err := svc.Check(context.Background(), "stale", "swap")
	require.NoError(t, err)
	assert.Nil(t, cached)
	assert.Equal(t, []string{"stale"}, store.deleted)
	assert.NotContains(t, store.records, storeKey("stale", "swap"))
}

func TestCheckEndpointScoping(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	store.put(&models.IdempotencyRecord{
		Key:       "key-1",
		Endpoint:  "fee_claim",
		Response:  `{"fees_a":"2"}`,
		CreatedAt: time.Now().UnixMilli(),
	})

	// The same key on another endpoint is a miss, not a hit.
	cached, err := svc.Check(context.Background(), "key-1", "swap")
	require.NoError(t, err)
	assert.Nil(t, cached)

	cached, err = svc.Check(context.Background(), "key-1", "fee_claim")
	require.NoError(t, err)
	assert.JSONEq(t, `{"fees_a":"2"}`, string(cached))
}

func TestDeleteOlderThanKeepsFreshRecords(t *testing.T) {
	store := newFakeStore()
	now := time.Now()
	store.records["old"] = &models.IdempotencyRecord{Key: "old", CreatedAt: now.Add(-25 * time.Hour).UnixMilli()}
	store.records["fresh"] = &models.IdempotencyRecord{Key: "fresh", CreatedAt: now.UnixMilli()}

	removed, err := store.DeleteOlderThan(context.Background(), now.Add(-TTL).UnixMilli())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Contains(t, store.records, "fresh")
	assert.NotContains(t, store.records, "old")
}
