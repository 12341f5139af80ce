package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

const sessionCollection = "session_entries"

// KVStore keeps one document per (station, key) pair.
type KVStore struct {
	client    *mongo.Client
	coll      *mongo.Collection
	stationID string
}

var _ ports.KVStore = (*KVStore)(nil)

type sessionEntry struct {
	ID        string    `bson:"_id"`
	StationID string    `bson:"station_id"`
	Key       string    `bson:"key"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewKVStore(db *mongo.Database, stationID string) *KVStore {
	return &KVStore{client: db.Client(), coll: db.Collection(sessionCollection), stationID: stationID}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry sessionEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": s.docID(key)}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrEntryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session entry %s: %w", key, err)
	}
	return entry.Value, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	entry := sessionEntry{
		ID:        s.docID(key),
		StationID: s.stationID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session entry %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.docID(key)}); err != nil {
		return fmt.Errorf("delete session entry %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *KVStore) docID(key string) string {
	return s.stationID + ":" + key
}
