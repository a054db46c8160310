//go:build integration

package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("FLICKERGRID_REDIS_ADDR")
	if addr == "" {
		t.Skip("FLICKERGRID_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Key: "flickergrid-test:" + uuid.NewString()})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer func() {
		s.client.Del(context.Background(), s.key)
		s.Close()
	}()
	storeContract(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("FLICKERGRID_MONGO_URI")
	if uri == "" {
		t.Skip("FLICKERGRID_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "flickergrid_test", Collection: "sessions_" + uuid.NewString()[:8]})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.coll.Drop(context.Background())
		s.Close()
	}()
	storeContract(t, s)
}
