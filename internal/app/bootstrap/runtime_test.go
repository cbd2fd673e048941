package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	appconfig "github.com/arcticauto/booking-gateway/internal/config"
	"github.com/arcticauto/booking-gateway/internal/session"
	"github.com/arcticauto/booking-gateway/pkg/logging"
)

func TestBuildRedisClientDisabledWithoutAddr(t *testing.T) {
	cfg := &appconfig.Config{}
	if client := BuildRedisClient(context.Background(), cfg, nil, false); client != nil {
		t.Fatalf("expected nil client when REDIS_ADDR is empty")
	}
}

func TestBuildRedisClientVerifyFailureReturnsNil(t *testing.T) {
	cfg := &appconfig.Config{RedisAddr: "127.0.0.1:1"}
	logger := logging.New("error")
	if client := BuildRedisClient(context.Background(), cfg, logger, true); client != nil {
		t.Fatalf("expected nil client when ping fails")
	}
}

func TestBuildRedisClientVerifySuccess(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{RedisAddr: mr.Addr()}
	client := BuildRedisClient(context.Background(), cfg, nil, true)
	if client == nil {
		t.Fatalf("expected a client for a reachable redis")
	}
	defer client.Close()
}

func TestBuildSelectionStoreFallsBackToMemory(t *testing.T) {
	cfg := &appconfig.Config{SelectionTTL: time.Minute}
	store := BuildSelectionStore(nil, cfg, logging.New("error"))
	if _, ok := store.(*session.MemoryStore); !ok {
		t.Fatalf("expected in-memory store without redis, got %T", store)
	}
}

func TestBuildSelectionStoreUsesRedisWhenAvailable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &appconfig.Config{RedisAddr: mr.Addr(), SelectionTTL: time.Minute}
	client := BuildRedisClient(context.Background(), cfg, nil, true)
	if client == nil {
		t.Fatalf("expected a redis client")
	}
	defer client.Close()

	store := BuildSelectionStore(client, cfg, nil)
	if _, ok := store.(*session.Store); !ok {
		t.Fatalf("expected redis-backed store, got %T", store)
	}
}
