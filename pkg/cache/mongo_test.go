package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Mongo tests need a live server: TREEFLOW_TEST_MONGO_URI=mongodb://localhost:27017
func newTestMongo(t *testing.T) *MongoCache {
	t.Helper()
	uri := os.Getenv("TREEFLOW_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TREEFLOW_TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := NewMongoCache(ctx, uri, "treeflow_test", "cache_"+time.Now().Format("150405.000000"))
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	t.Cleanup(func() {
		_ = c.coll.Drop(context.Background())
		_ = c.Close()
	})
	return c
}

func TestMongoCache(t *testing.T) {
	c := newTestMongo(t)
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("empty Get: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v1"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v2"), time.Hour); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v2" {
		t.Fatalf("Get = %q hit=%v err=%v", data, hit, err)
	}

	if err := c.Set(ctx, "gone", []byte("v"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "gone"); hit {
		t.Error("expired entry should miss")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Clear should remove entries")
	}
}
