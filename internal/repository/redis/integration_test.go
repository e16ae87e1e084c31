//go:build integration

package redis

import (
	"bytes"
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/freeeve/frontier-dominion/internal/testutil"
)

var testRDB *goredis.Client

func setup(t *testing.T) *Client {
	t.Helper()
	if testRDB == nil {
		testRDB = testutil.SetupRedis(t)
	}
	testutil.CleanupRedis(t, testRDB)
	c, err := NewClientFromPool(testRDB)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	t.Cleanup(c.codec.close)
	return c
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	snapshot := []byte(`{"turn":3,"player":"Frontier League","treasury":512}`)

	if err := c.SetSnapshot(ctx, "camp-1", snapshot, time.Minute); err != nil {
		t.Fatalf("set snapshot: %v", err)
	}
	got, err := c.GetSnapshot(ctx, "camp-1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if !bytes.Equal(got, snapshot) {
		t.Fatalf("snapshot round-trip failed: %s", got)
	}

	raw, err := testRDB.Get(ctx, snapshotKey("camp-1")).Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(raw, snapshot) {
		t.Error("snapshot should be stored compressed")
	}
	ttl, err := testRDB.TTL(ctx, snapshotKey("camp-1")).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected ttl within a minute, got %v (%v)", ttl, err)
	}
}

func TestSnapshotNotFound(t *testing.T) {
	c := setup(t)
	got, err := c.GetSnapshot(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get missing snapshot: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %s", got)
	}
}

func TestPublishSubscribe(t *testing.T) {
	c := setup(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := c.Subscribe(ctx)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe confirmation: %v", err)
	}

	if err := c.PublishEvent(ctx, []byte(`{"type":"turn_ended"}`)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	select {
	case msg := <-sub.Channel():
		if msg.Payload != `{"type":"turn_ended"}` {
			t.Errorf("unexpected payload %q", msg.Payload)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestLeaderboard(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	scores := map[string]float64{"a": 1200, "b": 9400, "c": 3050}
	for id, s := range scores {
		if err := c.RecordScore(ctx, id, s); err != nil {
			t.Fatal(err)
		}
	}

	top, err := c.TopScores(ctx, 2)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if len(top) != 2 || top[0].CampaignID != "b" || top[1].CampaignID != "c" {
		t.Errorf("unexpected leaderboard: %+v", top)
	}

	rank, err := c.ScoreRank(ctx, "a")
	if err != nil || rank != 3 {
		t.Errorf("expected rank 3, got %d (%v)", rank, err)
	}
	rank, err = c.ScoreRank(ctx, "zzz")
	if err != nil || rank != 0 {
		t.Errorf("expected rank 0 for unknown campaign, got %d (%v)", rank, err)
	}
}
