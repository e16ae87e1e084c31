package redis

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis client for campaign snapshots, the spectator event
// channel and the leaderboard.
type Client struct {
	rdb   *redis.Client
	codec *codec
}

// NewClient creates a Redis client from a connection URL.
func NewClient(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	c, err := NewClientFromPool(rdb)
	if err != nil {
		rdb.Close()
		return nil, err
	}
	return c, nil
}

// NewClientFromPool wraps an existing redis.Client.
func NewClientFromPool(rdb *redis.Client) (*Client, error) {
	cd, err := newCodec()
	if err != nil {
		return nil, err
	}
	return &Client{rdb: rdb, codec: cd}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	c.codec.close()
	return c.rdb.Close()
}

// codec compresses snapshots. EncodeAll and DecodeAll are safe for
// concurrent use.
type codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newCodec() (*codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &codec{enc: enc, dec: dec}, nil
}

func (cd *codec) pack(data []byte) []byte {
	return cd.enc.EncodeAll(data, make([]byte, 0, len(data)/3))
}

func (cd *codec) unpack(packed []byte) ([]byte, error) {
	return cd.dec.DecodeAll(packed, nil)
}

func (cd *codec) close() {
	cd.enc.Close()
	cd.dec.Close()
}
