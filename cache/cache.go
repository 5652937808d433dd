// Package cache provides the compressed read-through response cache backed
// by redis. Values are jsoniter-encoded and gzip-compressed; keys are the
// base62-encoded hash of the semantically relevant request parameters, which
// doubles as a shareable result handle.
package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"io"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/jxskiss/base62"
	"github.com/klauspost/compress/gzip"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Key derives the deterministic cache key for the given request parameters.
func Key(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return base62.EncodeToString(h[:16])
}

type Store struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewStore(client redis.Cmdable, prefix string, ttl time.Duration) *Store {
	return &Store{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *Store) Get(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return false, err
	}
	defer zr.Close()

	decoded, err := io.ReadAll(zr)
	if err != nil {
		return false, err
	}

	if err = json.Unmarshal(decoded, v); err != nil {
		return false, err
	}

	return true, nil
}

func (s *Store) Put(ctx context.Context, key string, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err = zw.Write(encoded); err != nil {
		return err
	}

	if err = zw.Close(); err != nil {
		return err
	}

	return s.client.Set(ctx, s.prefix+key, buf.Bytes(), s.ttl).Err()
}
