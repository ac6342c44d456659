// Copyright 2025 Arcentra Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/arcentrix/e2epulse/pkg/log"
	"github.com/bytedance/sonic"
)

// KeyFunc builds a cache key from query parameters.
type KeyFunc func(params ...any) string

// QueryFunc loads the value from the source of record.
type QueryFunc[T any] func(ctx context.Context) (T, error)

type CachedQueryOption[T any] func(*CachedQuery[T])

func WithTTL[T any](ttl time.Duration) CachedQueryOption[T] {
	return func(q *CachedQuery[T]) { q.ttl = ttl }
}

func WithLogPrefix[T any](prefix string) CachedQueryOption[T] {
	return func(q *CachedQuery[T]) { q.logPrefix = prefix }
}

// CachedQuery is a read-through cache over a single query. Values are stored
// as JSON. Cache failures never fail the read.
type CachedQuery[T any] struct {
	cache     ICache
	keyFunc   KeyFunc
	queryFunc QueryFunc[T]
	ttl       time.Duration
	logPrefix string
}

func NewCachedQuery[T any](c ICache, keyFunc KeyFunc, queryFunc QueryFunc[T], opts ...CachedQueryOption[T]) *CachedQuery[T] {
	q := &CachedQuery[T]{cache: c, keyFunc: keyFunc, queryFunc: queryFunc, ttl: 5 * time.Minute}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *CachedQuery[T]) Get(ctx context.Context, params ...any) (T, error) {
	var zero T
	if q.cache == nil {
		return q.queryFunc(ctx)
	}
	key := q.keyFunc(params...)

	raw, err := q.cache.Get(ctx, key)
	if err == nil {
		var v T
		if uerr := sonic.Unmarshal(raw, &v); uerr == nil {
			return v, nil
		}
		log.Warnw(q.logPrefix+" drop undecodable cache entry", "key", key)
	} else if !errors.Is(err, ErrCacheMiss) {
		log.Warnw(q.logPrefix+" cache get failed", "key", key, "error", err)
	}

	v, err := q.queryFunc(ctx)
	if err != nil {
		return zero, err
	}
	if b, merr := sonic.Marshal(v); merr == nil {
		if serr := q.cache.Set(ctx, key, b, q.ttl); serr != nil {
			log.Warnw(q.logPrefix+" cache set failed", "key", key, "error", serr)
		}
	}
	return v, nil
}

func (q *CachedQuery[T]) Invalidate(ctx context.Context, params ...any) error {
	if q.cache == nil {
		return nil
	}
	return q.cache.Del(ctx, q.keyFunc(params...))
}
