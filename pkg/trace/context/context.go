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

// Package context keeps a per-goroutine context so that code without a ctx
// parameter (the zap core in pkg/log) can still find the active span.
package context

import (
	"context"
	"sync"

	"github.com/timandy/routine"
	"go.opentelemetry.io/otel/trace"
)

var bound sync.Map // goid -> context.Context

// Current returns the context bound to the calling goroutine, or nil.
func Current() context.Context {
	if v, ok := bound.Load(routine.Goid()); ok {
		return v.(context.Context)
	}
	return nil
}

// Bind attaches ctx to the calling goroutine and returns a func restoring the
// previous binding. Call it with defer on the same goroutine.
func Bind(ctx context.Context) (restore func()) {
	goid := routine.Goid()
	prev, had := bound.Load(goid)
	bound.Store(goid, ctx)
	return func() {
		if had {
			bound.Store(goid, prev)
			return
		}
		bound.Delete(goid)
	}
}

// Run calls fn with ctx bound for its duration.
func Run(ctx context.Context, fn func(ctx context.Context)) {
	defer Bind(ctx)()
	fn(ctx)
}

// WithSpan returns ctx, or ctx carrying the goroutine's span when ctx has no
// valid span of its own.
func WithSpan(ctx context.Context) context.Context {
	if trace.SpanContextFromContext(ctx).IsValid() {
		return ctx
	}
	cur := Current()
	if cur == nil {
		return ctx
	}
	span := trace.SpanFromContext(cur)
	if !span.SpanContext().IsValid() {
		return ctx
	}
	return trace.ContextWithSpan(ctx, span)
}
