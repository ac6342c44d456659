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

package safe

import (
	"runtime/debug"

	"github.com/arcentrix/e2epulse/pkg/log"
)

// Go runs fn in a goroutine and logs a panic instead of crashing the process.
func Go(fn func()) {
	go func() {
		defer Recover("goroutine")
		fn()
	}()
}

// Recover logs a recovered panic with its stack. Call it deferred.
func Recover(where string) {
	if r := recover(); r != nil {
		log.Errorw("panic recovered", "where", where, "panic", r, "stack", string(debug.Stack()))
	}
}
