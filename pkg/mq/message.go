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

package mq

import "context"

// Message is the broker-neutral view of a delivered or outgoing message.
type Message struct {
	Topic   string
	Key     string
	Value   []byte
	Headers map[string]string
}

// Header returns the header value for key, or "".
func (m *Message) Header(key string) string {
	if m == nil || m.Headers == nil {
		return ""
	}
	return m.Headers[key]
}

// Handler processes one message. Returning an error asks the backend to redeliver
// when it supports that.
type Handler func(ctx context.Context, msg *Message) error
