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

package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ResponseCode pairs a business code with its message and HTTP status.
type ResponseCode struct {
	Code   int
	Msg    string
	Status int
}

var (
	Success                       = ResponseCode{Code: 0, Msg: "success", Status: http.StatusOK}
	Accepted                      = ResponseCode{Code: 0, Msg: "accepted", Status: http.StatusAccepted}
	Created                       = ResponseCode{Code: 0, Msg: "created", Status: http.StatusCreated}
	Failed                        = ResponseCode{Code: 10000, Msg: "internal error", Status: http.StatusInternalServerError}
	BadRequest                    = ResponseCode{Code: 10001, Msg: "bad request", Status: http.StatusBadRequest}
	RequestParameterParsingFailed = ResponseCode{Code: 10002, Msg: "request parameter parsing failed", Status: http.StatusBadRequest}
	NotFound                      = ResponseCode{Code: 10004, Msg: "resource not found", Status: http.StatusNotFound}
	Conflict                      = ResponseCode{Code: 10009, Msg: "conflict", Status: http.StatusConflict}
	BadGateway                    = ResponseCode{Code: 10010, Msg: "upstream service error", Status: http.StatusBadGateway}
)

// Response is the JSON envelope of every API response.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
	Path string `json:"path,omitempty"`
}

// WithRepErrMsg writes an error envelope with rc's HTTP status.
func WithRepErrMsg(c *fiber.Ctx, rc ResponseCode, msg, path string) error {
	if msg == "" {
		msg = rc.Msg
	}
	return c.Status(rc.Status).JSON(Response{Code: rc.Code, Msg: msg, Path: path})
}

// WithRepData writes a success envelope.
func WithRepData(c *fiber.Ctx, rc ResponseCode, data any) error {
	return c.Status(rc.Status).JSON(Response{Code: rc.Code, Msg: rc.Msg, Data: data})
}
