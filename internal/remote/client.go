/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package remote is the HTTP client for the card configuration API. It
// implements the persist store interfaces against a running server.
package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cardcomposer/internal/persist"
	"cardcomposer/internal/scene"
)

// Client is a minimal HTTP client for the card config API.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// Option tweaks client construction.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithTLSInsecure disables certificate verification. Dev servers only.
func WithTLSInsecure() Option {
	return func(c *Client) {
		c.client.Transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}
}

// NewClient creates a new API client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// StatusError carries a non-2xx response status.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return persist.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Method: method, Path: u.Path}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

func configPath(eventID, cardType string) string {
	if eventID == "" {
		eventID = "default"
	}
	return fmt.Sprintf("/api/events/%s/cards/%s", url.PathEscape(eventID), url.PathEscape(cardType))
}

// LoadConfig fetches the stored card configuration for (eventID, cardType).
// A 404 maps to persist.ErrNotFound.
func (c *Client) LoadConfig(ctx context.Context, eventID, cardType string) (scene.DTO, error) {
	var dto scene.DTO
	if err := c.do(ctx, http.MethodGet, configPath(eventID, cardType), "", nil, &dto); err != nil {
		return scene.DTO{}, err
	}
	return dto, nil
}

// SaveConfig replaces the stored card configuration for (eventID, cardType).
func (c *Client) SaveConfig(ctx context.Context, eventID, cardType string, dto scene.DTO) error {
	data, err := json.Marshal(dto)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, configPath(eventID, cardType), "application/json", bytes.NewReader(data), nil)
}

// assetResponse matches the server response for an uploaded asset.
type assetResponse struct {
	URL string `json:"url"`
}

// UploadAsset posts raw image bytes and returns the durable URL the server
// assigned to them.
func (c *Client) UploadAsset(ctx context.Context, data []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	var out assetResponse
	if err := c.do(ctx, http.MethodPost, "/api/assets", mimeType, bytes.NewReader(data), &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("asset upload: empty url in response")
	}
	return out.URL, nil
}

var (
	_ persist.ConfigStore = (*Client)(nil)
	_ persist.AssetStore  = (*Client)(nil)
)
