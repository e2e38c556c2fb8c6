/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenSignVerifyRoundTrip(t *testing.T) {
	tok, err := signToken("s3cret", "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	sub, err := verifyToken("s3cret", tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "alice" {
		t.Fatalf("subject = %q", sub)
	}
}

func TestTokenRejectsTamperAndExpiry(t *testing.T) {
	tok, err := signToken("s3cret", "alice", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifyToken("other", tok); err == nil {
		t.Fatalf("wrong secret must fail")
	}
	if _, err := verifyToken("s3cret", tok+"x"); err == nil {
		t.Fatalf("tampered signature must fail")
	}
	exp, err := signToken("s3cret", "alice", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}
	if _, err := verifyToken("s3cret", exp); err == nil {
		t.Fatalf("expired token must fail")
	}
}

func TestWithAuthRequiresBearer(t *testing.T) {
	called := false
	h := withAuth("s3cret", func(w http.ResponseWriter, r *http.Request, sub string) { called = true })
	req := httptest.NewRequest(http.MethodGet, "/api/events/e/cards/t", nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: called=%v code=%d", called, rec.Code)
	}

	tok, _ := signToken("s3cret", "bob", time.Now().Add(time.Hour))
	req = httptest.NewRequest(http.MethodGet, "/api/events/e/cards/t", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h(rec, req)
	if !called {
		t.Fatalf("valid token must pass through")
	}
}

func TestParseCardPath(t *testing.T) {
	cases := []struct {
		path      string
		event, ct string
		ok        bool
	}{
		{"/api/events/ev1/cards/speaker", "ev1", "speaker", true},
		{"/api/events/default/cards/attendee", "default", "attendee", true},
		{"/api/events/ev1/cards", "", "", false},
		{"/api/events/ev1/cards/speaker/extra", "", "", false},
		{"/api/projects/1/index", "", "", false},
	}
	for _, c := range cases {
		ev, ct, ok := parseCardPath(c.path)
		if ok != c.ok || ev != c.event || ct != c.ct {
			t.Fatalf("parseCardPath(%q) = (%q,%q,%v), want (%q,%q,%v)", c.path, ev, ct, ok, c.event, c.ct, c.ok)
		}
	}
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_init.sql")
	if err != nil || v != 1 {
		t.Fatalf("parseVersion: %d %v", v, err)
	}
	if _, err := parseVersion("init.sql"); err == nil {
		t.Fatalf("non-numeric prefix must fail")
	}
}

func TestExtFor(t *testing.T) {
	if e := extFor("image/png"); e != ".png" {
		t.Fatalf("png ext = %q", e)
	}
	if e := extFor("image/jpeg"); e != ".jpg" {
		t.Fatalf("jpeg ext = %q", e)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("no embedded migrations")
	}
}
