// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps Notion API responses in a SQLite database so repeated
// exports can run without the network. Entries never expire; delete the
// database file or call Clear to refresh.
package cache

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// EnvVar names the environment variable holding the cache path.
const EnvVar = "N2Y_CACHE"

// Transport is an http.RoundTripper that answers from the cache when it
// can and stores successful responses otherwise. Requests are keyed by
// method, URL and body.
type Transport struct {
	db   *sql.DB
	next http.RoundTripper
	log  zerolog.Logger
}

// Open opens or creates the cache database at path. A nil next uses
// http.DefaultTransport.
func Open(path string, next http.RoundTripper, log zerolog.Logger) (*Transport, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		method TEXT NOT NULL,
		url TEXT NOT NULL,
		status INTEGER NOT NULL,
		header TEXT NOT NULL,
		body BLOB NOT NULL,
		stored_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{db: db, next: next, log: log}, nil
}

// Close releases the database connection.
func (t *Transport) Close() error {
	return t.db.Close()
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		body = b
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	key := requestKey(req.Method, req.URL.String(), body)

	resp, err := t.lookup(req, key)
	if err != nil {
		t.log.Warn().Err(err).Str("url", req.URL.String()).Msg("cache lookup failed, going to the network")
	} else if resp != nil {
		t.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("cache hit")
		return resp, nil
	}

	resp, err = t.next.RoundTrip(req)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, err
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if err := t.store(req, key, resp, data); err != nil {
		t.log.Warn().Err(err).Str("url", req.URL.String()).Msg("could not cache response")
	}
	return resp, nil
}

func requestKey(method, url string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method + " " + url + "\n"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func (t *Transport) lookup(req *http.Request, key string) (*http.Response, error) {
	var (
		status int
		header string
		body   []byte
	)
	err := t.db.QueryRowContext(req.Context(),
		`SELECT status, header, body FROM responses WHERE key = ?`, key,
	).Scan(&status, &header, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	h := http.Header{}
	if err := json.Unmarshal([]byte(header), &h); err != nil {
		return nil, fmt.Errorf("decoding cached header: %w", err)
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

func (t *Transport) store(req *http.Request, key string, resp *http.Response, body []byte) error {
	header, err := json.Marshal(resp.Header)
	if err != nil {
		return err
	}
	_, err = t.db.ExecContext(req.Context(),
		`INSERT OR REPLACE INTO responses (key, method, url, status, header, body, stored_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key, req.Method, req.URL.String(), resp.StatusCode, string(header), body, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Len returns the number of cached responses.
func (t *Transport) Len() (int, error) {
	var n int
	if err := t.db.QueryRow(`SELECT count(*) FROM responses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cached responses: %w", err)
	}
	return n, nil
}

// Clear removes every cached response.
func (t *Transport) Clear() error {
	if _, err := t.db.Exec(`DELETE FROM responses`); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}
