// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets finds the Notion access token. The token comes from the
// NOTION_ACCESS_TOKEN environment variable or, failing that, from a file in a
// secrets directory: the filename is the key and the trimmed contents are the
// value.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// TokenEnv is the environment variable holding the access token.
	TokenEnv = "NOTION_ACCESS_TOKEN"
	// TokenFile is the secrets-directory key holding the access token.
	TokenFile = "notion-access-token"
)

// ErrNoToken means neither the environment nor the secrets directory
// provided an access token.
var ErrNoToken = errors.New("no " + TokenEnv + " environment variable or " + TokenFile + " secret is set")

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty map. Unreadable files are logged and skipped.
func Load(dir string, log zerolog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// AccessToken returns the token from getenv, else from dir.
func AccessToken(getenv func(string) string, dir string, log zerolog.Logger) (string, error) {
	if tok := strings.TrimSpace(getenv(TokenEnv)); tok != "" {
		return tok, nil
	}
	s, err := Load(dir, log)
	if err != nil {
		return "", err
	}
	if tok, ok := s[TokenFile]; ok {
		log.Debug().Str("dir", dir).Msg("using access token from secrets directory")
		return tok, nil
	}
	return "", ErrNoToken
}
