// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pdiddy/n2y/internal/cache"
	"github.com/pdiddy/n2y/internal/convert"
	"github.com/pdiddy/n2y/internal/notion"
	"github.com/pdiddy/n2y/internal/secrets"
	"github.com/pdiddy/n2y/pkg/types"
)

const defaultTimeout = 60 * time.Second

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newConverter builds the Notion client and converter for one command. The
// returned closer releases the response cache, when one is in use.
func newConverter(cfg types.Config) (*convert.Converter, io.Closer, error) {
	token, err := secrets.AccessToken(os.Getenv, secretsDir, log)
	if err != nil {
		return nil, nil, err
	}

	hc := &http.Client{Timeout: defaultTimeout}
	var closer io.Closer = nopCloser{}
	if path := os.Getenv(cache.EnvVar); path != "" {
		tr, err := cache.Open(path, nil, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", path).Msg("using response cache")
		hc.Transport = tr
		closer = tr
	}

	client := notion.NewClient(token, notion.WithHTTPClient(hc), notion.WithLogger(log))
	opts := []convert.Option{convert.WithLogger(log)}
	if cfg.MediaRoot != "" {
		opts = append(opts, convert.WithDownloader(&convert.MediaDownloader{
			Fetcher: client,
			Root:    cfg.MediaRoot,
			URL:     cfg.MediaURL,
			Log:     log,
		}))
	}
	return convert.New(client, opts...), closer, nil
}
