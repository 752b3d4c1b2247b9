// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Downloader stores a Notion-hosted file and returns the URL that output
// should link to. Hosted URLs expire after an hour, so they are not worth
// emitting directly.
type Downloader interface {
	DownloadFile(ctx context.Context, fileURL string, page *Page, blockID string) (string, error)
}

type passthroughDownloader struct{}

func (passthroughDownloader) DownloadFile(_ context.Context, fileURL string, _ *Page, _ string) (string, error) {
	return fileURL, nil
}

// Fetcher retrieves the bytes behind a URL.
type Fetcher interface {
	Download(ctx context.Context, fileURL string) ([]byte, error)
}

// MediaDownloader writes hosted files into Root and links to them under
// URL. File names are prefixed with the start of the block id so files with
// the same name in different blocks do not collide.
type MediaDownloader struct {
	Fetcher Fetcher
	Root    string
	URL     string
	Log     zerolog.Logger
}

// DownloadFile fetches fileURL and stores it.
func (d *MediaDownloader) DownloadFile(ctx context.Context, fileURL string, _ *Page, blockID string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parsing media url: %w", err)
	}
	name, err := url.PathUnescape(path.Base(u.Path))
	if err != nil || name == "." || name == "/" {
		name = "file"
	}
	name = SanitizeFilename(name)
	if prefix := strings.ReplaceAll(blockID, "-", ""); prefix != "" {
		if len(prefix) > 8 {
			prefix = prefix[:8]
		}
		name = prefix + "-" + name
	}

	data, err := d.Fetcher.Download(ctx, fileURL)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", name, err)
	}
	if err := os.MkdirAll(d.Root, 0o755); err != nil {
		return "", fmt.Errorf("creating media directory: %w", err)
	}
	dest := filepath.Join(d.Root, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	d.Log.Debug().Str("file", dest).Int("bytes", len(data)).Msg("downloaded media")

	if d.URL == "" {
		return name, nil
	}
	return strings.TrimSuffix(d.URL, "/") + "/" + name, nil
}

var unsafeFilenameChars = strings.NewReplacer(
	"/", "-", `\`, "-", ":", "-", "*", "-", "?", "", `"`, "", "<", "", ">", "", "|", "-",
)

// SanitizeFilename replaces characters that are not allowed in file names
// on common filesystems and trims surrounding spaces and dots.
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.Replace(name)
	name = strings.Map(func(r rune) rune {
		if r < 0x20 {
			return -1
		}
		return r
	}, name)
	return strings.Trim(name, " .")
}
