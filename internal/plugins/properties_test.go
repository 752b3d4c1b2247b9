// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugins

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/n2y/internal/convert"
	"github.com/pdiddy/n2y/internal/notion"
	nt "github.com/pdiddy/n2y/internal/notion/notiontest"
)

func TestDownloadFileProperty(t *testing.T) {
	const fileURL = "https://files.notion.so/secure/report.pdf?X-Amz-Signature=abc"
	for _, tt := range []struct {
		name     string
		plugins  []string
		want     func(prefix string) []string
		download int
	}{
		{
			name: "built-in value keeps the Notion url",
			want: func(string) []string { return []string{fileURL} },
		},
		{
			name:     "downloaded",
			plugins:  []string{"downloadfileproperty"},
			want:     func(prefix string) []string { return []string{"/media/" + prefix + "-report.pdf"} },
			download: 1,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			api := nt.NewFake()
			root := t.TempDir()
			conv := convert.New(api,
				convert.WithLogger(zerolog.New(&bytes.Buffer{})),
				convert.WithDownloader(&convert.MediaDownloader{Fetcher: api, Root: root, URL: "/media"}),
			)
			ps, err := Lookup(tt.plugins)
			require.NoError(t, err)
			require.NoError(t, conv.LoadPlugins(ps...))

			raw := nt.Page("Doc", map[string]notion.PropertyValue{
				"Attachments": nt.PropertyValue("files", []notion.File{nt.HostedFile(fileURL)}),
			})
			api.AddPage(raw)
			p, err := conv.GetPage(ctx, raw.ID)
			require.NoError(t, err)

			values, err := p.PropertiesToValues(ctx, "gfm", nil)
			require.NoError(t, err)
			prefix := strings.ReplaceAll(raw.ID, "-", "")[:8]
			assert.Equal(t, tt.want(prefix), values["Attachments"])
			assert.Equal(t, tt.download, api.Calls["Download"])

			if tt.download > 0 {
				data, err := os.ReadFile(filepath.Join(root, prefix+"-report.pdf"))
				require.NoError(t, err)
				assert.Equal(t, "content of "+fileURL, string(data))
			}
		})
	}
}
