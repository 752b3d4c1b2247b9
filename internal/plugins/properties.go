// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plugins

import (
	"context"

	"github.com/pdiddy/n2y/internal/convert"
)

// DownloadFileProperty stores the files of "files" properties with the
// converter's downloader and reports the stored URLs instead of the
// expiring Notion ones.
func DownloadFileProperty() convert.Plugin {
	return convert.Plugin{
		Name: "downloadfileproperty",
		PropertyValues: map[string]convert.PropertyValueClass{
			"files": convert.NewPropertyValueClass("DownloadedFilesPropertyValue", convert.FilesClass, newDownloadedFiles),
		},
	}
}

type downloadedFiles struct {
	*convert.FilesPropertyValue
}

func newDownloadedFiles(ctx context.Context, a convert.PropertyValueArgs) (*downloadedFiles, error) {
	p, err := convert.NewFilesPropertyValue(ctx, a)
	if err != nil {
		return nil, err
	}
	return &downloadedFiles{FilesPropertyValue: p}, nil
}

// ToValue downloads every file and returns where each one was stored.
func (p *downloadedFiles) ToValue(ctx context.Context, _ string, _ []string) (any, error) {
	owner := ""
	if p.Page != nil {
		owner = p.Page.ID
	}
	urls := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		u, err := p.Conv.DownloadFile(ctx, f.URL, p.Page, owner)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}
