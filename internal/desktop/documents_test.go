package desktop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/drive/v3"

	"github.com/jun/drivepicker/internal/schema"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		view   schema.ViewID
		mimes  []string
		custom []string
		want   string
	}{
		{
			name: "docs view excludes folders",
			view: schema.ViewDocs,
			want: "mimeType != 'application/vnd.google-apps.folder' and trashed = false",
		},
		{
			name: "folders view",
			view: schema.ViewFolders,
			want: "mimeType = 'application/vnd.google-apps.folder' and trashed = false",
		},
		{
			name: "pdfs view",
			view: schema.ViewPDFs,
			want: "mimeType = 'application/pdf' and trashed = false",
		},
		{
			name:  "mime filter narrows the view",
			view:  schema.ViewDocs,
			mimes: []string{schema.MimeTypeDocument, schema.MimeTypeSpreadsheet},
			want: "mimeType != 'application/vnd.google-apps.folder' and " +
				"(mimeType = 'application/vnd.google-apps.document' or mimeType = 'application/vnd.google-apps.spreadsheet') and trashed = false",
		},
		{
			name:   "custom views widen the result",
			view:   schema.ViewPDFs,
			custom: []string{schema.MimeTypeForm},
			want:   "((mimeType = 'application/pdf') or (mimeType = 'application/vnd.google-apps.form')) and trashed = false",
		},
		{
			name: "unknown view falls back to docs",
			view: "BOGUS",
			want: "mimeType != 'application/vnd.google-apps.folder' and trashed = false",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildQuery(tt.view, tt.mimes, tt.custom))
		})
	}
}

func TestDocType(t *testing.T) {
	tests := map[string]string{
		schema.MimeTypeFolder:       "folder",
		schema.MimeTypeDocument:     "document",
		schema.MimeTypeSpreadsheet:  "spreadsheet",
		schema.MimeTypePresentation: "presentation",
		"image/png":                 "photo",
		"video/mp4":                 "video",
		"application/pdf":           "file",
	}
	for mime, want := range tests {
		if got := docType(mime); got != want {
			t.Errorf("docType(%q) = %q, want %q", mime, got, want)
		}
	}
}

func TestToDocument(t *testing.T) {
	modified := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &drive.File{
		Id:             "file-1",
		Name:           "Budget",
		MimeType:       schema.MimeTypeSpreadsheet,
		Description:    "Q1 numbers",
		IconLink:       "https://icons.example/sheet.png",
		WebViewLink:    "https://docs.google.com/spreadsheets/d/file-1",
		WebContentLink: "https://drive.google.com/uc?id=file-1",
		ModifiedTime:   modified.Format(time.RFC3339),
		Size:           2048,
		Shared:         true,
	}

	doc := toDocument(f)

	assert.Equal(t, "file-1", doc.ID)
	assert.Equal(t, "Budget", doc.Name)
	assert.Equal(t, schema.MimeTypeSpreadsheet, doc.MimeType)
	assert.Equal(t, "Q1 numbers", doc.Description)
	assert.Equal(t, "https://icons.example/sheet.png", doc.IconURL)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/file-1", doc.URL)
	assert.Equal(t, "https://drive.google.com/uc?id=file-1", doc.DownloadURL)
	assert.Equal(t, "https://drive.google.com/file/d/file-1/preview", doc.EmbedURL)
	assert.Equal(t, modified.UnixMilli(), doc.LastEditedUTC)
	assert.Equal(t, int64(2048), doc.SizeBytes)
	assert.True(t, doc.IsShared)
	assert.True(t, doc.DriveSuccess)
	assert.Equal(t, "spreadsheet", doc.Type)
	assert.Equal(t, "docs", doc.ServiceID)
}

func TestToDocument_BadTimestamp(t *testing.T) {
	doc := toDocument(&drive.File{Id: "x", ModifiedTime: "yesterday"})
	assert.Zero(t, doc.LastEditedUTC)
}
