package desktop

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"

	"github.com/jun/drivepicker/internal/schema"
)

const (
	mimePDF   = "application/pdf"
	serviceID = "docs"
)

// viewClauses maps each picker view onto a Drive search clause.
var viewClauses = map[schema.ViewID]string{
	schema.ViewDocs:                fmt.Sprintf("mimeType != '%s'", schema.MimeTypeFolder),
	schema.ViewDocsImages:          "mimeType contains 'image/'",
	schema.ViewDocsImagesAndVideos: "(mimeType contains 'image/' or mimeType contains 'video/')",
	schema.ViewDocsVideos:          "mimeType contains 'video/'",
	schema.ViewDocuments:           fmt.Sprintf("mimeType = '%s'", schema.MimeTypeDocument),
	schema.ViewDrawings:            fmt.Sprintf("mimeType = '%s'", schema.MimeTypeDrawing),
	schema.ViewFolders:             fmt.Sprintf("mimeType = '%s'", schema.MimeTypeFolder),
	schema.ViewForms:               fmt.Sprintf("mimeType = '%s'", schema.MimeTypeForm),
	schema.ViewPDFs:                fmt.Sprintf("mimeType = '%s'", mimePDF),
}

// buildQuery turns the view, its mime filter and any custom views into a
// Drive search query. Custom views widen the result set, the way extra tabs
// would in the browser picker.
func buildQuery(view schema.ViewID, mimeTypes, customViews []string) string {
	clause, ok := viewClauses[view]
	if !ok {
		clause = viewClauses[schema.ViewDocs]
	}
	if len(mimeTypes) > 0 {
		clause = fmt.Sprintf("%s and %s", clause, mimeClause(mimeTypes))
	}
	if len(customViews) > 0 {
		clause = fmt.Sprintf("((%s) or %s)", clause, mimeClause(customViews))
	}
	return clause + " and trashed = false"
}

func mimeClause(mimeTypes []string) string {
	parts := make([]string, 0, len(mimeTypes))
	for _, m := range mimeTypes {
		parts = append(parts, fmt.Sprintf("mimeType = '%s'", strings.ReplaceAll(m, "'", `\'`)))
	}
	return "(" + strings.Join(parts, " or ") + ")"
}

// toDocument maps a Drive file onto the picker's document record.
func toDocument(f *drive.File) schema.Document {
	var edited int64
	if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
		edited = t.UnixMilli()
	}
	return schema.Document{
		DownloadURL:   f.WebContentLink,
		Description:   f.Description,
		DriveSuccess:  true,
		EmbedURL:      fmt.Sprintf("https://drive.google.com/file/d/%s/preview", f.Id),
		IconURL:       f.IconLink,
		ID:            f.Id,
		IsShared:      f.Shared,
		LastEditedUTC: edited,
		MimeType:      f.MimeType,
		Name:          f.Name,
		ServiceID:     serviceID,
		SizeBytes:     f.Size,
		Type:          docType(f.MimeType),
		URL:           f.WebViewLink,
	}
}

func docType(mimeType string) string {
	switch {
	case mimeType == schema.MimeTypeFolder:
		return "folder"
	case mimeType == schema.MimeTypeDocument:
		return "document"
	case mimeType == schema.MimeTypeSpreadsheet:
		return "spreadsheet"
	case mimeType == schema.MimeTypePresentation:
		return "presentation"
	case mimeType == schema.MimeTypeDrawing:
		return "drawing"
	case mimeType == schema.MimeTypeForm:
		return "form"
	case strings.HasPrefix(mimeType, "image/"):
		return "photo"
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	default:
		return "file"
	}
}
