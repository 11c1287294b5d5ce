// Package schema defines the credential and configuration records accepted by
// the picker loader, together with their validation rules and defaults.
package schema

import "strings"

// OAuth scopes the picker may request.
const (
	ScopeDrive                 = "https://www.googleapis.com/auth/drive"
	ScopeDriveReadonly         = "https://www.googleapis.com/auth/drive.readonly"
	ScopeDriveAppdata          = "https://www.googleapis.com/auth/drive.appdata"
	ScopeDriveAppdataReadonly  = "https://www.googleapis.com/auth/drive.appdata.readonly"
	ScopeDriveFile             = "https://www.googleapis.com/auth/drive.file"
	ScopeDriveFileReadonly     = "https://www.googleapis.com/auth/drive.file.readonly"
	ScopeDriveMetadata         = "https://www.googleapis.com/auth/drive.metadata"
	ScopeDriveMetadataReadonly = "https://www.googleapis.com/auth/drive.metadata.readonly"
	ScopeDrivePhotos           = "https://www.googleapis.com/auth/drive.photos"
	ScopeDrivePhotosReadonly   = "https://www.googleapis.com/auth/drive.photos.readonly"
	ScopeSpreadsheets          = "https://www.googleapis.com/auth/spreadsheets"
	ScopeSpreadsheetsReadonly  = "https://www.googleapis.com/auth/spreadsheets.readonly"
	ScopeDocuments             = "https://www.googleapis.com/auth/documents"
	ScopeDocumentsReadonly     = "https://www.googleapis.com/auth/documents.readonly"
	ScopePresentations         = "https://www.googleapis.com/auth/presentations"
	ScopePresentationsReadonly = "https://www.googleapis.com/auth/presentations.readonly"
	scopePrefix                = "https://www.googleapis.com/auth/"
)

// DefaultScopes is used when a configuration names no scopes.
var DefaultScopes = []string{ScopeDriveReadonly}

var knownScopes = map[string]bool{
	ScopeDrive:                 true,
	ScopeDriveReadonly:         true,
	ScopeDriveAppdata:          true,
	ScopeDriveAppdataReadonly:  true,
	ScopeDriveFile:             true,
	ScopeDriveFileReadonly:     true,
	ScopeDriveMetadata:         true,
	ScopeDriveMetadataReadonly: true,
	ScopeDrivePhotos:           true,
	ScopeDrivePhotosReadonly:   true,
	ScopeSpreadsheets:          true,
	ScopeSpreadsheetsReadonly:  true,
	ScopeDocuments:             true,
	ScopeDocumentsReadonly:     true,
	ScopePresentations:         true,
	ScopePresentationsReadonly: true,
}

// ExpandScope turns a short scope name such as "drive.readonly" into its
// full URL form. Full URLs are returned unchanged.
func ExpandScope(scope string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" || strings.Contains(scope, "://") {
		return scope
	}
	return scopePrefix + scope
}

// ViewID names one of the picker's built-in views.
type ViewID string

// Built-in picker views.
const (
	ViewDocs                ViewID = "DOCS"
	ViewDocsImages          ViewID = "DOCS_IMAGES"
	ViewDocsImagesAndVideos ViewID = "DOCS_IMAGES_AND_VIDEOS"
	ViewDocsVideos          ViewID = "DOCS_VIDEOS"
	ViewDocuments           ViewID = "DOCUMENTS"
	ViewDrawings            ViewID = "DRAWINGS"
	ViewFolders             ViewID = "FOLDERS"
	ViewForms               ViewID = "FORMS"
	ViewPDFs                ViewID = "PDFS"
)

// ViewIDs lists every supported view in declaration order.
var ViewIDs = []ViewID{
	ViewDocs,
	ViewDocsImages,
	ViewDocsImagesAndVideos,
	ViewDocsVideos,
	ViewDocuments,
	ViewDrawings,
	ViewFolders,
	ViewForms,
	ViewPDFs,
}

// Valid reports whether v is a supported view.
func (v ViewID) Valid() bool {
	for _, known := range ViewIDs {
		if v == known {
			return true
		}
	}
	return false
}

func (v ViewID) String() string { return string(v) }

// GoogleAppsMimePrefix prefixes every mime type accepted for custom views
// and view filters.
const GoogleAppsMimePrefix = "application/vnd.google-apps."

// Google Apps mime types.
const (
	MimeTypeDocument     = GoogleAppsMimePrefix + "document"
	MimeTypeDrawing      = GoogleAppsMimePrefix + "drawing"
	MimeTypeFolder       = GoogleAppsMimePrefix + "folder"
	MimeTypeForm         = GoogleAppsMimePrefix + "form"
	MimeTypePresentation = GoogleAppsMimePrefix + "presentation"
	MimeTypeSpreadsheet  = GoogleAppsMimePrefix + "spreadsheet"
	MimeTypeShortcut     = GoogleAppsMimePrefix + "shortcut"
)

// Credentials identifies the integrating application.
type Credentials struct {
	ClientID     string `json:"clientId" validate:"required"`
	DeveloperKey string `json:"developerKey" validate:"required"`
	AppID        string `json:"appId" validate:"required"`
}

// Config tunes how the picker is built. The zero value is valid and means
// every default.
type Config struct {
	ShowUploadView bool     `json:"showUploadView"`
	Multiselect    bool     `json:"multiselect"`
	CustomViews    []string `json:"customViews,omitempty" validate:"omitempty,dive,startswith=application/vnd.google-apps."`
	SupportDrives  bool     `json:"supportDrives"`
	ViewMimeTypes  []string `json:"viewMimeTypes,omitempty" validate:"omitempty,dive,startswith=application/vnd.google-apps."`
	Scopes         []string `json:"scopes,omitempty" validate:"omitempty,dive,gscope"`
	ViewID         ViewID   `json:"viewId,omitempty" validate:"viewid"`

	// PickerCallback receives the widget's selection events.
	PickerCallback PickerCallback `json:"-"`
}
