package schema

// Actions reported by the picker widget.
const (
	ActionPicked = "picked"
	ActionCancel = "cancel"
	ActionLoaded = "loaded"
	ActionError  = "error"
)

// Document is one file in a selection result.
type Document struct {
	DownloadURL    string `json:"downloadUrl,omitempty"`
	UploadState    string `json:"uploadState,omitempty"`
	Description    string `json:"description"`
	DriveSuccess   bool   `json:"driveSuccess"`
	EmbedURL       string `json:"embedUrl"`
	IconURL        string `json:"iconUrl"`
	ID             string `json:"id"`
	IsShared       bool   `json:"isShared"`
	LastEditedUTC  int64  `json:"lastEditedUtc"`
	MimeType       string `json:"mimeType"`
	Name           string `json:"name"`
	Rotation       int    `json:"rotation"`
	RotationDegree int    `json:"rotationDegree"`
	ServiceID      string `json:"serviceId"`
	SizeBytes      int64  `json:"sizeBytes"`
	Type           string `json:"type"`
	URL            string `json:"url"`
}

// SelectionResult is what the picker widget delivers to a PickerCallback.
type SelectionResult struct {
	Action string     `json:"action"`
	Docs   []Document `json:"docs"`
}

// Picked reports whether the result carries a completed selection.
func (r SelectionResult) Picked() bool {
	return r.Action == ActionPicked
}

// PickerCallback handles selection events from the picker widget.
type PickerCallback func(SelectionResult)
