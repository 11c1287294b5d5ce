package desktop

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jun/drivepicker/internal/schema"
)

const (
	listFields   = "nextPageToken, files(id, name, mimeType, description, iconLink, webViewLink, webContentLink, modifiedTime, size, shared)"
	listPageSize = 100
)

// ListRequest describes which files the picker should offer.
type ListRequest struct {
	Query         string
	SupportDrives bool
	Limit         int
}

// FileLister fetches the documents the picker offers.
type FileLister interface {
	ListDocuments(ctx context.Context, token, developerKey string, req ListRequest) ([]schema.Document, error)
}

// DriveLister lists files through the Drive v3 API.
type DriveLister struct {
	// HTTPClient is the base transport; nil means http.DefaultClient.
	HTTPClient *http.Client
	// Endpoint overrides the Drive API base URL.
	Endpoint string
}

var errLimitReached = errors.New("listing limit reached")

// ListDocuments runs req.Query with the given bearer token. The developer key
// is sent as the request's API key.
func (d *DriveLister) ListDocuments(ctx context.Context, token, developerKey string, req ListRequest) ([]schema.Document, error) {
	base := d.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})

	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}
	if d.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(d.Endpoint))
	}
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create drive service")
	}

	call := srv.Files.List().
		Q(req.Query).
		OrderBy("modifiedTime desc").
		PageSize(listPageSize).
		Fields(googleapi.Field(listFields))
	if req.SupportDrives {
		call = call.SupportsAllDrives(true).IncludeItemsFromAllDrives(true)
	}
	if developerKey != "" {
		call.Header().Set("X-Goog-Api-Key", developerKey)
	}

	docs := []schema.Document{}
	err = call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			docs = append(docs, toDocument(f))
			if req.Limit > 0 && len(docs) >= req.Limit {
				return errLimitReached
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return nil, errors.Wrapf(err, "list files matching %q", req.Query)
	}
	return docs, nil
}
