// Package jsgateway implements picker.Gateway on top of the Google Identity
// Services and Google Picker JavaScript libraries. The browser bindings build
// only for js/wasm; the decoding and planning helpers build everywhere.
package jsgateway

import (
	"encoding/json"
	"fmt"

	"github.com/jun/drivepicker/internal/picker"
	"github.com/jun/drivepicker/internal/schema"
)

// Picker feature names understood by google.picker.Feature.
const (
	FeatureMultiselect   = "MULTISELECT_ENABLED"
	FeatureSupportDrives = "SUPPORT_DRIVES"
)

type view struct {
	ID        schema.ViewID
	MimeTypes []string
	Upload    bool
}

// plan is the sequence of PickerBuilder calls for a set of BuildArgs.
type plan struct {
	Views    []view
	Features []string
}

func newPlan(args picker.BuildArgs) plan {
	p := plan{Views: []view{{ID: args.ViewID, MimeTypes: args.MimeTypes}}}
	for _, mime := range args.CustomViews {
		p.Views = append(p.Views, view{ID: schema.ViewDocs, MimeTypes: []string{mime}})
	}
	if args.ShowUploadView {
		p.Views = append(p.Views, view{Upload: true})
	}
	if args.Multiselect {
		p.Features = append(p.Features, FeatureMultiselect)
	}
	if args.SupportDrives {
		p.Features = append(p.Features, FeatureSupportDrives)
	}
	return p
}

// DecodeToken parses a JSON-encoded token response. expires_in may arrive
// as a number or a numeric string.
func DecodeToken(raw string) (picker.TokenResponse, error) {
	var v struct {
		picker.TokenResponse
		ExpiresIn json.Number `json:"expires_in"`
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return picker.TokenResponse{}, fmt.Errorf("decode token response: %w", err)
	}
	resp := v.TokenResponse
	if v.ExpiresIn != "" {
		n, err := v.ExpiresIn.Int64()
		if err != nil {
			return picker.TokenResponse{}, fmt.Errorf("decode token response: expires_in: %w", err)
		}
		resp.ExpiresIn = int(n)
	}
	return resp, nil
}

// DecodeSelection parses the JSON form of a picker callback payload.
func DecodeSelection(raw string) (schema.SelectionResult, error) {
	var res schema.SelectionResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return schema.SelectionResult{}, fmt.Errorf("decode picker result: %w", err)
	}
	return res, nil
}

// DecodeConfig parses the JSON form of the config object handed to
// createGooglePicker. Functions do not survive JSON, so the picker callback
// is attached by the caller. Empty input yields nil.
func DecodeConfig(raw string) (*schema.Config, error) {
	if raw == "" || raw == "null" || raw == "undefined" {
		return nil, nil
	}
	var cfg schema.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("decode picker config: %w", err)
	}
	return &cfg, nil
}

// terminal reports whether action ends a picker session.
func terminal(action string) bool {
	switch action {
	case schema.ActionPicked, schema.ActionCancel, schema.ActionError:
		return true
	}
	return false
}
