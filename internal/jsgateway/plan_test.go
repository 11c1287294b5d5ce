package jsgateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jun/drivepicker/internal/picker"
	"github.com/jun/drivepicker/internal/schema"
)

func TestNewPlan(t *testing.T) {
	tests := []struct {
		name string
		args picker.BuildArgs
		want plan
	}{
		{
			name: "single view",
			args: picker.BuildArgs{ViewID: schema.ViewDocs},
			want: plan{Views: []view{{ID: schema.ViewDocs}}},
		},
		{
			name: "mime filter and features",
			args: picker.BuildArgs{
				ViewID:        schema.ViewFolders,
				MimeTypes:     []string{schema.MimeTypeFolder},
				Multiselect:   true,
				SupportDrives: true,
			},
			want: plan{
				Views:    []view{{ID: schema.ViewFolders, MimeTypes: []string{schema.MimeTypeFolder}}},
				Features: []string{FeatureMultiselect, FeatureSupportDrives},
			},
		},
		{
			name: "custom views then upload",
			args: picker.BuildArgs{
				ViewID:         schema.ViewPDFs,
				CustomViews:    []string{schema.MimeTypeForm, schema.MimeTypeDrawing},
				ShowUploadView: true,
			},
			want: plan{Views: []view{
				{ID: schema.ViewPDFs},
				{ID: schema.ViewDocs, MimeTypes: []string{schema.MimeTypeForm}},
				{ID: schema.ViewDocs, MimeTypes: []string{schema.MimeTypeDrawing}},
				{Upload: true},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newPlan(tt.args))
		})
	}
}

func TestDecodeToken(t *testing.T) {
	resp, err := DecodeToken(`{"access_token":"ya29.x","expires_in":3599,"scope":"https://www.googleapis.com/auth/drive.readonly","token_type":"Bearer"}`)
	require.NoError(t, err)
	assert.Equal(t, "ya29.x", resp.AccessToken)
	assert.Equal(t, 3599, resp.ExpiresIn)
	assert.Equal(t, "Bearer", resp.TokenType)

	resp, err = DecodeToken(`{"access_token":"t","expires_in":"120"}`)
	require.NoError(t, err)
	assert.Equal(t, 120, resp.ExpiresIn)

	resp, err = DecodeToken(`{"error":"access_denied","error_description":"denied","error_uri":"https://e"}`)
	require.NoError(t, err)
	assert.Equal(t, "access_denied", resp.Error)
	assert.Equal(t, "denied", resp.ErrorDescription)
	assert.Equal(t, "https://e", resp.ErrorURI)
	assert.Zero(t, resp.ExpiresIn)

	_, err = DecodeToken(`{"expires_in":"soon"}`)
	assert.Error(t, err)
	_, err = DecodeToken(`not json`)
	assert.Error(t, err)
}

func TestDecodeSelection(t *testing.T) {
	res, err := DecodeSelection(`{"action":"picked","docs":[{"id":"f1","name":"Plan","mimeType":"application/vnd.google-apps.document","lastEditedUtc":1767225600000,"sizeBytes":10,"isShared":true}]}`)
	require.NoError(t, err)
	assert.True(t, res.Picked())
	require.Len(t, res.Docs, 1)
	assert.Equal(t, "f1", res.Docs[0].ID)
	assert.Equal(t, schema.MimeTypeDocument, res.Docs[0].MimeType)
	assert.Equal(t, int64(1767225600000), res.Docs[0].LastEditedUTC)
	assert.True(t, res.Docs[0].IsShared)

	res, err = DecodeSelection(`{"action":"loaded"}`)
	require.NoError(t, err)
	assert.Equal(t, schema.ActionLoaded, res.Action)
	assert.False(t, terminal(res.Action))
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig(`{"viewId":"FOLDERS","multiselect":true,"scopes":["drive.file"],"viewMimeTypes":["application/vnd.google-apps.folder"],"supportDrives":true,"showUploadView":true,"customViews":["application/vnd.google-apps.form"]}`)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, schema.ViewFolders, cfg.ViewID)
	assert.True(t, cfg.Multiselect)
	assert.True(t, cfg.SupportDrives)
	assert.True(t, cfg.ShowUploadView)
	assert.Equal(t, []string{"drive.file"}, cfg.Scopes)
	assert.Equal(t, []string{schema.MimeTypeFolder}, cfg.ViewMimeTypes)
	assert.Equal(t, []string{schema.MimeTypeForm}, cfg.CustomViews)

	for _, raw := range []string{"", "null", "undefined"} {
		cfg, err := DecodeConfig(raw)
		require.NoError(t, err)
		assert.Nil(t, cfg)
	}

	_, err = DecodeConfig(`{"multiselect":"yes"}`)
	assert.Error(t, err)
}

func TestTerminal(t *testing.T) {
	assert.True(t, terminal(schema.ActionPicked))
	assert.True(t, terminal(schema.ActionCancel))
	assert.True(t, terminal(schema.ActionError))
	assert.False(t, terminal(schema.ActionLoaded))
	assert.False(t, terminal(""))
}
