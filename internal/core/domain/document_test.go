package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataKeys_FixedSchema(t *testing.T) {
	keys := MetadataKeys()

	assert.Equal(t, []string{
		"source", "content_type", "title", "description", "language", "doc_name", "start_index",
	}, keys)
}

func TestMetadata_Map(t *testing.T) {
	m := Metadata{
		Source:      "https://example.com/a",
		ContentType: "text/html",
		Title:       "A",
		Description: "about a",
		Language:    "de",
		DocName:     "stack guide",
		StartIndex:  1200,
	}

	got := m.Map()

	require.Len(t, got, len(MetadataKeys()))
	for _, k := range MetadataKeys() {
		assert.Contains(t, got, k)
	}
	assert.Equal(t, "https://example.com/a", got[MetaSource])
	assert.Equal(t, "text/html", got[MetaContentType])
	assert.Equal(t, "stack guide", got[MetaDocName])
	assert.Equal(t, 1200, got[MetaStartIndex])
}

func TestMetadata_MapZeroValue(t *testing.T) {
	got := Metadata{}.Map()

	assert.Len(t, got, 7)
	assert.Equal(t, "", got[MetaTitle])
	assert.Equal(t, 0, got[MetaStartIndex])
}

func TestDocument_Validate(t *testing.T) {
	valid := Metadata{ContentType: DefaultContentType, Language: DefaultLanguage}

	tests := []struct {
		name    string
		doc     Document
		wantErr bool
	}{
		{name: "populated", doc: Document{Content: "x", Metadata: valid}},
		{name: "empty content is fine", doc: Document{Metadata: valid}},
		{
			name:    "missing content type",
			doc:     Document{Metadata: Metadata{Language: "en"}},
			wantErr: true,
		},
		{
			name:    "missing language",
			doc:     Document{Metadata: Metadata{ContentType: "text/plain"}},
			wantErr: true,
		},
		{
			name:    "negative start index",
			doc:     Document{Metadata: Metadata{ContentType: "text/plain", Language: "en", StartIndex: -1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}
