package qdrant

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/prospect/core"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPort int
		wantTLS  bool
		wantErr  bool
	}{
		{"https with REST port", "https://xyz.cloud.qdrant.io:6333", "xyz.cloud.qdrant.io", 6334, true, false},
		{"http with gRPC port", "http://localhost:6334", "localhost", 6334, false, false},
		{"no port defaults to gRPC", "http://localhost", "localhost", 6334, false, false},
		{"custom port preserved", "http://localhost:7000", "localhost", 7000, false, false},
		{"garbage", "not a url", "", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, useTLS, err := parseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
			assert.Equal(t, tt.wantTLS, useTLS)
		})
	}
}

func TestDocumentFromPayload(t *testing.T) {
	t.Run("company document", func(t *testing.T) {
		payload := qdrant.NewValueMap(map[string]any{
			"type":     "company",
			"name":     "Acme",
			"contents": "Company: Acme",
		})
		doc := documentFromPayload(payload)
		require.NotNil(t, doc)
		assert.Equal(t, core.DocumentTypeCompany, doc.Type)
		assert.Equal(t, "Acme", doc.Name)
		assert.Equal(t, "Company: Acme", doc.Contents)
	})

	t.Run("contact document", func(t *testing.T) {
		payload := qdrant.NewValueMap(map[string]any{
			"type":     "contact",
			"name":     "Jane Doe",
			"contents": "Person: Jane Doe",
		})
		doc := documentFromPayload(payload)
		require.NotNil(t, doc)
		assert.Equal(t, core.DocumentTypeContact, doc.Type)
	})

	t.Run("missing fields", func(t *testing.T) {
		payload := qdrant.NewValueMap(map[string]any{"type": "company"})
		assert.Nil(t, documentFromPayload(payload))
	})

	t.Run("unknown type", func(t *testing.T) {
		payload := qdrant.NewValueMap(map[string]any{
			"type":     "widget",
			"name":     "Acme",
			"contents": "x",
		})
		assert.Nil(t, documentFromPayload(payload))
	})
}
