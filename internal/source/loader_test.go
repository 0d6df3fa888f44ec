package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightforge/insightforge/internal/model"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadNilDescriptor(t *testing.T) {
	t.Parallel()

	payload, err := Load("reviews", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "reviews", payload.Name)
	assert.Empty(t, payload.Records)
	assert.Equal(t, model.ProvenanceNone, payload.Provenance)
}

func TestLoadInlineRecords(t *testing.T) {
	t.Parallel()

	desc := &model.SourceDescriptor{Records: []model.Record{{"rating": 5}}}
	payload, err := Load("reviews", desc, "")
	require.NoError(t, err)
	assert.Len(t, payload.Records, 1)
	assert.Equal(t, model.ProvenanceInline, payload.Provenance)
}

func TestLoadJSONFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	t.Run("array of objects", func(t *testing.T) {
		writeSource(t, dir, "reviews.json", `[{"rating": 5}, {"rating": 1}]`)
		payload, err := Load("reviews", &model.SourceDescriptor{Path: "reviews.json"}, dir)
		require.NoError(t, err)
		assert.Len(t, payload.Records, 2)
		assert.Equal(t, filepath.Join(dir, "reviews.json"), payload.Provenance)
	})

	t.Run("single object wraps", func(t *testing.T) {
		writeSource(t, dir, "one.json", `{"rating": 4}`)
		payload, err := Load("reviews", &model.SourceDescriptor{Path: "one.json"}, dir)
		require.NoError(t, err)
		require.Len(t, payload.Records, 1)
	})

	t.Run("scalar wraps under value", func(t *testing.T) {
		writeSource(t, dir, "scalar.json", `42`)
		payload, err := Load("reviews", &model.SourceDescriptor{Path: "scalar.json"}, dir)
		require.NoError(t, err)
		require.Len(t, payload.Records, 1)
		assert.Equal(t, model.Record{"value": float64(42)}, payload.Records[0])
	})

	t.Run("malformed json fails", func(t *testing.T) {
		writeSource(t, dir, "broken.json", `{`)
		_, err := Load("reviews", &model.SourceDescriptor{Path: "broken.json"}, dir)
		require.Error(t, err)
	})
}

func TestLoadCSVFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	t.Run("header keyed rows", func(t *testing.T) {
		writeSource(t, dir, "pricing.csv", "sku,our_price,competitor_price\nA,100,80\nB,50,60\n")
		payload, err := Load("pricing", &model.SourceDescriptor{Path: "pricing.csv"}, dir)
		require.NoError(t, err)
		require.Len(t, payload.Records, 2)
		assert.Equal(t, "A", payload.Records[0].String("sku"))
		v, ok := payload.Records[0].Float("our_price")
		require.True(t, ok)
		assert.InDelta(t, 100.0, v, 0.0001)
	})

	t.Run("short rows drop trailing keys", func(t *testing.T) {
		writeSource(t, dir, "short.csv", "sku,views,conversions\nA,100\n")
		payload, err := Load("performance_signals", &model.SourceDescriptor{Path: "short.csv"}, dir)
		require.NoError(t, err)
		require.Len(t, payload.Records, 1)
		_, ok := payload.Records[0]["conversions"]
		assert.False(t, ok)
	})

	t.Run("header only", func(t *testing.T) {
		writeSource(t, dir, "empty.csv", "sku,views\n")
		payload, err := Load("performance_signals", &model.SourceDescriptor{Path: "empty.csv"}, dir)
		require.NoError(t, err)
		assert.Empty(t, payload.Records)
	})
}

func TestLoadPathErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("reviews", &model.SourceDescriptor{Path: "absent.json"}, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "data source path not found for reviews")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		writeSource(t, dir, "reviews.xml", "<reviews/>")
		_, err := Load("reviews", &model.SourceDescriptor{Path: "reviews.xml"}, dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file format for reviews")
	})

	t.Run("absolute path bypasses root", func(t *testing.T) {
		path := writeSource(t, dir, "abs.json", `[]`)
		payload, err := Load("reviews", &model.SourceDescriptor{Path: path}, "/nonexistent-root")
		require.NoError(t, err)
		assert.Empty(t, payload.Records)
	})
}
