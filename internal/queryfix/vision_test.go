package queryfix

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider scripts GenerateVision answers for detector tests.
type fakeProvider struct {
	answer string
	err    error
	calls  int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) GenerateText(ctx context.Context, prompt string) (string, error) {
	return p.answer, p.err
}

func (p *fakeProvider) GenerateVision(ctx context.Context, prompt, imageDataURL string) (string, error) {
	p.calls++
	return p.answer, p.err
}

func TestSimilarityRatio(t *testing.T) {
	assert.Equal(t, 1.0, similarityRatio("phở bò", "phở bò"))
	assert.Equal(t, 1.0, similarityRatio("", ""))
	assert.Equal(t, 0.0, similarityRatio("abc", "xyz"))
	assert.Greater(t, similarityRatio("bánh mì", "bánh mỳ"), 0.6)
	assert.Greater(t, similarityRatio("bánh mì", "bánh mì"), similarityRatio("bánh mì", "kẹo dừa"))
}

func TestMatchProduct(t *testing.T) {
	products := []string{"Bánh mì", "Phở bò", "Kẹo dừa", "Cơm tấm"}

	tests := []struct {
		name     string
		detected string
		want     string
	}{
		{"exact name", "Bánh mì", "Bánh mì"},
		{"substring of catalog name", "phở", "Phở bò"},
		{"detected contains catalog name", "một tô phở bò nóng hổi", "Phở bò"},
		{"word overlap", "bò phở", "Phở bò"},
		{"close spelling", "bánh mỳ", "Bánh mì"},
		{"punctuation ignored", `"Cơm tấm!"`, "Cơm tấm"},
		{"no match", "xe đạp", ""},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MatchProduct(tc.detected, products))
		})
	}
}

func TestCleanDetectedText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"markdown stripped", "**Bánh mì**", "Bánh mì"},
		{"label stripped", "Output: Bánh mì", "Bánh mì"},
		{"first line only", "Bánh mì\nIt is a Vietnamese sandwich.", "Bánh mì"},
		{"stop word prefix", "là Bánh mì", "Bánh mì"},
		{"quotes and backticks", "`\"Phở bò\"`", "Phở bò"},
		{"empty", "  ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanDetectedText(tc.in))
		})
	}
}

func TestPrepareImage(t *testing.T) {
	t.Run("data URL passes through", func(t *testing.T) {
		in := "data:image/png;base64,aGVsbG8="
		out, err := PrepareImage(context.Background(), nil, in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("raw base64 assumes jpeg", func(t *testing.T) {
		out, err := PrepareImage(context.Background(), nil, "aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", out)
	})

	t.Run("url is fetched and encoded", func(t *testing.T) {
		payload := []byte{0x89, 0x50, 0x4e, 0x47}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(payload)
		}))
		defer srv.Close()

		out, err := PrepareImage(context.Background(), srv.Client(), srv.URL+"/photo.png")
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(payload), out)
	})

	t.Run("url fetch failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := PrepareImage(context.Background(), srv.Client(), srv.URL+"/missing.png")
		assert.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := PrepareImage(context.Background(), nil, "")
		assert.Error(t, err)
	})

	t.Run("malformed data URL", func(t *testing.T) {
		_, err := PrepareImage(context.Background(), nil, "data:image/png;hex,0090")
		assert.Error(t, err)
	})
}

func TestDetectProduct(t *testing.T) {
	catalog := staticCatalog{"Bánh mì", "Phở bò", "Kẹo dừa"}
	image := "data:image/jpeg;base64,aGVsbG8="

	t.Run("model answer matches catalog", func(t *testing.T) {
		provider := &fakeProvider{answer: "Output: Bánh mì"}
		detector := NewDetector(provider, catalog, 0, nil)

		name, err := detector.DetectProduct(context.Background(), image)
		require.NoError(t, err)
		assert.Equal(t, "Bánh mì", name)
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("cuisine keyword fallback", func(t *testing.T) {
		provider := &fakeProvider{answer: "một loại bánh nướng lạ"}
		detector := NewDetector(provider, catalog, 0, nil)

		name, err := detector.DetectProduct(context.Background(), image)
		require.NoError(t, err)
		assert.Equal(t, "Bánh mì", name)
	})

	t.Run("provider failure", func(t *testing.T) {
		provider := &fakeProvider{err: errors.New("rate limited")}
		detector := NewDetector(provider, catalog, 0, nil)

		_, err := detector.DetectProduct(context.Background(), image)
		assert.Error(t, err)
	})

	t.Run("no match at all", func(t *testing.T) {
		provider := &fakeProvider{answer: "xe đạp"}
		detector := NewDetector(provider, catalog, 0, nil)

		_, err := detector.DetectProduct(context.Background(), image)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no catalog product")
	})

	t.Run("empty catalog", func(t *testing.T) {
		provider := &fakeProvider{answer: "Bánh mì"}
		detector := NewDetector(provider, staticCatalog{}, 0, nil)

		_, err := detector.DetectProduct(context.Background(), image)
		require.Error(t, err)
		assert.Zero(t, provider.calls)
	})

	t.Run("prompt carries the catalog", func(t *testing.T) {
		prompt := buildVisionPrompt(catalog)
		for _, name := range catalog {
			assert.True(t, strings.Contains(prompt, name))
		}
	})
}
