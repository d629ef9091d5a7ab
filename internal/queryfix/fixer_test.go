package queryfix

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCatalog []string

func (c staticCatalog) Names() []string { return c }

func TestLooksLikeForeign(t *testing.T) {
	tests := []struct {
		query   string
		foreign bool
	}{
		{"banh mi", true},
		{"bread with pork", true},
		{"bánh mì", false},
		{"kẹo dừa Bến Tre", false},
		{"PHỞ BÒ", false},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.foreign, LooksLikeForeign(tc.query))
		})
	}
}

func TestCleanFixedQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain answer", "bánh mì", "bánh mì"},
		{"quoted answer", `"bánh mì"`, "bánh mì"},
		{"padded answer", "  bánh mì \n", "bánh mì"},
		{"labelled answer", "Here is the corrected phrase: bánh mì", "bánh mì"},
		{"long tail kept whole", "note: this sentence after the colon has too many words", "note: this sentence after the colon has too many words"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanFixedQuery(tc.in))
		})
	}
}

func TestFixQueryWithGemini(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NotEmpty(t, r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"bánh mì"}]}}]}`))
	}))
	defer srv.Close()

	client := &GeminiClient{apiKey: "test-key", model: "gemini-2.5-flash", baseURL: srv.URL, httpClient: srv.Client()}
	fixer := NewFixer(client, staticCatalog{"Bánh mì", "Kẹo dừa"}, 0, nil)

	assert.Equal(t, "bánh mì", fixer.FixQuery(context.Background(), "banh mi ha noi"))
}

func TestFixQueryKeepsOriginalOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := &GeminiClient{apiKey: "test-key", model: "gemini-2.5-flash", baseURL: srv.URL, httpClient: srv.Client()}
	fixer := NewFixer(client, staticCatalog{"Bánh mì"}, 0, nil)

	assert.Equal(t, "banh mi", fixer.FixQuery(context.Background(), "banh mi"))
}

func TestFixQueryKeepsOriginalOnEmptyAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`))
	}))
	defer srv.Close()

	client := &GeminiClient{apiKey: "test-key", model: "gemini-2.5-flash", baseURL: srv.URL, httpClient: srv.Client()}
	fixer := NewFixer(client, staticCatalog{"Bánh mì"}, 0, nil)

	assert.Equal(t, "keo dua", fixer.FixQuery(context.Background(), "keo dua"))
}

func TestFixQueryKeepsOriginalOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"bánh mì"}]}}]}`))
	}))
	defer srv.Close()

	client := &GeminiClient{apiKey: "test-key", model: "gemini-2.5-flash", baseURL: srv.URL, httpClient: srv.Client()}
	fixer := NewFixer(client, staticCatalog{"Bánh mì"}, 50*time.Millisecond, nil)

	assert.Equal(t, "banh mi", fixer.FixQuery(context.Background(), "banh mi"))
}

func TestGroqGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"finish_reason":"stop","message":{"content":"Phở bò"}}]}`))
	}))
	defer srv.Close()

	client := &GroqClient{apiKey: "test-key", model: "llama-3.2-90b-vision-preview", baseURL: srv.URL, httpClient: srv.Client()}

	text, err := client.GenerateText(context.Background(), "name the dish")
	require.NoError(t, err)
	assert.Equal(t, "Phở bò", text)
}

func TestGroqInlineErrorObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"message":"model decommissioned"}}`))
	}))
	defer srv.Close()

	client := &GroqClient{apiKey: "test-key", model: "m", baseURL: srv.URL, httpClient: srv.Client()}

	_, err := client.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model decommissioned")
}

func TestBuildFixPromptSelectsByDiacritics(t *testing.T) {
	foreign := buildFixPrompt("banh mi", "Bánh mì, Kẹo dừa")
	assert.Contains(t, foreign, "Extract the Vietnamese product name")
	assert.Contains(t, foreign, "VALID PRODUCTS: Bánh mì, Kẹo dừa")

	vietnamese := buildFixPrompt("bánh mỳ", "Bánh mì")
	assert.Contains(t, vietnamese, "Fix spelling")
}
