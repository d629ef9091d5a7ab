package queryfix

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dacsanviet/discovery-engine/internal/observability"
)

// DefaultTextTimeout bounds a query-fix round trip. The search request is
// already slow by the time we get here, so the budget is tight.
const DefaultTextTimeout = 5 * time.Second

// vietnameseDiacritics matches any accented Vietnamese letter. A query with
// none of these is treated as foreign-language input.
var vietnameseDiacritics = regexp.MustCompile(`[àáạảãâấầậẩẫăằắặẳẵèéẹẻẽêềếệểễìíịỉĩòóọỏõôồốộổỗơờớợởỡùúụủũưừứựửữỳýỵỷỹđ]`)

// LooksLikeForeign reports whether the query carries no Vietnamese
// diacritics at all.
func LooksLikeForeign(query string) bool {
	return !vietnameseDiacritics.MatchString(strings.ToLower(query))
}

// Fixer repairs a search query that found nothing locally by asking an AI
// model to extract or correct the product name, scoped to the known catalog.
type Fixer struct {
	provider Provider
	catalog  Catalog
	timeout  time.Duration
	logger   *observability.Logger
}

// NewFixer wires a Fixer. A zero timeout selects DefaultTextTimeout; a nil
// logger selects the default logger.
func NewFixer(provider Provider, catalog Catalog, timeout time.Duration, logger *observability.Logger) *Fixer {
	if timeout <= 0 {
		timeout = DefaultTextTimeout
	}
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &Fixer{
		provider: provider,
		catalog:  catalog,
		timeout:  timeout,
		logger:   logger.WithOperation("queryfix"),
	}
}

// FixQuery returns a corrected query, or the original query unchanged when
// the provider fails in any way. Callers can always search with the result.
func (f *Fixer) FixQuery(ctx context.Context, query string) string {
	scope := strings.Join(f.catalog.Names(), ", ")
	prompt := buildFixPrompt(query, scope)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	raw, err := f.provider.GenerateText(ctx, prompt)
	if err != nil {
		f.logger.Warn().
			Str("provider", f.provider.Name()).
			Str("query", query).
			Err(err).
			Msg("query fix failed, keeping original query")
		return query
	}

	fixed := cleanFixedQuery(raw)
	if fixed == "" {
		f.logger.Warn().
			Str("provider", f.provider.Name()).
			Str("query", query).
			Msg("query fix returned empty text, keeping original query")
		return query
	}

	f.logger.Info().
		Str("provider", f.provider.Name()).
		Str("query", query).
		Str("fixed", fixed).
		Msg("query fixed")
	return fixed
}

// buildFixPrompt selects the extraction or the spelling-fix prompt depending
// on whether the query looks like Vietnamese.
func buildFixPrompt(query, scope string) string {
	var task string
	if LooksLikeForeign(query) {
		task = "Extract the Vietnamese product name from the input sentence. " +
			"ONLY output the product name exactly as in the list below if it appears in the sentence. " +
			"Do NOT add explanations or extra words.\n"
	} else {
		task = "Fix spelling and extract the Vietnamese product name from the input sentence. " +
			"ONLY output the product name exactly as in the list below if it appears in the sentence. " +
			"Do NOT translate or add explanations.\n"
	}
	return fmt.Sprintf("%sInput: %s\n\nVALID PRODUCTS: %s\n\n"+
		"Rules:\n"+
		"1. If the input contains a product from the list, output that product.\n"+
		"2. If none of the products appear, return the closest matching product from the list.\n"+
		"3. Do NOT invent new products or locations.",
		task, query, scope)
}

// cleanFixedQuery strips quoting and unwraps "Here is the fix: bánh mì"
// style replies. The trailing segment after a colon is only trusted when it
// is a short phrase, four words at most.
func cleanFixedQuery(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, `"`, ""))

	if idx := strings.LastIndex(text, ":"); idx >= 0 {
		tail := strings.TrimSpace(text[idx+1:])
		if n := len(strings.Fields(tail)); n > 0 && n <= 4 {
			text = tail
		}
	}
	return text
}
