package queryfix

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/dacsanviet/discovery-engine/internal/observability"
)

// DefaultVisionTimeout bounds a vision round trip. Image models are slow, so
// the budget is much looser than the text path.
const DefaultVisionTimeout = 20 * time.Second

// cuisineKeywords are common Vietnamese dish words used as a last-resort
// match when the model's answer overlaps no catalog name directly.
var cuisineKeywords = []string{"cơm", "phở", "bún", "bánh", "chả", "gà", "bò", "heo"}

// Detector identifies a catalog product from a photo using a vision model.
type Detector struct {
	provider   Provider
	catalog    Catalog
	timeout    time.Duration
	httpClient *http.Client
	logger     *observability.Logger
}

// NewDetector wires a Detector. A zero timeout selects DefaultVisionTimeout;
// a nil logger selects the default logger.
func NewDetector(provider Provider, catalog Catalog, timeout time.Duration, logger *observability.Logger) *Detector {
	if timeout <= 0 {
		timeout = DefaultVisionTimeout
	}
	if logger == nil {
		logger = observability.DefaultLogger()
	}
	return &Detector{
		provider:   provider,
		catalog:    catalog,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger.WithOperation("vision"),
	}
}

// DetectProduct returns the catalog product shown in the image, or an error
// when nothing could be detected. The image input may be a URL, a data URL,
// or raw base64.
func (d *Detector) DetectProduct(ctx context.Context, imageData string) (string, error) {
	products := d.catalog.Names()
	if len(products) == 0 {
		return "", fmt.Errorf("product catalog is empty")
	}

	dataURL, err := PrepareImage(ctx, d.httpClient, imageData)
	if err != nil {
		return "", fmt.Errorf("prepare image: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	raw, err := d.provider.GenerateVision(callCtx, buildVisionPrompt(products), dataURL)
	if err != nil {
		d.logger.Warn().
			Str("provider", d.provider.Name()).
			Err(err).
			Msg("vision request failed")
		return "", fmt.Errorf("vision request: %w", err)
	}

	detected := cleanDetectedText(raw)
	if detected == "" {
		return "", fmt.Errorf("vision model returned no usable text")
	}
	d.logger.Info().
		Str("provider", d.provider.Name()).
		Str("detected", detected).
		Msg("vision model answered")

	if match := MatchProduct(detected, products); match != "" {
		return match, nil
	}
	if match := keywordFallback(detected, products); match != "" {
		d.logger.Info().
			Str("detected", detected).
			Str("match", match).
			Msg("matched product by cuisine keyword")
		return match, nil
	}
	return "", fmt.Errorf("no catalog product matches %q", detected)
}

func buildVisionPrompt(products []string) string {
	return fmt.Sprintf(`Nhận diện đối tượng trong ảnh và chọn TÊN PHÙ HỢP NHẤT từ danh sách sản phẩm sau:

%s

QUY TẮC:
1. Nhận diện BẤT KỲ đối tượng nào: đồ ăn, thức uống, đồ dùng học tập, thiết bị điện tử, quần áo, phụ kiện, đồ gia dụng, v.v.
2. Trả về ĐÚNG TÊN từ danh sách trên (giữ nguyên chính tả)
3. Nếu là đồ ăn → tìm món ăn tương ứng
4. Nếu là đồ vật → tìm sản phẩm mô tả đúng nhất
5. CHỈ trả về TÊN SẢN PHẨM, không giải thích

Output: [tên sản phẩm chính xác]`, strings.Join(products, ", "))
}

// cleanDetectedText strips quoting, markdown, label prefixes, and keeps only
// the first line of the model's answer.
func cleanDetectedText(text string) string {
	replacer := strings.NewReplacer(`"`, "", "*", "", "`", "")
	text = strings.TrimSpace(replacer.Replace(text))
	if text == "" {
		return ""
	}

	if idx := strings.LastIndex(text, ":"); idx >= 0 {
		text = strings.TrimSpace(text[idx+1:])
	}
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}

	stopWords := []string{"output", "result", "product", "món", "là", "is", "answer", "tên", "sản phẩm"}
	for _, word := range stopWords {
		if strings.HasPrefix(strings.ToLower(text), word) {
			text = strings.TrimSpace(text[len(word):])
		}
	}
	return text
}

// MatchProduct fuzzily matches the detected text against catalog names and
// returns the best match, or "" when none clears its tier's threshold.
// Substring containment scores 0.9, word overlap must exceed 0.5, and rune
// similarity must exceed 0.6.
func MatchProduct(detected string, products []string) string {
	detectedNorm := normalizeForMatch(detected)
	if detectedNorm == "" {
		return ""
	}
	detectedWords := wordSet(detectedNorm)

	var best string
	var bestScore float64

	for _, product := range products {
		productNorm := normalizeForMatch(product)
		if productNorm == "" {
			continue
		}

		if strings.Contains(productNorm, detectedNorm) || strings.Contains(detectedNorm, productNorm) {
			if 0.9 > bestScore {
				bestScore = 0.9
				best = product
			}
		}

		productWords := wordSet(productNorm)
		common := 0
		for w := range detectedWords {
			if productWords[w] {
				common++
			}
		}
		if common > 0 {
			denom := len(detectedWords)
			if len(productWords) > denom {
				denom = len(productWords)
			}
			ratio := float64(common) / float64(denom)
			if ratio > 0.5 && ratio > bestScore {
				bestScore = ratio
				best = product
			}
		}

		if sim := similarityRatio(detectedNorm, productNorm); sim > 0.6 && sim > bestScore {
			bestScore = sim
			best = product
		}
	}
	return best
}

// keywordFallback looks for a shared dish keyword between the detected text
// and any catalog name.
func keywordFallback(detected string, products []string) string {
	lower := strings.ToLower(detected)
	for _, keyword := range cuisineKeywords {
		if !strings.Contains(lower, keyword) {
			continue
		}
		for _, product := range products {
			if strings.Contains(strings.ToLower(product), keyword) {
				return product
			}
		}
	}
	return ""
}

// normalizeForMatch lowercases and drops everything but letters, digits, and
// spaces, keeping Vietnamese diacritics intact.
func normalizeForMatch(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
