package queryfix

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// imageFetchTimeout bounds downloading a caller-supplied image URL.
const imageFetchTimeout = 10 * time.Second

var dataURLPattern = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

// PrepareImage turns the caller's image input into a data URL suitable for a
// vision request. The input may be an http(s) URL, a data URL, or a raw
// base64 string (assumed JPEG).
func PrepareImage(ctx context.Context, client *http.Client, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty image data")
	}

	switch {
	case strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://"):
		return fetchImageAsDataURL(ctx, client, input)

	case strings.HasPrefix(input, "data:image"):
		m := dataURLPattern.FindStringSubmatch(input)
		if m == nil {
			return "", fmt.Errorf("malformed image data URL")
		}
		return "data:" + m[1] + ";base64," + m[2], nil

	default:
		return "data:image/jpeg;base64," + input, nil
	}
}

func fetchImageAsDataURL(ctx context.Context, client *http.Client, imageURL string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	ctx, cancel := context.WithTimeout(ctx, imageFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read image body: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
