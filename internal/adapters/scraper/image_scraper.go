package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var vqdRe = regexp.MustCompile(`vqd="([^"]+)"`)

// ImageScraper finds candidate product photos for the admin catalog tools.
// DuckDuckGo Images is tried first, Bing's HTML results as fallback.
type ImageScraper struct {
	client *http.Client
}

func NewImageScraper() *ImageScraper {
	return &ImageScraper{
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (s *ImageScraper) SearchImages(ctx context.Context, productName, brand string, maxResults int) ([]string, error) {
	if maxResults <= 0 {
		maxResults = 6
	}
	if maxResults > 20 {
		maxResults = 20
	}

	query := buildQuery(productName, brand)

	images, err := s.searchDuckDuckGo(ctx, query, maxResults)
	if err == nil && len(images) > 0 {
		log.Info().Str("query", query).Int("found", len(images)).Msg("image search hit")
		return images, nil
	}
	log.Warn().Err(err).Str("query", query).Msg("duckduckgo image search failed, trying bing")

	images, err = s.searchBing(ctx, query, maxResults)
	if err == nil && len(images) > 0 {
		return images, nil
	}
	return nil, fmt.Errorf("no images found for %q: %w", query, err)
}

func buildQuery(productName, brand string) string {
	parts := []string{}
	if b := strings.TrimSpace(brand); b != "" {
		parts = append(parts, b)
	}
	if n := strings.TrimSpace(productName); n != "" {
		parts = append(parts, n)
	}
	parts = append(parts, "sneakers shoes")
	return strings.Join(parts, " ")
}

// searchDuckDuckGo drives the unofficial image endpoint: first fetch the
// search page to pull out the vqd token, then hit i.js with it.
func (s *ImageScraper) searchDuckDuckGo(ctx context.Context, query string, maxResults int) ([]string, error) {
	searchURL := fmt.Sprintf("https://duckduckgo.com/?q=%s&iax=images&ia=images", url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	m := vqdRe.FindStringSubmatch(string(body))
	if len(m) < 2 {
		return nil, fmt.Errorf("vqd token not found")
	}

	imgURL := fmt.Sprintf("https://duckduckgo.com/i.js?q=%s&vqd=%s&o=json&p=1&s=0",
		url.QueryEscape(query), url.QueryEscape(m[1]))
	req2, err := http.NewRequestWithContext(ctx, http.MethodGet, imgURL, nil)
	if err != nil {
		return nil, err
	}
	req2.Header.Set("User-Agent", userAgent)
	req2.Header.Set("Referer", searchURL)

	resp2, err := s.client.Do(req2)
	if err != nil {
		return nil, err
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp2.StatusCode)
	}

	var result struct {
		Results []struct {
			Image     string `json:"image"`
			Thumbnail string `json:"thumbnail"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode image results: %w", err)
	}

	const minSize = 300
	images := []string{}
	for _, r := range result.Results {
		if r.Width < minSize || r.Height < minSize {
			continue
		}
		u := r.Image
		if u == "" {
			u = r.Thumbnail
		}
		if u != "" && strings.HasPrefix(u, "http") {
			images = append(images, u)
			if len(images) >= maxResults {
				break
			}
		}
	}
	return images, nil
}

// searchBing parses the plain HTML image results. Each thumbnail anchor
// carries a JSON m attribute with the full-size murl.
func (s *ImageScraper) searchBing(ctx context.Context, query string, maxResults int) ([]string, error) {
	searchURL := fmt.Sprintf("https://www.bing.com/images/search?q=%s&safeSearch=strict", url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	images := []string{}
	doc.Find("a.iusc").Each(func(i int, sel *goquery.Selection) {
		if len(images) >= maxResults {
			return
		}
		raw, ok := sel.Attr("m")
		if !ok {
			return
		}
		var meta struct {
			MURL string `json:"murl"`
		}
		if json.Unmarshal([]byte(raw), &meta) != nil {
			return
		}
		u := meta.MURL
		if u == "" || !strings.HasPrefix(u, "http") || seen[u] {
			return
		}
		lower := strings.ToLower(u)
		if strings.Contains(lower, "logo") || strings.Contains(lower, "icon") {
			return
		}
		seen[u] = true
		images = append(images, u)
	})
	return images, nil
}
