package speech

import (
	"context"
	"fmt"
	"strings"
)

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate converts text from the source to the target language. Empty
// input is rejected before any provider call is made. The translation API
// wants bare language tags, so regional codes like en-US are trimmed.
func (c *Client) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	reqBody := translateRequest{
		Q:      text,
		Source: baseLanguage(sourceLanguage),
		Target: baseLanguage(targetLanguage),
		Format: "text",
	}

	var resp translateResponse
	if err := c.postJSON(ctx, c.translateURL, reqBody, &resp); err != nil {
		return "", fmt.Errorf("translate to %s: %w", targetLanguage, err)
	}

	if len(resp.Data.Translations) == 0 || resp.Data.Translations[0].TranslatedText == "" {
		return "", ErrEmptyTranslation
	}

	return resp.Data.Translations[0].TranslatedText, nil
}

// baseLanguage reduces a regional tag like en-US to its language part.
func baseLanguage(code string) string {
	if i := strings.Index(code, "-"); i > 0 {
		return code[:i]
	}
	return code
}
