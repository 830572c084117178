package speech

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Voice is one synthesis voice available for a language.
type Voice struct {
	Name                   string `json:"name"`
	DisplayName            string `json:"displayName"`
	SSMLGender             string `json:"ssmlGender"`
	NaturalSampleRateHertz int    `json:"naturalSampleRateHertz"`
}

type listVoicesResponse struct {
	Voices []struct {
		Name                   string `json:"name"`
		SSMLGender             string `json:"ssmlGender"`
		NaturalSampleRateHertz int    `json:"naturalSampleRateHertz"`
	} `json:"voices"`
}

// ListVoices returns the provider's voices for a language with a friendly
// display name attached.
func (c *Client) ListVoices(ctx context.Context, languageCode string) ([]Voice, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	listURL := fmt.Sprintf("%s/voices?languageCode=%s", c.ttsURL, url.QueryEscape(languageCode))

	var resp listVoicesResponse
	if err := c.getJSON(ctx, listURL, &resp); err != nil {
		return nil, fmt.Errorf("list voices for %s: %w", languageCode, err)
	}

	voices := make([]Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		voices = append(voices, Voice{
			Name:                   v.Name,
			DisplayName:            displayName(v.Name, v.SSMLGender),
			SSMLGender:             v.SSMLGender,
			NaturalSampleRateHertz: v.NaturalSampleRateHertz,
		})
	}
	return voices, nil
}

// displayName turns a provider voice name like "en-US-Wavenet-A" into
// something a voice picker can show, e.g. "Female (WaveNet A)".
func displayName(name, ssmlGender string) string {
	gender := "Unknown"
	switch ssmlGender {
	case "FEMALE":
		gender = "Female"
	case "MALE":
		gender = "Male"
	case "NEUTRAL":
		gender = "Neutral"
	}

	parts := strings.Split(name, "-")
	suffix := name
	if len(parts) > 2 {
		suffix = strings.Join(parts[2:], "-")
	}

	variant := ""
	if len(parts) > 0 {
		variant = parts[len(parts)-1]
	}
	switch {
	case strings.Contains(name, "Wavenet"):
		return fmt.Sprintf("%s (WaveNet %s)", gender, variant)
	case strings.Contains(name, "Standard"):
		return fmt.Sprintf("%s (Standard %s)", gender, variant)
	case strings.Contains(name, "News"):
		return fmt.Sprintf("%s (News %s)", gender, variant)
	case strings.Contains(name, "Studio"):
		return fmt.Sprintf("%s (Studio %s)", gender, variant)
	}
	return fmt.Sprintf("%s (%s)", gender, suffix)
}
