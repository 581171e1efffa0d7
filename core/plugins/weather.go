package plugins

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/adalundhe/relay/core/providers"
)

var weatherKeywords = []string{
	"weather", "temperature", "forecast", "climate", "rain",
	"sunny", "cloudy", "hot", "cold", "humid",
}

// City phrase patterns, tried in order. The specific conversational
// phrasings come before the bare "X weather" pattern so that a message
// like "what's the weather like in Paris" resolves to the city rather
// than a fragment of the question.
var cityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)how is the weather in ([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)what's the weather like in ([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)weather in ([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)weather for ([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)temperature in ([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)forecast for ([a-zA-Z\s]+)`),
	regexp.MustCompile(`(?i)([a-zA-Z\s]+) weather`),
}

// Fallback when no phrase pattern matches
var wellKnownCities = []string{
	"bangalore", "mumbai", "delhi", "chennai", "kolkata", "hyderabad",
	"pune", "london", "paris", "tokyo", "new york", "los angeles",
	"chicago", "boston", "seattle", "san francisco", "miami", "toronto",
	"vancouver", "sydney", "melbourne", "singapore", "hong kong",
	"dubai", "berlin", "madrid",
}

const weatherSystemPrompt = "You are a weather information assistant. Provide realistic weather data based on typical climate patterns for the requested location and current season. Always format responses as valid JSON."

const weatherPromptTemplate = `Provide current weather information for %s. Include:
- Current temperature (approximate)
- Weather conditions (sunny, cloudy, rainy, etc.)
- Humidity level (approximate)
- Wind conditions
- Any notable weather patterns for this location and season

Format the response as a JSON object with the following structure:
{
  "city": "city name",
  "temperature": "temperature with unit",
  "condition": "weather condition",
  "humidity": "humidity percentage",
  "windSpeed": "wind speed with unit",
  "description": "brief weather description",
  "note": "mention this is AI-generated based on typical patterns"
}

Provide realistic weather data based on the city's typical climate and current season.`

const weatherSource = "AI-generated based on typical climate patterns"

const (
	weatherTemperature = 0.3
	weatherMaxTokens   = 300
)

// WeatherPlugin answers weather questions by asking the completion
// provider for simulated conditions. The data is plausible, not
// observed; every payload carries a provenance note saying so.
type WeatherPlugin struct {
	completer providers.Completer
}

// NewWeatherPlugin creates the weather plugin
func NewWeatherPlugin(completer providers.Completer) *WeatherPlugin {
	return &WeatherPlugin{completer: completer}
}

func (p *WeatherPlugin) Name() string { return "Weather" }

func (p *WeatherPlugin) Description() string {
	return "Get current weather information for any city using AI knowledge"
}

// CanHandle reports whether the message mentions a weather topic
func (p *WeatherPlugin) CanHandle(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range weatherKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Execute extracts a city and asks the completion provider for a JSON
// weather object. A response that fails JSON parsing degrades to a
// structured fallback carrying the raw text; only a failed completion
// call is reported as a plugin failure.
func (p *WeatherPlugin) Execute(ctx context.Context, message string) (any, error) {
	city := extractCity(message)
	if city == "" {
		return map[string]any{
			"error":   "Could not determine city from message",
			"message": "Please specify a city name for weather information",
		}, nil
	}

	response, err := p.completer.Complete(ctx, &providers.CompletionRequest{
		SystemPrompt: weatherSystemPrompt,
		UserMessage:  fmt.Sprintf(weatherPromptTemplate, city),
		Temperature:  weatherTemperature,
		MaxTokens:    weatherMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get weather information: %w", err)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)

	var weather map[string]any
	if err := json.Unmarshal([]byte(response), &weather); err != nil {
		// Not valid JSON; keep the raw text as the description
		return map[string]any{
			"city":        city,
			"temperature": "Unable to determine",
			"condition":   "Information unavailable",
			"description": response,
			"note":        "AI-generated weather information",
			"timestamp":   timestamp,
			"source":      weatherSource,
		}, nil
	}

	weather["timestamp"] = timestamp
	weather["source"] = weatherSource
	return weather, nil
}

// extractCity resolves a city name from the message, first via the
// phrase patterns, then via substring match against well-known cities.
// Returns "" when nothing matches.
func extractCity(message string) string {
	for _, pattern := range cityPatterns {
		if match := pattern.FindStringSubmatch(message); match != nil {
			if city := strings.TrimSpace(match[1]); city != "" {
				return city
			}
		}
	}

	lower := strings.ToLower(message)
	for _, city := range wellKnownCities {
		if strings.Contains(lower, city) {
			return city
		}
	}

	return ""
}
