package plugins

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/relay/core/providers"
)

// fakeCompleter returns a canned response and records the last request
type fakeCompleter struct {
	response string
	err      error
	lastReq  *providers.CompletionRequest
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(_ context.Context, req *providers.CompletionRequest) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestWeatherCanHandle(t *testing.T) {
	p := NewWeatherPlugin(&fakeCompleter{})

	cases := []struct {
		message string
		want    bool
	}{
		{"what's the weather like in Paris", true},
		{"TEMPERATURE in Tokyo", true},
		{"forecast for tomorrow", true},
		{"is it sunny today", true},
		{"it's so humid here", true},
		{"what is 2+2", false},
		{"tell me a joke", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, p.CanHandle(tc.message), "message: %q", tc.message)
	}
}

func TestWeatherExecute_ParsesProviderJSON(t *testing.T) {
	completer := &fakeCompleter{response: `{"city":"Paris","temperature":"22C","condition":"sunny","humidity":"40%","windSpeed":"10 km/h","description":"clear skies","note":"AI-generated"}`}
	p := NewWeatherPlugin(completer)

	result, err := p.Execute(context.Background(), "what's the weather like in Paris")
	require.NoError(t, err)

	payload, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Paris", payload["city"])
	assert.Equal(t, "sunny", payload["condition"])
	assert.Equal(t, weatherSource, payload["source"])
	assert.NotEmpty(t, payload["timestamp"])

	// The city resolved from the message drives the provider prompt
	require.NotNil(t, completer.lastReq)
	assert.Contains(t, completer.lastReq.UserMessage, "Paris")
	assert.Equal(t, weatherSystemPrompt, completer.lastReq.SystemPrompt)
	assert.Equal(t, weatherTemperature, completer.lastReq.Temperature)
	assert.Equal(t, weatherMaxTokens, completer.lastReq.MaxTokens)
}

func TestWeatherExecute_NonJSONFallsBackToRawDescription(t *testing.T) {
	completer := &fakeCompleter{response: "It is sunny and 22 degrees in Paris."}
	p := NewWeatherPlugin(completer)

	result, err := p.Execute(context.Background(), "weather in Paris")
	require.NoError(t, err)

	payload := result.(map[string]any)
	assert.Equal(t, "Paris", payload["city"])
	assert.Equal(t, "Unable to determine", payload["temperature"])
	assert.Equal(t, "Information unavailable", payload["condition"])
	assert.Equal(t, completer.response, payload["description"])
	assert.Equal(t, weatherSource, payload["source"])
}

func TestWeatherExecute_NoCityIsStructuredNotError(t *testing.T) {
	p := NewWeatherPlugin(&fakeCompleter{})

	result, err := p.Execute(context.Background(), "is it going to rain")
	require.NoError(t, err)

	payload := result.(map[string]any)
	assert.Equal(t, "Could not determine city from message", payload["error"])
	assert.Equal(t, "Please specify a city name for weather information", payload["message"])
}

func TestWeatherExecute_CompletionFailurePropagates(t *testing.T) {
	completer := &fakeCompleter{err: fmt.Errorf("provider down")}
	p := NewWeatherPlugin(completer)

	_, err := p.Execute(context.Background(), "weather in Tokyo")
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to get weather information")
}

func TestExtractCity(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"what's the weather like in Paris", "Paris"},
		{"how is the weather in New York", "New York"},
		{"weather in London", "London"},
		{"weather for Berlin", "Berlin"},
		{"temperature in Tokyo", "Tokyo"},
		{"forecast for Sydney", "Sydney"},
		{"Mumbai weather", "Mumbai"},
		{"I wonder about the climate, maybe Singapore", "singapore"},
		{"is it going to rain", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, extractCity(tc.message), "message: %q", tc.message)
	}
}
