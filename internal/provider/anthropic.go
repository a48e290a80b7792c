package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultModel = anthropic.ModelClaude3_7SonnetLatest
const APIVersion = "2023-06-01"

// NewAnthropicClient returns a client. An empty apiKey falls back to
// ANTHROPIC_API_KEY from the environment.
func NewAnthropicClient(apiKey string, opts ...option.RequestOption) *anthropic.Client {
	if apiKey != "" {
		opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	}
	c := anthropic.NewClient(opts...)
	return &c
}

// Model maps a configured model name to the SDK type, using DefaultModel
// when name is empty.
func Model(name string) anthropic.Model {
	if name == "" {
		return DefaultModel
	}
	return anthropic.Model(name)
}
