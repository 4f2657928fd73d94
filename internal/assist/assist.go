// Package assist provides the optional text-generation collaborator used to
// draft repost captions and comments. It is strictly an enrichment: every
// failure path degrades to a canned suggestion, and nothing in the engine
// ever waits on it.
package assist

import "context"

// Fallback suggestions used whenever the generator is unavailable or fails.
const (
	FallbackCaption = "Check this out! #vibestream"
	FallbackComment = "Amazing!"
)

// StaticAssistant always returns the fallback suggestions. It is the default
// when no generator is configured, and doubles as the test double.
type StaticAssistant struct{}

func NewStaticAssistant() *StaticAssistant { return &StaticAssistant{} }

func (*StaticAssistant) GenerateCaption(context.Context, string) string { return FallbackCaption }
func (*StaticAssistant) SuggestComment(context.Context, string) string  { return FallbackComment }
