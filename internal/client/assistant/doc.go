// Package assistant is a thin client for the AI assistant: chat, content
// moderation, summarisation and deal analysis against an OpenAI compatible
// chat completions endpoint.
//
// Each call is a single request. Nothing is retried or streamed. Replies the
// model did not shape as asked decode to zero values instead of errors.
package assistant
