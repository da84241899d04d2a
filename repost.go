// Package repost turns long-form article pages into short-form social posts.
// It fetches an article, extracts its title, text and images, rewrites the
// text in a platform's house style (by rule or with an LLM) and hands the
// finished post to a publisher.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, openai/, rod/).
package repost
