// Package style turns article text into Xiaohongshu-style posts, either with
// a fixed template or by prompting a text generator.
package style

import (
	"context"
	"strings"

	"github.com/fwojciec/repost"
)

// Template text of the rule-based post.
const (
	OpeningLine   = "大家好呀~ 今天给大家分享一篇超棒的文章 🌟"
	TakeawaysLine = "💡 重点总结："
	EmptyBodyLine = "原文暂无可用的正文内容 📭"
)

const (
	// maxParagraphs is how many paragraphs are copied verbatim.
	maxParagraphs = 3
	// excerptRunes is the length of a takeaway excerpt.
	excerptRunes = 100
)

// Emoji appends a decoration after every occurrence of a keyword.
type Emoji struct {
	Keyword string
	Glyph   string
}

// Emojis is applied in order; later entries see text already decorated by
// earlier ones.
var Emojis = []Emoji{
	{"推荐", "👍"},
	{"分享", "🎉"},
	{"喜欢", "❤️"},
	{"建议", "💡"},
	{"提醒", "⚠️"},
	{"注意", "❗"},
	{"重要", "‼️"},
	{"游戏", "🎮"},
	{"直播", "📱"},
	{"玩家", "👥"},
	{"成本", "💰"},
	{"营销", "📢"},
}

// Tags closes every rule-based post.
var Tags = []string{"#经验分享", "#干货分享", "#每日一读", "#文章推荐", "#干货必看"}

// Ensure RuleTransformer implements repost.StyleTransformer at compile time.
var _ repost.StyleTransformer = (*RuleTransformer)(nil)

// RuleTransformer builds posts from a fixed template. It performs no I/O
// and the same request always yields the same post.
type RuleTransformer struct{}

// NewRuleTransformer creates a new RuleTransformer.
func NewRuleTransformer() *RuleTransformer {
	return &RuleTransformer{}
}

// Transform composes the templated post. An empty body yields a single
// explanatory line, never an error.
func (t *RuleTransformer) Transform(_ context.Context, req repost.TransformRequest) (*repost.StyledPost, error) {
	title := DecorateTitle(strings.TrimSpace(req.Title))
	paragraphs := repost.Dedup(strings.Split(req.Body, "\n"))

	post := &repost.StyledPost{
		TitleCandidates: []string{title},
		Body:            EmptyBodyLine,
		Tags:            append([]string(nil), Tags...),
	}
	if len(paragraphs) > 0 {
		post.Body = Decorate(compose(title, paragraphs)) + "\n\n" + strings.Join(Tags, " ")
	}
	return post, nil
}

// DecorateTitle wraps a title in sparkles.
func DecorateTitle(title string) string {
	return "✨ " + title + " ✨"
}

// Decorate applies Emojis to s in declaration order.
func Decorate(s string) string {
	for _, e := range Emojis {
		s = strings.ReplaceAll(s, e.Keyword, e.Keyword+e.Glyph)
	}
	return s
}

// Excerpt returns the first n runes of s followed by an ellipsis.
func Excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}

func compose(title string, paragraphs []string) string {
	lines := []string{title, "", OpeningLine, ""}

	n := min(len(paragraphs), maxParagraphs)
	lines = append(lines, paragraphs[:n]...)

	lines = append(lines, "", TakeawaysLine, "1️⃣ "+Excerpt(paragraphs[0], excerptRunes))
	if len(paragraphs) > 1 {
		lines = append(lines, "2️⃣ "+Excerpt(paragraphs[1], excerptRunes))
	}

	return strings.Join(lines, "\n")
}
