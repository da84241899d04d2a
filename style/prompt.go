package style

import (
	"fmt"
	"strings"
)

// Section markers of the two-part reply format.
const (
	TitleMarker = "一. 标题"
	BodyMarker  = "二. 正文"
	TagsMarker  = "标签："
)

// SystemPrompt is the system-role instruction sent with every request.
const SystemPrompt = "你是一个专业的小红书内容创作者，擅长将产品介绍转换成吸引人的小红书风格。"

var titleRules = []string{
	"采用二极管标题法",
	"使用吸引人的特点和爆款关键词",
	"符合小红书平台特性",
	"标题要简短有力，突出重点",
}

var bodyRules = []string{
	"采用轻松活泼的写作风格，介绍内容的特点和优势",
	"开篇要抓人眼球，引发读者兴趣",
	"文本结构清晰，分段要合理",
	"加入互动引导，增加用户参与感",
	"每段话都要口语化、简短",
	"在每段话的开头、中间和结尾使用合适的emoji表情",
	"最后加入3-6个相关的话题标签",
}

// BuildPrompt builds the user prompt asking for five titles and a body with
// an embedded tag line, in the format ParseResponse reads.
func BuildPrompt(title, body string) string {
	var sb strings.Builder
	sb.WriteString("你是一位小红书爆款写作专家，请将以下内容转换成小红书风格的内容。\n\n")

	sb.WriteString("一、首先，请基于原文生成5个小红书风格的标题（含emoji表情），要求：\n")
	writeRules(&sb, titleRules)

	sb.WriteString("\n二、然后，请基于原文生成小红书风格的正文，要求：\n")
	writeRules(&sb, bodyRules)

	fmt.Fprintf(&sb, "\n原文标题：%s\n\n", title)
	fmt.Fprintf(&sb, "原文内容：\n%s\n\n", body)

	sb.WriteString("请按照如下格式输出：\n")
	sb.WriteString(TitleMarker + "\n")
	sb.WriteString("[5个标题，每行一个]\n\n")
	sb.WriteString(BodyMarker + "\n")
	sb.WriteString("[正文内容]\n")
	sb.WriteString(TagsMarker + "[标签列表]")
	return sb.String()
}

func writeRules(sb *strings.Builder, rules []string) {
	for i, r := range rules {
		fmt.Fprintf(sb, "%d. %s\n", i+1, r)
	}
}
