package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ysws-qualifier/internal/common"
	"ysws-qualifier/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// maxOutputTokens 给模型的输出长度上限
const maxOutputTokens = 2048

// yswsRules YSWS 评审规则，原样塞进 Prompt
// 这是业务规则本体，禁止概括或改写
const yswsRules = `1. The project must be open source: the repository URL must point to a public repository containing the project's actual source code.
2. The project must be the author's own work. Forks with only trivial changes, renamed templates, and re-uploads of existing projects do not count.
3. The project must actually ship: there must be something a reviewer can use — a live interactive demo, a downloadable release, or an installable package.
4. The demo URL should let a reviewer experience the project directly. A video is acceptable only when the project genuinely cannot be hosted (hardware projects, OS-level software), and the README must justify why.
5. The README must describe this specific project: what it does, how to run it, and what was built. An unmodified framework template README does not count.
6. When the evidence is ambiguous or contradictory, the project does not count.`

// GeminiAppraiser 实现了 port.Appraiser 接口
type GeminiAppraiser struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// aiAnalysis 接收 AI 返回的 JSON，字段名与 Prompt 中声明的完全一致
type aiAnalysis struct {
	ProjectName   string `json:"project_name"`
	Description   string `json:"project_description"`
	ReadmeURL     string `json:"readme_url"`
	CountsForYSWS bool   `json:"counts_for_ysws"`
	Reasoning     string `json:"reasoning"`
	DemoType      string `json:"demo_url_type"`
	ReleaseLink   string `json:"release_link"`
	ReleaseType   string `json:"release_type"`
	ReadmeKind    string `json:"readme_template"`
	IsFork        bool   `json:"is_fork"`
}

// NewGeminiAppraiser 创建 Gemini 客户端
func NewGeminiAppraiser(ctx context.Context, apiKey, modelName string) (*GeminiAppraiser, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, common.WrapError(common.ErrCodeAIProcessing, "Gemini 客户端初始化失败", err)
	}

	model := client.GenerativeModel(modelName)
	// 强制要求返回 JSON，降低解析错误的概率
	model.ResponseMIMEType = "application/json"
	model.SetMaxOutputTokens(maxOutputTokens)

	return &GeminiAppraiser{
		client: client,
		model:  model,
	}, nil
}

// Appraise 构造 Prompt、调用模型并解析结果
// 任何失败（调用、空响应、非法 JSON、枚举越界）都返回固定兜底记录，
// err 仅用于服务端日志，调用方拿到的记录永远可用
func (g *GeminiAppraiser) Appraise(ctx context.Context, sub domain.Submission, readme, repo string, facts *domain.RepoFacts) (*domain.Analysis, error) {
	// 1. 构造 Prompt
	prompt := buildPrompt(sub, readme, repo, facts)

	// 2. 调用 AI
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return domain.FallbackAnalysis(sub), common.WrapError(common.ErrCodeAIProcessing, "AI 调用失败", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return domain.FallbackAnalysis(sub), common.NewError(common.ErrCodeAIProcessing, "AI 返回内容为空")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return domain.FallbackAnalysis(sub), common.NewError(common.ErrCodeAIProcessing, "AI 返回格式错误")
	}

	// 3. 解析并校验
	analysis, err := parseAnalysis(string(text))
	if err != nil {
		return domain.FallbackAnalysis(sub), common.WrapError(common.ErrCodeAIProcessing, "AI 响应解析失败", err)
	}

	// 4. 回填提交信息
	analysis.ReadmeURL = sub.ReadmeURL
	analysis.RepoURL = sub.RepoURL
	analysis.DemoURL = sub.DemoURL

	return analysis, nil
}

// Close 释放底层连接
func (g *GeminiAppraiser) Close() error {
	return g.client.Close()
}

// buildPrompt 拼装完整指令：三个 URL、十个输出字段及其取值、
// 评审规则原文、实测事实（如有）、分隔的内容块
func buildPrompt(sub domain.Submission, readme, repo string, facts *domain.RepoFacts) string {
	var b strings.Builder

	b.WriteString("You are reviewing a hackathon project submission for the YSWS (\"You Ship, We Ship\") program.\n\n")
	fmt.Fprintf(&b, "Repository URL: %s\nDemo URL: %s\nREADME URL: %s\n\n", sub.RepoURL, sub.DemoURL, sub.ReadmeURL)

	b.WriteString("Judging rules (apply them exactly as written):\n")
	b.WriteString(yswsRules)
	b.WriteString("\n\n")

	if facts != nil {
		b.WriteString("Verified facts from the GitHub API (trust these over the text below):\n")
		fmt.Fprintf(&b, "- is_fork: %v\n", facts.IsFork)
		if facts.Description != "" {
			fmt.Fprintf(&b, "- repository description: %s\n", facts.Description)
		}
		if facts.ReleaseLink != "" {
			fmt.Fprintf(&b, "- latest release: %s (%s)\n", facts.ReleaseLink, facts.ReleaseType)
		} else {
			b.WriteString("- no published release\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Return a single JSON object with exactly these fields:\n")
	b.WriteString(`{
  "project_name": string,
  "project_description": string,
  "readme_url": string,
  "counts_for_ysws": boolean,
  "reasoning": string (one or two sentences),
  "demo_url_type": one of "direct_link" | "video" | "justified_video" | "other" | "inaccessible",
  "release_link": string (empty if none),
  "release_type": one of "executable" | "source_only" | "none",
  "readme_template": one of "original" | "modified_template" | "unmodified_template",
  "is_fork": boolean
}`)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "--- README CONTENT ---\n%s\n--- END README CONTENT ---\n\n", readme)
	fmt.Fprintf(&b, "--- REPOSITORY CONTENT ---\n%s\n--- END REPOSITORY CONTENT ---\n\n", repo)

	b.WriteString("Respond with clean JSON only. No markdown fences, no commentary.")

	return b.String()
}

// parseAnalysis 从 AI 原文里抠出 JSON 并做 Schema 校验
// 即使 AI 返回 "```json { ... } ```" 也能精准截取中间的 { ... }
func parseAnalysis(raw string) (*domain.Analysis, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("无法提取 JSON, AI 原文: %s", raw)
	}

	var res aiAnalysis
	if err := json.Unmarshal([]byte(raw[start:end+1]), &res); err != nil {
		return nil, fmt.Errorf("JSON 解析失败: %w", err)
	}

	analysis := &domain.Analysis{
		ProjectName:   res.ProjectName,
		Description:   res.Description,
		ReadmeURL:     res.ReadmeURL,
		CountsForYSWS: res.CountsForYSWS,
		Reasoning:     res.Reasoning,
		DemoType:      domain.DemoType(res.DemoType),
		ReleaseLink:   res.ReleaseLink,
		ReleaseType:   domain.ReleaseType(res.ReleaseType),
		ReadmeKind:    domain.ReadmeKind(res.ReadmeKind),
		IsFork:        res.IsFork,
	}

	// 不信任 AI 的输出：枚举越界或关键字段缺失一律按推理失败处理
	if err := analysis.Validate(); err != nil {
		return nil, fmt.Errorf("Schema 校验失败: %w", err)
	}

	return analysis, nil
}
