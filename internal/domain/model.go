package domain

import (
	"fmt"
	"time"
)

// Submission 代表一次黑客松项目提交
// 三个 URL 在进入流水线前只做非空校验，可达性由探测器负责
type Submission struct {
	RepoURL   string `json:"repoUrl"`
	DemoURL   string `json:"demoUrl"`
	ReadmeURL string `json:"readmeUrl"`
}

// Complete 检查三个必填 URL 是否都存在
func (s Submission) Complete() bool {
	return s.RepoURL != "" && s.DemoURL != "" && s.ReadmeURL != ""
}

// DemoType Demo 链接的封闭分类
type DemoType string

const (
	DemoDirectLink     DemoType = "direct_link"     // 可直接交互的在线链接
	DemoVideo          DemoType = "video"           // 视频演示
	DemoJustifiedVideo DemoType = "justified_video" // 有合理理由只能用视频的项目
	DemoOther          DemoType = "other"
	DemoInaccessible   DemoType = "inaccessible"
)

// Valid 判断是否属于声明的枚举值
func (d DemoType) Valid() bool {
	switch d {
	case DemoDirectLink, DemoVideo, DemoJustifiedVideo, DemoOther, DemoInaccessible:
		return true
	}
	return false
}

// ReleaseType 发布产物的封闭分类
type ReleaseType string

const (
	ReleaseExecutable ReleaseType = "executable"  // 有可执行产物
	ReleaseSourceOnly ReleaseType = "source_only" // 只有源码
	ReleaseNone       ReleaseType = "none"
)

func (r ReleaseType) Valid() bool {
	switch r {
	case ReleaseExecutable, ReleaseSourceOnly, ReleaseNone:
		return true
	}
	return false
}

// ReadmeKind README 的封闭分类：原创、改过的模板、原封不动的模板
type ReadmeKind string

const (
	ReadmeOriginal           ReadmeKind = "original"
	ReadmeModifiedTemplate   ReadmeKind = "modified_template"
	ReadmeUnmodifiedTemplate ReadmeKind = "unmodified_template"
)

func (k ReadmeKind) Valid() bool {
	switch k {
	case ReadmeOriginal, ReadmeModifiedTemplate, ReadmeUnmodifiedTemplate:
		return true
	}
	return false
}

// 固定的兜底文案，测试和调用方都依赖这两个字符串
const (
	ReasoningInaccessible   = "One or more URLs are inaccessible"
	ReasoningInferenceError = "AI inference error"
)

// Analysis 一次完整评审的结果
// 前十个字段由 LLM 产出（或被 GitHub 实测数据覆盖），其余字段用于入库
type Analysis struct {
	ID          uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	ProjectName string `json:"project_name"`
	Description string `json:"project_description"`
	ReadmeURL   string `json:"readme_url"`

	// 核心判定：是否符合 YSWS 资格，以及一句话理由
	CountsForYSWS bool   `json:"counts_for_ysws"`
	Reasoning     string `json:"reasoning" gorm:"type:text"`

	DemoType    DemoType    `json:"demo_url_type"`
	ReleaseLink string      `json:"release_link,omitempty"`
	ReleaseType ReleaseType `json:"release_type"`
	ReadmeKind  ReadmeKind  `json:"readme_template"`
	IsFork      bool        `json:"is_fork"`

	RepoURL   string    `json:"repo_url,omitempty"`
	DemoURL   string    `json:"demo_url,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// Validate 防御性校验 LLM 返回的结构
// 任何枚举越界或关键字段缺失都视为推理失败
func (a *Analysis) Validate() error {
	if a.Reasoning == "" {
		return fmt.Errorf("reasoning 为空")
	}
	if !a.DemoType.Valid() {
		return fmt.Errorf("非法的 demo_url_type: %q", a.DemoType)
	}
	if !a.ReleaseType.Valid() {
		return fmt.Errorf("非法的 release_type: %q", a.ReleaseType)
	}
	if !a.ReadmeKind.Valid() {
		return fmt.Errorf("非法的 readme_template: %q", a.ReadmeKind)
	}
	return nil
}

// FallbackAnalysis AI 推理失败时的固定兜底记录
// 无论失败原因是什么（网络、超时、非法 JSON），结果都一样
func FallbackAnalysis(sub Submission) *Analysis {
	return &Analysis{
		ProjectName:   "Unknown",
		ReadmeURL:     sub.ReadmeURL,
		CountsForYSWS: false,
		Reasoning:     ReasoningInferenceError,
		DemoType:      DemoOther,
		ReleaseType:   ReleaseNone,
		ReadmeKind:    ReadmeOriginal,
		RepoURL:       sub.RepoURL,
		DemoURL:       sub.DemoURL,
	}
}

// InaccessibleAnalysis 任一 URL 探测失败时的固定记录，跳过 AI 调用
func InaccessibleAnalysis(sub Submission) *Analysis {
	return &Analysis{
		ProjectName:   "Unknown",
		ReadmeURL:     sub.ReadmeURL,
		CountsForYSWS: false,
		Reasoning:     ReasoningInaccessible,
		DemoType:      DemoInaccessible,
		ReleaseType:   ReleaseNone,
		ReadmeKind:    ReadmeOriginal,
		RepoURL:       sub.RepoURL,
		DemoURL:       sub.DemoURL,
	}
}

// RepoFacts GitHub API 实测到的仓库事实，用于覆盖 LLM 的猜测
type RepoFacts struct {
	IsFork      bool
	Description string
	ReleaseLink string
	ReleaseType ReleaseType
}

// Decision 对外响应信封：内部分析结果只向调用方暴露这两个字段
type Decision struct {
	YSWSDecision  bool   `json:"ysws_decision"`
	YSWSReasoning string `json:"ysws_reasoning"`
}

// ToDecision 把完整分析收窄为对外信封
func (a *Analysis) ToDecision() Decision {
	return Decision{
		YSWSDecision:  a.CountsForYSWS,
		YSWSReasoning: a.Reasoning,
	}
}
