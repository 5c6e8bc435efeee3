package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"ysws-qualifier/internal/common"
	"ysws-qualifier/internal/domain"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

// 带这些后缀的 Release 资产视为可执行产物
var executableAssetExts = []string{
	".exe", ".dmg", ".apk", ".deb", ".rpm", ".msi", ".appimage", ".bin", ".jar",
}

// Inspector 实现了 port.Inspector 接口
// 只对 github.com 上的仓库生效，其余托管平台直接降级
type Inspector struct {
	client *github.Client
}

// NewInspector 初始化 GitHub 客户端，token 为空时走匿名额度
func NewInspector(token string) *Inspector {
	var client *github.Client

	if token == "" {
		client = github.NewClient(nil)
	} else {
		ctx := context.Background()
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		client = github.NewClient(tc)
	}

	return &Inspector{client: client}
}

// Inspect 获取仓库的实测事实：是否 fork、描述、最新 Release
// 这些数据用来覆盖 LLM 的猜测；拿不到就返回错误让调用方降级
func (i *Inspector) Inspect(ctx context.Context, repoURL string) (*domain.RepoFacts, error) {
	owner, name, err := splitRepoURL(repoURL)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeGitHubAPI, "非 GitHub 仓库地址", err)
	}

	repo, _, err := i.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, common.WrapError(common.ErrCodeGitHubAPI, "获取仓库信息失败", err)
	}

	facts := &domain.RepoFacts{
		IsFork:      repo.GetFork(),
		Description: repo.GetDescription(),
		ReleaseType: domain.ReleaseNone,
	}

	// Release 可以不存在，404 不算失败
	release, _, err := i.client.Repositories.GetLatestRelease(ctx, owner, name)
	if err == nil && release != nil {
		facts.ReleaseLink = release.GetHTMLURL()
		facts.ReleaseType = classifyRelease(release)
	}

	return facts, nil
}

// classifyRelease 按资产后缀区分可执行产物和纯源码发布
func classifyRelease(release *github.RepositoryRelease) domain.ReleaseType {
	for _, asset := range release.Assets {
		lower := strings.ToLower(asset.GetName())
		for _, ext := range executableAssetExts {
			if strings.HasSuffix(lower, ext) {
				return domain.ReleaseExecutable
			}
		}
	}
	// 有 Release 但没有可执行资产，只剩源码包
	return domain.ReleaseSourceOnly
}

// splitRepoURL 从 https://github.com/{owner}/{repo} 中拆出 owner 和 repo
func splitRepoURL(rawURL string) (owner, name string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", err
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if host != "github.com" {
		return "", "", fmt.Errorf("host %q 不是 github.com", u.Host)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("无法从路径 %q 解析 owner/repo", u.Path)
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
