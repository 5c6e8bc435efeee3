package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ysws-qualifier/internal/common"
	"ysws-qualifier/internal/domain"
	"ysws-qualifier/internal/logger"
)

type Notifier struct {
	webhookURL string
}

func NewNotifier(webhook string) *Notifier {
	if webhook == "" {
		logger.Log.Warn("飞书 Webhook 为空，推送功能将无法工作")
	}
	return &Notifier{webhookURL: webhook}
}

// Notify 发送飞书卡片消息 (Schema 2.0)，只推送通过评审的项目
func (n *Notifier) Notify(ctx context.Context, analysis *domain.Analysis) error {
	if n.webhookURL == "" {
		return fmt.Errorf("Webhook URL 为空")
	}

	// 1. 准备标题
	title := fmt.Sprintf("✅ YSWS 合格项目: %s", analysis.ProjectName)

	// 2. 构造 Markdown 内容
	mdContent := fmt.Sprintf(`**📦 Demo 类型:** %s  |  **发布形式:** %s  |  **Fork:** %v

**📝 项目描述:**
%s

**🤖 评审理由:**
%s
`,
		analysis.DemoType, analysis.ReleaseType, analysis.IsFork,
		analysis.Description,
		analysis.Reasoning)

	// 3. 构造 Schema 2.0 JSON 结构
	payload := map[string]interface{}{
		"msg_type": "interactive",
		"card": map[string]interface{}{
			"schema": "2.0",
			"config": map[string]interface{}{
				"update_multi": true,
			},
			"header": map[string]interface{}{
				"title": map[string]interface{}{
					"tag":     "plain_text",
					"content": title,
				},
				"template": "green",
			},
			"body": map[string]interface{}{
				"direction": "vertical",
				"elements": []map[string]interface{}{
					{
						"tag":       "markdown",
						"content":   mdContent,
						"text_size": "normal",
					},
					{
						"tag": "button",
						"text": map[string]interface{}{
							"tag":     "plain_text",
							"content": "🔗 查看源码",
						},
						"type": "primary",
						"behaviors": []map[string]interface{}{
							{
								"type":        "open_url",
								"default_url": analysis.RepoURL,
							},
						},
					},
				},
			},
		},
	}

	// 4. 发送请求 (带重试机制)
	body, _ := json.Marshal(payload)
	err := common.Do(ctx, func() error {
		resp, postErr := http.Post(n.webhookURL, "application/json", bytes.NewBuffer(body))
		if postErr != nil {
			return postErr
		}
		defer resp.Body.Close()

		if resp.StatusCode != 200 {
			return fmt.Errorf("飞书 API 报错: 状态码 %d", resp.StatusCode)
		}
		return nil
	},
		common.WithMaxRetries(3),
		common.WithInitialDelay(500*time.Millisecond),
	)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}

	return nil
}
