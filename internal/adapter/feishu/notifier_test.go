package feishu

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ysws-qualifier/internal/domain"

	"github.com/stretchr/testify/assert"
)

func qualifiedAnalysis() *domain.Analysis {
	return &domain.Analysis{
		ProjectName:   "weather-cli",
		Description:   "Terminal weather dashboard",
		CountsForYSWS: true,
		Reasoning:     "Original project with a live demo and custom README",
		DemoType:      domain.DemoDirectLink,
		ReleaseType:   domain.ReleaseExecutable,
		ReadmeKind:    domain.ReadmeOriginal,
		RepoURL:       "https://github.com/test/weather-cli",
		DemoURL:       "https://weather.example.com",
	}
}

// mockWebhookServer 创建模拟的飞书 Webhook 服务器
func mockWebhookServer(t *testing.T, statusCode int, validatePayload func(*testing.T, map[string]interface{})) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var payload map[string]interface{}
		assert.NoError(t, json.Unmarshal(body, &payload))

		if validatePayload != nil {
			validatePayload(t, payload)
		}

		w.WriteHeader(statusCode)
		w.Write([]byte(`{"code": 0, "msg": "success"}`))
	}))
}

func TestNotifier_Notify(t *testing.T) {
	server := mockWebhookServer(t, http.StatusOK, func(t *testing.T, payload map[string]interface{}) {
		assert.Equal(t, "interactive", payload["msg_type"])

		card, ok := payload["card"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "2.0", card["schema"])

		// 标题带项目名
		header := card["header"].(map[string]interface{})
		title := header["title"].(map[string]interface{})
		assert.Contains(t, title["content"], "weather-cli")
		assert.Equal(t, "green", header["template"])

		// markdown 内容带评审理由，按钮指向仓库
		body := card["body"].(map[string]interface{})
		elements := body["elements"].([]interface{})
		assert.Equal(t, 2, len(elements))

		markdown := elements[0].(map[string]interface{})
		assert.Contains(t, markdown["content"], "Original project")

		button := elements[1].(map[string]interface{})
		behaviors := button["behaviors"].([]interface{})
		behavior := behaviors[0].(map[string]interface{})
		assert.Equal(t, "https://github.com/test/weather-cli", behavior["default_url"])
	})
	defer server.Close()

	notifier := NewNotifier(server.URL)
	err := notifier.Notify(context.Background(), qualifiedAnalysis())

	assert.NoError(t, err)
}

func TestNotifier_Notify_ErrorCases(t *testing.T) {
	tests := []struct {
		name           string
		setupNotifier  func() *Notifier
		expectError    bool
		errorSubstring string
	}{
		{
			name: "Webhook URL 为空",
			setupNotifier: func() *Notifier {
				return NewNotifier("")
			},
			expectError:    true,
			errorSubstring: "Webhook URL 为空",
		},
		{
			name: "飞书 API 返回 400 错误",
			setupNotifier: func() *Notifier {
				server := mockWebhookServer(t, http.StatusBadRequest, nil)
				t.Cleanup(server.Close)
				return NewNotifier(server.URL)
			},
			expectError:    true,
			errorSubstring: "飞书 API 报错",
		},
		{
			name: "飞书 API 返回 500 错误",
			setupNotifier: func() *Notifier {
				server := mockWebhookServer(t, http.StatusInternalServerError, nil)
				t.Cleanup(server.Close)
				return NewNotifier(server.URL)
			},
			expectError:    true,
			errorSubstring: "飞书 API 报错",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := tt.setupNotifier()

			err := notifier.Notify(context.Background(), qualifiedAnalysis())

			if tt.expectError {
				assert.Error(t, err)
				if tt.errorSubstring != "" {
					assert.Contains(t, err.Error(), tt.errorSubstring)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewNotifier(t *testing.T) {
	n := NewNotifier("https://open.feishu.cn/open-apis/bot/v2/hook/test-hook")
	assert.NotNil(t, n)
	assert.Equal(t, "https://open.feishu.cn/open-apis/bot/v2/hook/test-hook", n.webhookURL)

	empty := NewNotifier("")
	assert.NotNil(t, empty)
	assert.Equal(t, "", empty.webhookURL)
}
