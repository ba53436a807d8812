package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultTimeout はAIサービスへのリクエストの上限時間。
// 参照系の推論処理は数秒かかることがあるため長めに取るが、
// 応答しないサービスでリクエストが無期限に滞留しないよう必ず打ち切る。
const defaultTimeout = 30 * time.Second

// Client はAIサービスへの中継用HTTPクライアント。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先AIサービスのベースURL。
	baseURL string
}

// New は新しいAIサービス用クライアントを生成する。
// baseURLには接続先のベースURL（例: "http://ai-service:8000"）を指定する。
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
	}
}

// Forward は指定パスにJSONペイロードをPOSTし、レスポンスの
// ステータスコードとボディをそのまま返す。
//
// AIサービスがエラーステータスを返した場合もエラーとは扱わず、
// ステータスとボディを呼び出し側に返す。トランスポート障害
// （接続不能、タイムアウト等）およびJSONとして不正なレスポンスボディは
// エラーとして返す。
func (c *Client) Forward(ctx context.Context, path string, payload []byte) (int, []byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("レスポンスボディの読み取りに失敗: %w", err)
	}

	if !json.Valid(body) {
		return 0, nil, fmt.Errorf("レスポンスボディが不正なJSON: status=%d", resp.StatusCode)
	}

	return resp.StatusCode, body, nil
}
