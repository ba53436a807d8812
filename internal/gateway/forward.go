package gateway

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AIサービス側の論理操作に対応する固定パス。
const (
	// pathAnalyzeTopic はトピック分析操作のパス。ペイロードは {query}。
	pathAnalyzeTopic = "/analyze-topic"
	// pathSummarizeText はテキスト要約操作のパス。ペイロードは {text}。
	pathSummarizeText = "/summarize-text"
)

// handleForward は検証済みリクエストのペイロードをAIサービスの指定パスに
// 中継するハンドラを返す。両操作はパスとペイロード形式のみが異なり、
// 中継アルゴリズムは共通。
//
//   - AIサービスのURLが未設定の場合はネットワーク呼び出しを行わず500を返す。
//   - AIサービスが応答した場合はステータスとボディをそのまま転送する
//     （エラーステータスも含む。リトライなし）。
//   - トランスポート障害の場合は503と固定メッセージを返す。
//     内部エラーの詳細はログにのみ残し、クライアントには返さない。
func (s *Server) handleForward(upstreamPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.aiClient == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service URL is not configured"})
			return
		}

		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		status, body, err := s.aiClient.Forward(c.Request.Context(), upstreamPath, payload)
		if err != nil {
			log.Printf("AIサービスへの中継に失敗: path=%s, error=%v", upstreamPath, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to communicate with the AI service"})
			return
		}

		c.Data(status, "application/json", body)
	}
}
