// Package upstream は外部AI推論サービスとのHTTP通信を行うクライアントを提供する。
//
// gatewayサービスが検証済みリクエストのペイロードをAIサービスに中継する際に
// 使用する。レスポンスのボディとステータスコードは加工せずそのまま返し、
// 呼び出し側（gateway）が変換せずにクライアントへ転送できるようにする。
package upstream
