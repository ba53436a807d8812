// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// Bearerトークンの検証、リクエストID付与、パニックリカバリ、
// CORS設定など、gatewayサービスの全リクエストに共通する処理を含む。
package middleware
