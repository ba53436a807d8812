// Package gateway はAPI Gatewayサービスの内部実装を提供する。
//
// ユーザー登録・ログインによるトークン発行、Bearerトークンの検証、
// 検証済みリクエストの外部AIサービスへの中継を担当する。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線として
// 機能する。AIサービスのレスポンスとエラーステータスは加工せず
// そのままクライアントに転送する。
package gateway
