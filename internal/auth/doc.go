// Package auth はサインアップとログインの認証ロジックを提供する。
//
// パスワードはbcryptでハッシュ化して保存し、認証成功時には
// 30日間有効な署名付きトークンを発行する。ストアはインターフェース
// として注入され、揮発・永続いずれの実装でも動作する。
package auth
