// Package userstore は登録済みユーザーの資格情報ストアを提供する。
//
// 参照実装ではプロセス内の可変配列だったユーザー登記簿を、
// 合成ルート（cmd/gateway）から注入されるStoreインターフェースとして
// 再設計したもの。SQLite実装を同梱し、テストや開発では ":memory:" DSNで
// 揮発性ストアとして動作する。
package userstore
