package userstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/newslens/pkg/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrEmailTaken は既に登録済みのメールアドレスで登録しようとした場合のエラー。
var ErrEmailTaken = errors.New("email already registered")

// ErrNotFound は該当するユーザーが存在しない場合のエラー。
var ErrNotFound = errors.New("user not found")

// User は登録済みユーザーを表す。
type User struct {
	// ID は登録時に採番される一意識別子。再利用・変更されない。
	ID int64
	// Email は登録時のメールアドレス。大文字小文字を区別して一意。
	Email string
	// PasswordHash はパスワードのbcryptハッシュ。平文は保持しない。
	PasswordHash string
	// CreatedAt は登録日時。
	CreatedAt time.Time
}

// Store はユーザー資格情報ストアのインターフェース。
type Store interface {
	// Register は新しいユーザーを登録する。
	// メールアドレスが登録済みの場合はErrEmailTakenを返す。
	Register(ctx context.Context, email, passwordHash string) (*User, error)
	// FindByEmail はメールアドレスでユーザーを検索する。
	// 該当がない場合はErrNotFoundを返す。
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByID はIDでユーザーを検索する。
	// 該当がない場合はErrNotFoundを返す。
	FindByID(ctx context.Context, id int64) (*User, error)
}

// SQLiteStore はSQLiteを使用したStoreの実装。
type SQLiteStore struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// Storeインターフェースを満たすことをコンパイル時に保証する。
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore は新しいSQLiteStoreを生成し、スキーマを適用する。
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if err := migration.Run(db, migrationsFS, "migrations"); err != nil {
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Register は新しいユーザーを登録する。
// 重複チェックと挿入を1つのトランザクションで実行し、
// 並行サインアップ時のメールアドレス重複を防ぐ。
func (s *SQLiteStore) Register(ctx context.Context, email, passwordHash string) (*User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&count); err != nil {
		return nil, fmt.Errorf("重複チェックに失敗: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	createdAt := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, ?)",
		email, passwordHash, createdAt)
	if err != nil {
		return nil, fmt.Errorf("ユーザー挿入に失敗: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("採番されたIDの取得に失敗: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("トランザクションのコミットに失敗: %w", err)
	}

	return &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}

// FindByEmail はメールアドレスでユーザーを検索する。
// 照合はBINARY（大文字小文字を区別する完全一致）で行う。
func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email)
}

// FindByID はIDでユーザーを検索する。
func (s *SQLiteStore) FindByID(ctx context.Context, id int64) (*User, error) {
	return s.findOne(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE id = ?", id)
}

// findOne は1件取得クエリの共通処理。
func (s *SQLiteStore) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザー検索に失敗: %w", err)
	}
	return &u, nil
}
