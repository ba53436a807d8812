package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/nao1215/newslens/internal/userstore"
	"github.com/nao1215/newslens/pkg/middleware"
)

// ErrEmptyFields はメールアドレスまたはパスワードが未入力の場合のエラー。
var ErrEmptyFields = errors.New("email and password are required")

// ErrInvalidCredentials はログイン失敗を表すエラー。
// ユーザーが存在しない場合とパスワードが一致しない場合で同一のエラーを
// 返し、呼び出し側が両者を区別できないようにする（ユーザー列挙の防止）。
var ErrInvalidCredentials = errors.New("invalid credentials")

// bcryptCost はパスワードハッシュのコストファクタ。
// bcrypt.DefaultCost は10で、参照実装のラウンド数と同じ。
const bcryptCost = bcrypt.DefaultCost

// Authenticator はユーザーの登録と認証を行う。
type Authenticator struct {
	// store はユーザー資格情報ストア。
	store userstore.Store
	// jwtSecret はトークン署名用の秘密鍵。
	jwtSecret string
}

// New は新しいAuthenticatorを生成する。
func New(store userstore.Store, jwtSecret string) *Authenticator {
	return &Authenticator{
		store:     store,
		jwtSecret: jwtSecret,
	}
}

// Signup は新しいユーザーを登録し、トークンを発行する。
// 入力が空の場合はErrEmptyFields、メールアドレスが登録済みの場合は
// userstore.ErrEmailTakenを返す。
func (a *Authenticator) Signup(ctx context.Context, email, password string) (*userstore.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrEmptyFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("パスワードハッシュの生成に失敗: %w", err)
	}

	user, err := a.store.Register(ctx, email, string(hash))
	if err != nil {
		return nil, "", err
	}

	token, err := middleware.GenerateJWT(a.jwtSecret, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login は資格情報を検証し、既存ユーザーに新しいトークンを発行する。
// 失敗理由によらずErrInvalidCredentialsを返す。
func (a *Authenticator) Login(ctx context.Context, email, password string) (*userstore.User, string, error) {
	user, err := a.store.FindByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := middleware.GenerateJWT(a.jwtSecret, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
