package gateway

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"

	"github.com/nao1215/newslens/internal/auth"
	"github.com/nao1215/newslens/internal/userstore"
	"github.com/nao1215/newslens/pkg/middleware"
	"github.com/nao1215/newslens/pkg/upstream"
)

// Server はAPI GatewayサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// store はユーザー資格情報ストア。
	store userstore.Store
	// db はSQLiteデータベース接続。
	db *sql.DB
	// authenticator はサインアップ・ログイン処理を行う。
	authenticator *auth.Authenticator
	// jwtSecret はトークン署名用の秘密鍵。
	jwtSecret string
	// aiClient はAIサービスへの中継クライアント。
	// AI_SERVICE_URLが未設定の場合はnilで、中継リクエストは500を返す。
	aiClient *upstream.Client
}

// NewServer は新しいGatewayサーバーを生成する。
// JWT_SECRETが未設定の場合はエラーを返す（起動時に致命的エラーとする）。
// AI_SERVICE_URLの未設定は起動を妨げず、中継リクエスト時に検出する。
func NewServer(port string) (*Server, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("環境変数JWT_SECRETが設定されていません")
	}

	dbPath := getEnvOr("GATEWAY_DB_PATH", "/data/newslens.db")
	sqlDB, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	store, err := userstore.NewSQLiteStore(sqlDB)
	if err != nil {
		return nil, err
	}

	var aiClient *upstream.Client
	if aiServiceURL := os.Getenv("AI_SERVICE_URL"); aiServiceURL != "" {
		aiClient = upstream.New(aiServiceURL)
	} else {
		log.Printf("AI_SERVICE_URLが未設定のため、中継リクエストは失敗します")
	}

	frontendURL := getEnvOr("FRONTEND_URL", "http://localhost:3000")

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS([]string{frontendURL}))

	s := &Server{
		router:        router,
		port:          port,
		store:         store,
		db:            sqlDB,
		authenticator: auth.New(store, jwtSecret),
		jwtSecret:     jwtSecret,
		aiClient:      aiClient,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 認証エンドポイント（トークン不要）
	authGroup := s.router.Group("/api/auth")
	{
		authGroup.POST("/signup", s.handleSignup())
		authGroup.POST("/login", s.handleLogin())
	}

	// トークン必須のAI中継エンドポイント。
	// ゲート（JWTAuth）が必ず中継より先に実行される。
	api := s.router.Group("/api")
	api.Use(middleware.JWTAuth(s.jwtSecret))
	api.Use(s.resolveUser())
	{
		api.POST("/analyze", s.handleForward(pathAnalyzeTopic))
		api.POST("/summarize", s.handleForward(pathSummarizeText))
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})
}

// credentialsRequest はサインアップ・ログインリクエストのJSON構造。
type credentialsRequest struct {
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Password はユーザーのパスワード（平文）。
	Password string `json:"password"`
}

// authResponse は認証成功時のレスポンスのJSON構造。
type authResponse struct {
	// ID はユーザーの一意識別子。
	ID int64 `json:"id"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Token は発行された署名付きトークン。
	Token string `json:"token"`
}

// handleSignup は新規ユーザー登録を処理するハンドラを返す。
func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "please enter all fields"})
			return
		}

		user, token, err := s.authenticator.Signup(c.Request.Context(), req.Email, req.Password)
		switch {
		case errors.Is(err, auth.ErrEmptyFields):
			c.JSON(http.StatusBadRequest, gin.H{"message": "please enter all fields"})
			return
		case errors.Is(err, userstore.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "user already exists"})
			return
		case err != nil:
			log.Printf("サインアップ処理に失敗: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to register user"})
			return
		}

		log.Printf("新規ユーザーを登録しました: id=%d, email=%s", user.ID, user.Email)
		c.JSON(http.StatusCreated, authResponse{
			ID:    user.ID,
			Email: user.Email,
			Token: token,
		})
	}
}

// handleLogin はログインを処理するハンドラを返す。
// 「ユーザーが存在しない」と「パスワード不一致」は同一のレスポンスを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid credentials"})
			return
		}

		user, token, err := s.authenticator.Login(c.Request.Context(), req.Email, req.Password)
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid credentials"})
			return
		case err != nil:
			log.Printf("ログイン処理に失敗: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to log in"})
			return
		}

		c.JSON(http.StatusOK, authResponse{
			ID:    user.ID,
			Email: user.Email,
			Token: token,
		})
	}
}

// resolveUser はトークンの件名IDをストアで解決し、ユーザーをコンテキストに
// 添付するGinミドルウェアを返す。JWTAuthの後段で実行されることを前提とする。
//
// トークンは有効期限が切れるまでストアの状態と独立して有効なため、
// 件名IDに対応するユーザーが存在しない場合（例: ストアの再構築後）でも
// リクエストは拒否しない。解決失敗はログにのみ残す。
func (s *Server) resolveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		user, err := s.store.FindByID(c.Request.Context(), userID)
		switch {
		case errors.Is(err, userstore.ErrNotFound):
			log.Printf("トークンの件名ID %d に対応するユーザーが存在しません", userID)
		case err != nil:
			log.Printf("ユーザー解決に失敗: id=%d, error=%v", userID, err)
		default:
			c.Set("user", user)
		}
		c.Next()
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
