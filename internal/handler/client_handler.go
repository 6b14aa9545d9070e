package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/clientman/internal/middleware"
	"github.com/hitoshi/clientman/internal/model"
)

// ClientServiceInterface はクライアントハンドラーが必要とするサービスインターフェース。
type ClientServiceInterface interface {
	Create(ctx context.Context, actor *model.User, name, callbackURL string) (*model.Client, error)
	List(ctx context.Context, actor *model.User) ([]*model.Client, error)
	Delete(ctx context.Context, actor *model.User, clientID string) error
}

// UserFinder は認証済みユーザーIDからアクターを解決するためのインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// ClientMetrics はクライアント関連のビジネスメトリクス記録インターフェース。
type ClientMetrics interface {
	RecordClientCreated()
	RecordClientDeleted()
}

// ClientHandler はAPIクライアント管理のHTTPハンドラー。
type ClientHandler struct {
	service ClientServiceInterface
	users   UserFinder
	metrics ClientMetrics
}

// NewClientHandler はClientHandlerを生成する。metricsはnil可。
func NewClientHandler(service ClientServiceInterface, users UserFinder, metrics ClientMetrics) *ClientHandler {
	return &ClientHandler{
		service: service,
		users:   users,
		metrics: metrics,
	}
}

// createClientRequest はクライアント登録リクエストのボディ。
type createClientRequest struct {
	Name        string `json:"name"`
	CallbackURL string `json:"callback_url"`
}

// clientResponse はクライアント情報のAPIレスポンス。
type clientResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CallbackURL  string    `json:"callback_url"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	CreatedAt    time.Time `json:"created_at"`
}

func toClientResponse(client *model.Client) clientResponse {
	return clientResponse{
		ID:           client.ID,
		Name:         client.Name,
		CallbackURL:  client.CallbackURL,
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		CreatedAt:    client.CreatedAt,
	}
}

// actorFromContext はセッションミドルウェアが注入したユーザーIDからアクターを解決する。
func (h *ClientHandler) actorFromContext(ctx context.Context) (*model.User, error) {
	userID, err := middleware.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	user, err := h.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// Create はAPIクライアント登録を処理する。
// POST /api/clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorFromContext(r.Context())
	if err != nil {
		writeUnauthenticated(w, err)
		return
	}

	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	client, err := h.service.Create(r.Context(), actor, req.Name, req.CallbackURL)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordClientCreated()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toClientResponse(client))
}

// List はアクターが所有するクライアント一覧を返す。
// GET /api/clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorFromContext(r.Context())
	if err != nil {
		writeUnauthenticated(w, err)
		return
	}

	clients, err := h.service.List(r.Context(), actor)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		responses = append(responses, toClientResponse(c))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"clients": responses,
	})
}

// Delete はクライアント削除を処理する。所有者のみ削除できる。
// DELETE /api/clients/{id}
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actorFromContext(r.Context())
	if err != nil {
		writeUnauthenticated(w, err)
		return
	}

	clientID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), actor, clientID); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordClientDeleted()
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeUnauthenticated はアクター解決に失敗した場合の401レスポンスを書き込む。
func writeUnauthenticated(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUserNotFound {
		// セッションは有効だがユーザーが削除済み
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, apiErr)
		return
	}
	slog.Warn("failed to resolve actor", slog.String("error", err.Error()))
	middleware.WriteErrorResponse(w, http.StatusUnauthorized, &model.APIError{
		Code:     model.ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	})
}
