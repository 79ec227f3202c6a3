package api

import (
	"net/http"

	"github.com/erazemk/najdeno/internal/service"
)

// BlobServer serves stored media by name.
type BlobServer interface {
	ServeBlob(w http.ResponseWriter, r *http.Request)
}

// NewRouter creates the API router with all endpoints registered. blobs may
// be nil when media is served from elsewhere (a public bucket).
func NewRouter(accounts *service.AccountService, items *service.ItemService, blobs BlobServer) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Accounts: accounts}
	itemsHandler := &ItemsHandler{Items: items}
	mediaHandler := &MediaHandler{Items: items}

	authMW := AuthMiddleware(accounts)

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Session.
	mux.Handle("POST /api/auth/logout", authMW(RequireAuth(http.HandlerFunc(authHandler.Logout))))
	mux.Handle("GET /api/auth/me", authMW(RequireAuth(http.HandlerFunc(authHandler.Me))))

	// Items: read (anyone, contact details for signed-in actors), write (signed in).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("POST /api/items", authMW(RequireAuth(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("PUT /api/items/{id}/status", authMW(RequireAuth(http.HandlerFunc(itemsHandler.UpdateStatus))))
	mux.Handle("DELETE /api/items/{id}", authMW(RequireAuth(http.HandlerFunc(itemsHandler.Delete))))

	mux.Handle("GET /api/dashboard", authMW(RequireAuth(http.HandlerFunc(itemsHandler.Dashboard))))
	mux.Handle("GET /api/admin/items", authMW(RequireAdmin(http.HandlerFunc(itemsHandler.AdminList))))

	// Media.
	mux.Handle("POST /api/media", authMW(RequireAuth(http.HandlerFunc(mediaHandler.Upload))))
	if blobs != nil {
		mux.HandleFunc("GET /media/items/{name}", blobs.ServeBlob)
	}

	return mux
}
