package router

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/chatterbox-dev/chatterbox/internal/middleware"
	"github.com/chatterbox-dev/chatterbox/internal/middleware/metrics"
	rl "github.com/chatterbox-dev/chatterbox/internal/middleware/ratelimiter"
	"github.com/chatterbox-dev/chatterbox/internal/setup"
)

// New creates and configures a new mux router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit request for all endpoints combined in that subrouter
func New(deps *setup.Dependencies) *mux.Router {
	r := mux.NewRouter()

	// setup CORS for frontend
	r.Use(handlers.CORS(
		handlers.AllowedOrigins(deps.Config.Public.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	))

	// Backend CSP: strict policy (JSON API only, no scripts/styles needed)
	backendCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.SecureCookies, backendCSP))

	// Add a wildcard OPTIONS handler to avoid 404s for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")

	// Signed webhook from the auth provider; no session auth.
	r.HandleFunc("/api/webhooks/auth", h.AuthWebhook).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(metrics.Middleware)

	// The event stream stays uncompressed so frames flush immediately.
	stream := api.PathPrefix("/message/stream").Subrouter()
	stream.Use(authMw.NeedAuth())
	stream.HandleFunc("/{userId}", h.StreamMessages).Methods("GET")

	// Everything else is authenticated, compressed and per-user rate limited.
	loggedIn := api.NewRoute().Subrouter()
	loggedIn.Use(handlers.CompressHandler)
	loggedIn.Use(authMw.NeedAuth())
	loggedIn.Use(mw.RateLimit(rl.Rps100(), mw.GetUserIDFromContext))

	// SendMessage: 1 per second per user
	loggedIn.Handle("/message/send",
		mw.RateLimit(rl.OncePerSecond(), mw.GetUserIDFromContext)(http.HandlerFunc(h.SendMessage))).Methods("POST")
	loggedIn.HandleFunc("/message/chat/{peerId}", h.GetChatMessages).Methods("GET")
	loggedIn.HandleFunc("/message/recent", h.GetRecentMessages).Methods("GET")

	loggedIn.HandleFunc("/user/data", h.GetUserData).Methods("GET")
	loggedIn.HandleFunc("/user/update", h.UpdateProfile).Methods("POST")
	loggedIn.HandleFunc("/user/discover", h.DiscoverUsers).Methods("POST")
	loggedIn.HandleFunc("/user/follow", h.FollowUser).Methods("POST")
	loggedIn.HandleFunc("/user/unfollow", h.UnfollowUser).Methods("POST")
	// SendConnectionRequest: 1 per 10 seconds per user (the sliding daily cap
	// is enforced in the service)
	loggedIn.Handle("/user/connect",
		mw.RateLimit(rl.New(0.1, 1, 1*time.Hour), mw.GetUserIDFromContext)(http.HandlerFunc(h.SendConnectionRequest))).Methods("POST")
	loggedIn.HandleFunc("/user/accept", h.AcceptConnectionRequest).Methods("POST")
	loggedIn.HandleFunc("/user/connections", h.GetUserConnections).Methods("GET")
	loggedIn.HandleFunc("/user/profiles", h.GetUserProfiles).Methods("POST")

	loggedIn.HandleFunc("/post/add", h.AddPost).Methods("POST")
	loggedIn.HandleFunc("/post/feed", h.GetFeedPosts).Methods("GET")
	loggedIn.HandleFunc("/post/like", h.LikePost).Methods("POST")

	loggedIn.HandleFunc("/story/create", h.CreateStory).Methods("POST")
	loggedIn.HandleFunc("/story/get", h.GetStories).Methods("GET")

	return r
}
