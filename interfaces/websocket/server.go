package websocket

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mindgraph-backend/application/services"
	"mindgraph-backend/pkg/auth"
)

const maxConnectionsPerUser = 10

// Server upgrades HTTP requests to WebSocket connections and ties them
// to layout sessions. The first connection for a user starts their
// simulation; when the last one closes the simulation stops.
type Server struct {
	hub       *Hub
	layout    *services.LayoutManager
	validator *auth.JWTValidator
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

// NewServer creates the WebSocket server. The user's layout session is
// stopped once their last connection goes away.
func NewServer(hub *Hub, layoutManager *services.LayoutManager, validator *auth.JWTValidator, logger *zap.Logger) *Server {
	hub.OnUserGone(func(userID string) {
		layoutManager.StopSession(userID)
	})
	return &Server{
		hub:       hub,
		layout:    layoutManager,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Origin enforcement happens at the edge proxy.
				return true
			},
		},
		logger: logger,
	}
}

// HandleGraph handles GET /ws/graph
func (s *Server) HandleGraph(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		s.logger.Warn("WebSocket authentication failed",
			zap.Error(err),
			zap.String("remoteAddr", r.RemoteAddr),
		)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if s.hub.ConnectionCount(userID) >= maxConnectionsPerUser {
		http.Error(w, "Connection limit exceeded", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	firstConnection := s.hub.ConnectionCount(userID) == 0

	client := NewClient(userID, s.hub, s.layout, conn, s.logger)
	client.Start()

	if firstConnection {
		// StartSession no-ops into an idle session when the user has no
		// notes yet; the simulation starts on the first rebuild instead.
		if err := s.layout.StartSession(context.Background(), userID); err != nil {
			s.logger.Error("Failed to start layout session",
				zap.String("userId", userID),
				zap.Error(err),
			)
		}
	}
}

// authenticate accepts the token from the query string, the standard
// header, or a cookie. Browsers cannot set headers on WebSocket
// upgrades, hence the query parameter.
func (s *Server) authenticate(r *http.Request) (string, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if header := r.Header.Get("Authorization"); header != "" {
			token = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if token == "" {
		if cookie, err := r.Cookie("auth_token"); err == nil {
			token = cookie.Value
		}
	}

	claims, err := s.validator.ValidateToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
