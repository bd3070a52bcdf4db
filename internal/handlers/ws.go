package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/taskmaster-dev/taskmaster/db"
	"github.com/taskmaster-dev/taskmaster/internal/logging"
	"github.com/taskmaster-dev/taskmaster/internal/services"
	"github.com/taskmaster-dev/taskmaster/internal/types"
	"github.com/taskmaster-dev/taskmaster/internal/utils"
)

// Board viewers per project. Messages only tell clients to refetch; the
// database stays the single source of truth.
var (
	projectClients   = make(map[uint]map[*wsClient]bool)
	projectClientsMu sync.RWMutex
)

// wsClient serializes writes; gorilla connections allow one writer at a time.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return c.conn.WriteJSON(v)
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

func BroadcastRefresh(projectID uint, reason string) {
	projectClientsMu.RLock()
	clients, exists := projectClients[projectID]
	if !exists || len(clients) == 0 {
		projectClientsMu.RUnlock()
		return
	}

	// Copy so the lock is not held while writing.
	clientsCopy := make([]*wsClient, 0, len(clients))
	for client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	projectClientsMu.RUnlock()

	log := logging.Logger.WithField("project_id", projectID)

	for _, client := range clientsCopy {
		err := client.writeJSON(gin.H{
			"type":       "refresh",
			"reason":     reason,
			"project_id": projectID,
		})

		if err != nil {
			log.WithError(err).Warn("failed to broadcast refresh to client")
			unregisterClient(projectID, client)
			client.conn.Close()
		}
	}
}

func registerClient(projectID uint, client *wsClient) {
	projectClientsMu.Lock()
	defer projectClientsMu.Unlock()

	if projectClients[projectID] == nil {
		projectClients[projectID] = make(map[*wsClient]bool)
	}
	projectClients[projectID][client] = true
}

func unregisterClient(projectID uint, client *wsClient) {
	projectClientsMu.Lock()
	defer projectClientsMu.Unlock()

	if clients, exists := projectClients[projectID]; exists {
		delete(clients, client)

		if len(clients) == 0 {
			delete(projectClients, projectID)
		}
	}
}

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	for _, allowed := range types.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

func WebSocket(c *gin.Context) {
	user, err := utils.GetCurrentUser(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := utils.GetProjectID(c)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := services.GetProject(db.DB, user, projectID); err != nil {
		respondError(c, err, "open project stream")
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: checkOrigin}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	log := logging.Logger.WithFields(logrus.Fields{"project_id": projectID, "user_id": user.ID})

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.WithError(err).Warn("failed to set initial read deadline")
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	client := &wsClient{conn: conn}
	registerClient(projectID, client)

	defer func() {
		unregisterClient(projectID, client)
		conn.Close()
		log.Debug("websocket connection closed")
	}()

	err = client.writeJSON(gin.H{
		"type":       "connected",
		"message":    "WebSocket connection established",
		"project_id": projectID,
	})

	if err != nil {
		log.WithError(err).Warn("failed to send welcome message")
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					log.WithError(err).Debug("ping failed")
					return
				}
			}
		}
	}()

	// Client messages are ignored; reading keeps pong handling alive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Warn("websocket error")
			}
			break
		}
	}
}
