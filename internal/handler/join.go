package handler

import (
	"log/slog"
	"time"

	"github.com/ugaemi/mosquito-server/internal/ws"
)

const defaultJoinTimeout = 30 * time.Second

// JoinTimeout drops connections that never enter a room.
type JoinTimeout struct {
	router  *Router
	timeout time.Duration
}

// NewJoinTimeout creates a join timeout bound to the router's member map.
func NewJoinTimeout(router *Router, timeout time.Duration) *JoinTimeout {
	return &JoinTimeout{router: router, timeout: timeout}
}

// Start closes the connection if the client hasn't joined a room in time.
// The returned timer can be stopped by the caller.
func (j *JoinTimeout) Start(client *ws.Client) *time.Timer {
	return time.AfterFunc(j.timeout, func() {
		j.router.forgetJoinTimer(client.ID)
		if j.router.GetMemberID(client.ID) != "" {
			return
		}
		if client.Hub != nil && !client.Hub.Has(client) {
			return
		}
		slog.Info("join timeout, closing connection", "client", client.ID)
		client.SendMessage(ws.NewErrorMessage("join timeout"))
		if client.Conn != nil {
			client.Conn.Close()
		}
	})
}
