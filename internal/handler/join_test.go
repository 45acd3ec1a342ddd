package handler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/mosquito-server/internal/room"
	"github.com/ugaemi/mosquito-server/internal/ws"
)

func TestJoinTimeout(t *testing.T) {
	tests := []struct {
		name     string
		joined   bool
		wantSent bool
	}{
		{"idle client is dropped", false, true},
		{"member is left alone", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(room.NewManager(testSettings()))
			jt := NewJoinTimeout(router, 20*time.Millisecond)
			client := &ws.Client{ID: "c1", Send: make(chan []byte, 4)}
			if tt.joined {
				router.RegisterMember(client.ID, "m1")
			}

			timer := jt.Start(client)
			defer timer.Stop()
			time.Sleep(80 * time.Millisecond)

			if !tt.wantSent {
				assert.Empty(t, client.Send)
				return
			}
			msgs := drainClient(client)
			if assert.Len(t, msgs, 1) {
				assert.Equal(t, ws.TypeError, msgs[0].Type)
				assert.Equal(t, "join timeout", errorText(t, msgs[0]))
			}
		})
	}
}

func TestJoinTimeout_CancelledOnJoin(t *testing.T) {
	router := NewRouter(room.NewManager(testSettings()))
	router.SetJoinTimeout(20 * time.Millisecond)
	client := &ws.Client{ID: "c1", Send: make(chan []byte, 4)}

	router.StartJoinTimeout(client)
	assert.Equal(t, 1, pendingJoinTimers(router))

	router.RegisterMember(client.ID, "m1")
	assert.Zero(t, pendingJoinTimers(router))

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, client.Send)
}

func TestJoinTimeout_ClientGoneBeforeExpiry(t *testing.T) {
	tests := []struct {
		name string
		join bool
	}{
		{"never joined", false},
		{"joined then disconnected", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := room.NewManager(testSettings())
			defer rm.StopAll()
			router := NewRouter(rm)
			router.SetJoinTimeout(30 * time.Millisecond)

			hub := ws.NewHub()
			hub.OnMessage = router.HandleMessage
			hub.OnDisconnect = router.HandleDisconnect
			hub.OnConnect = router.StartJoinTimeout

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- hub.Run(ctx) }()
			defer func() {
				cancel()
				<-done
			}()

			client := ws.NewClient("c1", hub, nil)
			hub.Register <- client

			if tt.join {
				raw := []byte(`{"type":"create_room","data":{"nickname":"모기"}}`)
				hub.Incoming <- &ws.ClientMessage{Client: client, Data: raw}
				require.Eventually(t, func() bool {
					return router.GetMemberID(client.ID) != ""
				}, time.Second, 5*time.Millisecond)
			}

			hub.Unregister <- client
			require.Eventually(t, func() bool {
				return !hub.Has(client) && pendingJoinTimers(router) == 0
			}, time.Second, 5*time.Millisecond)

			// Outlive the timeout; a late send on the closed channel would panic.
			time.Sleep(120 * time.Millisecond)
			assert.Zero(t, rm.RoomCount())
		})
	}
}

func pendingJoinTimers(r *Router) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.joinTimers)
}

func drainClient(client *ws.Client) []sentMessage {
	var msgs []sentMessage
	for {
		select {
		case data := <-client.Send:
			msg, err := ws.DecodeMessage(data, false)
			if err == nil {
				msgs = append(msgs, sentMessage{Type: msg.Type, Data: msg.Data})
			}
		default:
			return msgs
		}
	}
}
