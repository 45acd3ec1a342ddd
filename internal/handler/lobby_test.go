package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ugaemi/mosquito-server/internal/game"
	"github.com/ugaemi/mosquito-server/internal/room"
	"github.com/ugaemi/mosquito-server/internal/ws"
)

// sentMessage mirrors ws.Message for decoding what a client was sent.
type sentMessage struct {
	Type string
	Data json.RawMessage
}

func testSettings() room.Settings {
	return room.Settings{TickRate: 100, HumanCount: 3, Seed: 42, MaxRooms: 4}
}

// newTestClient creates a client whose outbound JSON messages are forwarded to ch.
func newTestClient(id string) (*ws.Client, chan sentMessage) {
	ch := make(chan sentMessage, 64)
	client := &ws.Client{
		ID:   id,
		Send: make(chan []byte, 256),
	}

	// Read sent messages in background
	go func() {
		for data := range client.Send {
			var msg sentMessage
			json.Unmarshal(data, &msg)
			ch <- msg
		}
	}()

	return client, ch
}

func readResponse(t *testing.T, ch chan sentMessage) sentMessage {
	t.Helper()
	return readResponseWithTimeout(t, ch, time.Second)
}

func readResponseWithTimeout(t *testing.T, ch chan sentMessage, timeout time.Duration) sentMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatal("timeout waiting for response")
		return sentMessage{}
	}
}

// readUntil skips messages until one of the given type arrives.
func readUntil(t *testing.T, ch chan sentMessage, msgType string) sentMessage {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case msg := <-ch:
			if msg.Type == msgType {
				return msg
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s", msgType)
			return sentMessage{}
		}
	}
}

func drainCh(ch chan sentMessage) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func sendJSON(t *testing.T, router *Router, client *ws.Client, msgType string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	raw, err := json.Marshal(ws.Message{Type: msgType, Data: data})
	require.NoError(t, err)
	router.HandleMessage(&ws.ClientMessage{Client: client, Data: raw})
}

func errorText(t *testing.T, msg sentMessage) string {
	t.Helper()
	require.Equal(t, ws.TypeError, msg.Type)
	var errMsg ws.ErrorMessage
	require.NoError(t, json.Unmarshal(msg.Data, &errMsg))
	return errMsg.Message
}

func TestHandleCreateRoom_StartsGame(t *testing.T) {
	rm := room.NewManager(testSettings())
	router := NewRouter(rm)
	client, ch := newTestClient("c1")

	sendJSON(t, router, client, ws.TypeCreateRoom, createRoomRequest{Nickname: "모기"})

	resp := readResponse(t, ch)
	require.Equal(t, ws.TypeCreateRoom, resp.Type)
	var created joinRoomResponse
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Len(t, created.Code, 4)
	assert.NotEmpty(t, created.MemberID)
	assert.Equal(t, room.RolePilot, created.Role)
	assert.Equal(t, "json", created.Encoding)
	assert.Equal(t, created.MemberID, router.GetMemberID(client.ID))

	r := rm.GetRoom(created.Code)
	require.NotNil(t, r)
	defer r.StopGame()
	assert.Equal(t, room.StatePlaying, r.CurrentState())

	state := readUntil(t, ch, ws.TypeGameState)
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(state.Data, &snap))
	assert.Equal(t, game.InitialLives, snap.Lives)
}

func TestHandleCreateRoom_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     createRoomRequest
		wantErr string
	}{
		{"missing nickname", createRoomRequest{}, "nickname is required"},
		{"unknown encoding", createRoomRequest{Nickname: "a", Encoding: "xml"}, `"xml": unknown encoding`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := room.NewManager(testSettings())
			router := NewRouter(rm)
			client, ch := newTestClient("c1")

			sendJSON(t, router, client, ws.TypeCreateRoom, tt.req)

			assert.Equal(t, tt.wantErr, errorText(t, readResponse(t, ch)))
			assert.Zero(t, rm.RoomCount())
		})
	}
}

func TestHandleCreateRoom_RoomLimit(t *testing.T) {
	settings := testSettings()
	settings.MaxRooms = 1
	rm := room.NewManager(settings)
	router := NewRouter(rm)

	first, firstCh := newTestClient("c1")
	sendJSON(t, router, first, ws.TypeCreateRoom, createRoomRequest{Nickname: "a"})
	created := readResponse(t, firstCh)
	require.Equal(t, ws.TypeCreateRoom, created.Type)
	defer rm.StopAll()

	second, secondCh := newTestClient("c2")
	sendJSON(t, router, second, ws.TypeCreateRoom, createRoomRequest{Nickname: "b"})
	assert.Equal(t, room.ErrTooManyRooms.Error(), errorText(t, readResponse(t, secondCh)))
}

func TestHandleJoinRoom_Spectator(t *testing.T) {
	rm := room.NewManager(testSettings())
	router := NewRouter(rm)
	defer rm.StopAll()

	pilot, pilotCh := newTestClient("c1")
	sendJSON(t, router, pilot, ws.TypeCreateRoom, createRoomRequest{Nickname: "pilot"})
	var created joinRoomResponse
	require.NoError(t, json.Unmarshal(readResponse(t, pilotCh).Data, &created))

	watcher, watcherCh := newTestClient("c2")
	sendJSON(t, router, watcher, ws.TypeJoinRoom, joinRoomRequest{Code: created.Code, Nickname: "watcher"})

	resp := readUntil(t, watcherCh, ws.TypeJoinRoom)
	var joined joinRoomResponse
	require.NoError(t, json.Unmarshal(resp.Data, &joined))
	assert.Equal(t, created.Code, joined.Code)
	assert.Equal(t, room.RoleSpectator, joined.Role)

	info := readUntil(t, pilotCh, ws.TypeRoomInfo)
	var roomInfo roomInfoResponse
	require.NoError(t, json.Unmarshal(info.Data, &roomInfo))
	assert.Equal(t, created.MemberID, roomInfo.PilotID)
	assert.Len(t, roomInfo.Members, 2)
	assert.Equal(t, "playing", roomInfo.State)

	// Spectators receive the same frames.
	readUntil(t, watcherCh, ws.TypeGameState)
}

func TestHandleJoinRoom_Errors(t *testing.T) {
	rm := room.NewManager(testSettings())
	router := NewRouter(rm)
	r, err := rm.CreateRoom()
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     joinRoomRequest
		wantErr string
	}{
		{"missing code", joinRoomRequest{Nickname: "a"}, "code and nickname are required"},
		{"missing nickname", joinRoomRequest{Code: r.Code}, "code and nickname are required"},
		{"unknown room", joinRoomRequest{Code: "ZZZZ", Nickname: "a"}, "room not found"},
		{"bad encoding", joinRoomRequest{Code: r.Code, Nickname: "a", Encoding: "yaml"}, `"yaml": unknown encoding`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, ch := newTestClient("c-" + tt.name)
			sendJSON(t, router, client, ws.TypeJoinRoom, tt.req)
			assert.Equal(t, tt.wantErr, errorText(t, readResponse(t, ch)))
			assert.Empty(t, router.GetMemberID(client.ID))
		})
	}
}

func TestHandleJoinRoom_Full(t *testing.T) {
	rm := room.NewManager(testSettings())
	router := NewRouter(rm)
	r, err := rm.CreateRoom()
	require.NoError(t, err)
	for range room.MaxMembers {
		m := room.NewMember("m")
		require.NoError(t, r.AddMember(m, &ws.Client{ID: m.ID, Send: make(chan []byte, 256)}))
	}

	client, ch := newTestClient("late")
	sendJSON(t, router, client, ws.TypeJoinRoom, joinRoomRequest{Code: r.Code, Nickname: "late"})
	assert.Equal(t, "room is full", errorText(t, readResponse(t, ch)))
}

func TestHandleJoinRoom_Msgpack(t *testing.T) {
	rm := room.NewManager(testSettings())
	router := NewRouter(rm)
	r, err := rm.CreateRoom()
	require.NoError(t, err)

	client := &ws.Client{ID: "binary", Send: make(chan []byte, 16)}
	sendJSON(t, router, client, ws.TypeJoinRoom, joinRoomRequest{Code: r.Code, Nickname: "bin", Encoding: "msgpack"})

	assert.Equal(t, ws.CodecMsgpack, client.Codec())

	var resp struct {
		Type string         `msgpack:"type"`
		Data map[string]any `msgpack:"data"`
	}
	require.NoError(t, msgpack.Unmarshal(<-client.Send, &resp))
	assert.Equal(t, ws.TypeJoinRoom, resp.Type)
	assert.Equal(t, r.Code, resp.Data["code"])
	assert.Equal(t, "pilot", resp.Data["role"])
	assert.Equal(t, "msgpack", resp.Data["encoding"])
}

func TestHandleMessage_MsgpackFrame(t *testing.T) {
	rm := room.NewManager(testSettings())
	router := NewRouter(rm)
	client, ch := newTestClient("c1")

	raw, err := msgpack.Marshal(map[string]any{
		"type": ws.TypeCreateRoom,
		"data": map[string]any{"nickname": "binary"},
	})
	require.NoError(t, err)
	router.HandleMessage(&ws.ClientMessage{Client: client, Data: raw, Binary: true})
	defer rm.StopAll()

	resp := readResponse(t, ch)
	assert.Equal(t, ws.TypeCreateRoom, resp.Type)
}

func TestHandleLeaveRoom_TransfersPilot(t *testing.T) {
	rm := room.NewManager(testSettings())
	router := NewRouter(rm)
	defer rm.StopAll()

	pilot, pilotCh := newTestClient("c1")
	sendJSON(t, router, pilot, ws.TypeCreateRoom, createRoomRequest{Nickname: "pilot"})
	var created joinRoomResponse
	require.NoError(t, json.Unmarshal(readResponse(t, pilotCh).Data, &created))

	watcher, watcherCh := newTestClient("c2")
	sendJSON(t, router, watcher, ws.TypeJoinRoom, joinRoomRequest{Code: created.Code, Nickname: "watcher"})
	var joined joinRoomResponse
	require.NoError(t, json.Unmarshal(readUntil(t, watcherCh, ws.TypeJoinRoom).Data, &joined))
	drainCh(watcherCh)

	sendJSON(t, router, pilot, ws.TypeLeaveRoom, struct{}{})
	assert.Empty(t, router.GetMemberID(pilot.ID))

	info := readUntil(t, watcherCh, ws.TypeRoomInfo)
	var roomInfo roomInfoResponse
	require.NoError(t, json.Unmarshal(info.Data, &roomInfo))
	assert.Equal(t, joined.MemberID, roomInfo.PilotID)
	assert.Len(t, roomInfo.Members, 1)
}

func TestHandleDisconnect_LastMemberRemovesRoom(t *testing.T) {
	rm := room.NewManager(testSettings())
	router := NewRouter(rm)

	client, ch := newTestClient("c1")
	sendJSON(t, router, client, ws.TypeCreateRoom, createRoomRequest{Nickname: "solo"})
	var created joinRoomResponse
	require.NoError(t, json.Unmarshal(readResponse(t, ch).Data, &created))
	r := rm.GetRoom(created.Code)
	require.NotNil(t, r)

	router.HandleDisconnect(client)

	assert.Zero(t, rm.RoomCount())
	assert.Equal(t, room.StateEnded, r.CurrentState())
	assert.Empty(t, router.GetMemberID(client.ID))
}

func TestHandleMessage_Invalid(t *testing.T) {
	router := NewRouter(room.NewManager(testSettings()))

	tests := []struct {
		name    string
		raw     []byte
		binary  bool
		wantErr string
	}{
		{"garbage text", []byte("{nope"), false, "invalid message format"},
		{"garbage binary", []byte{0xc1}, true, "invalid message format"},
		{"unknown type", []byte(`{"type":"teleport"}`), false, "unknown message type: teleport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, ch := newTestClient("c1")
			router.HandleMessage(&ws.ClientMessage{Client: client, Data: tt.raw, Binary: tt.binary})
			assert.Equal(t, tt.wantErr, errorText(t, readResponse(t, ch)))
		})
	}
}
