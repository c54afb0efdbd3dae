package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
)

func startTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger := log.New(io.Discard)
	gs := NewGameService(ServiceConfig{
		Shoe:          deck.NewShoe(randutil.New(7), deck.Reshuffle),
		Bank:          1000,
		ActionTimeout: time.Minute,
		Clock:         quartz.NewMock(t),
		Logger:        logger,
	})
	srv := NewServer("127.0.0.1:0", gs, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Stop()
		ts.Close()
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType MessageType, data any, requestID string) {
	t.Helper()
	msg, err := NewMessage(msgType, data)
	require.NoError(t, err)
	msg.RequestID = requestID
	require.NoError(t, conn.WriteJSON(msg))
}

// readUntil reads messages until one of the wanted type arrives
func readUntil(t *testing.T, conn *websocket.Conn, msgType MessageType) *Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == msgType {
			return &msg
		}
	}
}

func TestHealth(t *testing.T) {
	_, ts := startTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestJoinDealAndPlay(t *testing.T) {
	srv, ts := startTestServer(t)
	conn := dial(t, ts)

	send(t, conn, MessageTypeJoin, JoinData{Name: "Ann"}, "r1")
	joined := readUntil(t, conn, MessageTypeJoined)
	assert.Equal(t, "r1", joined.RequestID)
	var jd JoinedData
	require.NoError(t, json.Unmarshal(joined.Data, &jd))
	assert.Equal(t, 0, jd.Seat)
	assert.NotEmpty(t, jd.PlayerID)
	assert.Equal(t, 1, srv.ConnectionCount())

	send(t, conn, MessageTypeDeal, nil, "r2")
	var state StateData
	for state.Round != 1 {
		msg := readUntil(t, conn, MessageTypeState)
		require.NoError(t, json.Unmarshal(msg.Data, &state))
	}
	require.Len(t, state.Players, 1)
	assert.Len(t, state.Players[0].Hands[0].Cards, 2)

	// Stand every hand until the round settles
	for state.Phase != game.Settlement.String() {
		send(t, conn, MessageTypeAction, ActionData{Action: "stand"}, "")
		msg := readUntil(t, conn, MessageTypeState)
		require.NoError(t, json.Unmarshal(msg.Data, &state))
	}
	assert.NotEmpty(t, state.Results)
	assert.False(t, state.Dealer.HoleHidden)
}

func TestProtocolErrors(t *testing.T) {
	_, ts := startTestServer(t)
	conn := dial(t, ts)

	send(t, conn, MessageType("bogus"), nil, "x")
	msg := readUntil(t, conn, MessageTypeError)
	var ed ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &ed))
	assert.Equal(t, "unknown_message_type", ed.Code)
	assert.Equal(t, "x", msg.RequestID)

	send(t, conn, MessageTypeAction, ActionData{Action: "hit"}, "")
	msg = readUntil(t, conn, MessageTypeError)
	require.NoError(t, json.Unmarshal(msg.Data, &ed))
	assert.Equal(t, "action_failed", ed.Code)

	send(t, conn, MessageTypeJoin, JoinData{Name: "Ann"}, "")
	readUntil(t, conn, MessageTypeJoined)
	send(t, conn, MessageTypeAction, ActionData{Action: "fold"}, "")
	msg = readUntil(t, conn, MessageTypeError)
	require.NoError(t, json.Unmarshal(msg.Data, &ed))
	assert.Equal(t, "invalid_action", ed.Code)
}

func TestDisconnectVacatesSeat(t *testing.T) {
	srv, ts := startTestServer(t)
	conn := dial(t, ts)

	send(t, conn, MessageTypeJoin, JoinData{Name: "Ann"}, "")
	readUntil(t, conn, MessageTypeJoined)
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return srv.ConnectionCount() == 0
	}, 2*time.Second, 10*time.Millisecond)

	other := dial(t, ts)
	send(t, other, MessageTypeJoin, JoinData{Name: "Bob"}, "")
	var jd JoinedData
	require.NoError(t, json.Unmarshal(readUntil(t, other, MessageTypeJoined).Data, &jd))
	assert.Equal(t, 0, jd.Seat)
}

func TestStateEndpoint(t *testing.T) {
	_, ts := startTestServer(t)
	conn := dial(t, ts)
	send(t, conn, MessageTypeJoin, JoinData{Name: "Ann"}, "")
	readUntil(t, conn, MessageTypeJoined)
	send(t, conn, MessageTypeDeal, nil, "")
	readUntil(t, conn, MessageTypeState)

	resp, err := http.Get(ts.URL + "/state")
	require.NoError(t, err)
	var plain StateData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&plain))
	resp.Body.Close()
	assert.Nil(t, plain.Layout)

	resp, err = http.Get(ts.URL + "/state?width=800&height=600")
	require.NoError(t, err)
	var state StateData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	resp.Body.Close()

	require.NotNil(t, state.Layout)
	assert.Equal(t, 800, state.Layout.Viewport.Width)
	assert.Equal(t, 600, state.Layout.Viewport.Height)
	require.Len(t, state.Layout.Players, 1)
	assert.GreaterOrEqual(t, len(state.Layout.Dealer), 2, "hole card is placed even when hidden")

	resp, err = http.Get(ts.URL + "/state?width=wide")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
