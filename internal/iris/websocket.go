package iris

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type MessageCallback func(message *Message)

type StateCallback func(state WebSocketState)

// WebSocket receives chat events from the gateway and reconnects with a fixed
// delay until maxReconnectAttempts consecutive failures.
type WebSocket struct {
	wsURL                string
	connMu               sync.Mutex
	conn                 *websocket.Conn
	state                WebSocketState
	stateMu              sync.RWMutex
	onMessage            []MessageCallback
	onState              []StateCallback
	callbacksMu          sync.RWMutex
	reconnectAttempts    int
	maxReconnectAttempts int
	reconnectDelay       time.Duration
	logger               *zap.Logger
	stopCh               chan struct{}
	stopOnce             sync.Once
	wg                   sync.WaitGroup
}

func NewWebSocket(wsURL string, maxReconnectAttempts int, reconnectDelay time.Duration, logger *zap.Logger) *WebSocket {
	return &WebSocket{
		wsURL:                wsURL,
		state:                WSStateDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		reconnectDelay:       reconnectDelay,
		logger:               logger,
		stopCh:               make(chan struct{}),
	}
}

func (ws *WebSocket) Connect(ctx context.Context) error {
	switch ws.GetState() {
	case WSStateConnected, WSStateConnecting:
		ws.logger.Warn("WebSocket already connected or connecting")
		return nil
	}
	if ws.stopped() {
		return nil
	}

	ws.setState(WSStateConnecting)

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, ws.wsURL, nil)
	if err != nil {
		ws.logger.Error("Failed to connect WebSocket", zap.Error(err))
		ws.setState(WSStateFailed)
		ws.scheduleReconnect(ctx)
		return err
	}

	ws.connMu.Lock()
	ws.conn = conn
	ws.reconnectAttempts = 0
	ws.connMu.Unlock()
	ws.setState(WSStateConnected)

	ws.logger.Info("WebSocket connected", zap.String("url", ws.wsURL))

	ws.wg.Add(1)
	go ws.listen(ctx, conn)

	return nil
}

func (ws *WebSocket) listen(ctx context.Context, conn *websocket.Conn) {
	defer ws.wg.Done()
	defer ws.logger.Debug("WebSocket listener stopped")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ws.stopped() || ctx.Err() != nil {
				return
			}
			ws.logger.Error("WebSocket read error", zap.Error(err))
			ws.setState(WSStateDisconnected)
			ws.scheduleReconnect(ctx)
			return
		}
		ws.handleMessage(data)
	}
}

func (ws *WebSocket) handleMessage(data []byte) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		dataStr := string(data)
		if len(dataStr) > 200 {
			dataStr = dataStr[:200]
		}
		ws.logger.Error("Failed to parse message",
			zap.Error(err),
			zap.String("data", dataStr),
		)
		return
	}

	ws.callbacksMu.RLock()
	callbacks := append([]MessageCallback(nil), ws.onMessage...)
	ws.callbacksMu.RUnlock()

	for _, cb := range callbacks {
		cb(&message)
	}
}

func (ws *WebSocket) scheduleReconnect(ctx context.Context) {
	ws.connMu.Lock()
	ws.reconnectAttempts++
	attempt := ws.reconnectAttempts
	ws.connMu.Unlock()

	if attempt > ws.maxReconnectAttempts {
		ws.logger.Error("Max reconnect attempts reached", zap.Int("attempts", attempt))
		ws.setState(WSStateFailed)
		return
	}

	ws.setState(WSStateReconnecting)
	ws.logger.Info("Scheduling reconnect",
		zap.Int("attempt", attempt),
		zap.Int("max", ws.maxReconnectAttempts),
		zap.Duration("delay", ws.reconnectDelay),
	)

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		timer := time.NewTimer(ws.reconnectDelay)
		defer timer.Stop()

		select {
		case <-timer.C:
			if err := ws.Connect(ctx); err != nil {
				ws.logger.Debug("Reconnect failed", zap.Error(err))
			}
		case <-ctx.Done():
		case <-ws.stopCh:
		}
	}()
}

// OnMessage registers a callback for every decoded chat event.
func (ws *WebSocket) OnMessage(callback MessageCallback) {
	ws.callbacksMu.Lock()
	ws.onMessage = append(ws.onMessage, callback)
	ws.callbacksMu.Unlock()
}

func (ws *WebSocket) OnStateChange(callback StateCallback) {
	ws.callbacksMu.Lock()
	ws.onState = append(ws.onState, callback)
	ws.callbacksMu.Unlock()
}

func (ws *WebSocket) setState(newState WebSocketState) {
	ws.stateMu.Lock()
	oldState := ws.state
	ws.state = newState
	ws.stateMu.Unlock()

	if oldState == newState {
		return
	}

	ws.logger.Info("WebSocket state changed",
		zap.String("from", oldState.String()),
		zap.String("to", newState.String()),
	)

	ws.callbacksMu.RLock()
	callbacks := append([]StateCallback(nil), ws.onState...)
	ws.callbacksMu.RUnlock()

	for _, cb := range callbacks {
		cb(newState)
	}
}

func (ws *WebSocket) GetState() WebSocketState {
	ws.stateMu.RLock()
	defer ws.stateMu.RUnlock()
	return ws.state
}

func (ws *WebSocket) IsConnected() bool {
	return ws.GetState() == WSStateConnected
}

func (ws *WebSocket) stopped() bool {
	select {
	case <-ws.stopCh:
		return true
	default:
		return false
	}
}

// Disconnect closes the connection, cancels pending reconnects and waits for
// the listener to exit.
func (ws *WebSocket) Disconnect() error {
	ws.stopOnce.Do(func() {
		close(ws.stopCh)
	})

	var closeErr error
	ws.connMu.Lock()
	if ws.conn != nil {
		closeErr = ws.conn.Close()
		ws.conn = nil
	}
	ws.reconnectAttempts = 0
	ws.connMu.Unlock()

	if closeErr != nil {
		ws.logger.Error("Failed to close WebSocket", zap.Error(closeErr))
	}

	ws.setState(WSStateDisconnected)

	done := make(chan struct{})
	go func() {
		ws.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		ws.logger.Info("WebSocket disconnected")
	case <-time.After(5 * time.Second):
		ws.logger.Warn("Timeout waiting for listener to stop")
	}

	return closeErr
}
