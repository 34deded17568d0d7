package feed

import (
	"context"

	"github.com/gorilla/websocket"
)

// Conn is the slice of a websocket connection the consumer needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v any) error
	Close() error
}

// Dialer opens feed connections. The production dialer wraps gorilla;
// tests plug in an in-process fake.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials the broker's push feed over websocket.
type WebsocketDialer struct {
	Token string
}

func (d WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	header := map[string][]string{}
	if d.Token != "" {
		header["Authorization"] = []string{"Bearer " + d.Token}
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
