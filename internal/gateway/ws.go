package gateway

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/soyeahso/advisor/internal/advisor"
	"github.com/soyeahso/advisor/internal/render"
)

// WSFrame is the message envelope on the /api/ws connection.
//
// Client → server: {type:"chat", message, conversationId}.
// Server → client: a sequence of "delta" frames carrying the typed-playback
// HTML, then one "done" frame with the final rendering, or one "error"
// frame. HTML in each delta is a complete re-rendering of the reply prefix,
// never a fragment.
type WSFrame struct {
	Type           string `json:"type"`
	Message        string `json:"message,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	HTML           string `json:"html,omitempty"`
	Error          string `json:"error,omitempty"`
}

// handleWebSocket runs the chat loop over a WebSocket connection. Frames
// are processed sequentially, so a connection never has two chats in
// flight, the same single-flight rule the HTTP client follows.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	s.log.Debug().Str("remote", r.RemoteAddr).Msg("websocket connected")

	for {
		var frame WSFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Msg("websocket closed")
			} else {
				s.log.Warn().Err(err).Msg("websocket read error")
			}
			return
		}

		if frame.Type != "chat" {
			conn.WriteJSON(WSFrame{Type: "error", Error: "unknown frame type: " + frame.Type})
			continue
		}

		s.serveChatFrame(r, conn, frame)
	}
}

// serveChatFrame runs one chat turn and plays the reply back as typed
// frames.
func (s *Server) serveChatFrame(r *http.Request, conn *websocket.Conn, frame WSFrame) {
	result, err := s.runner.Chat(r.Context(), frame.ConversationID, frame.Message)
	if err != nil {
		conn.WriteJSON(WSFrame{Type: "error", Error: wsErrorText(err)})
		return
	}

	typer := render.Typer{}
	sink := render.SinkFunc(func(html string) {
		conn.WriteJSON(WSFrame{
			Type:           "delta",
			ConversationID: result.Token,
			HTML:           html,
		})
	})
	typer.Play(r.Context(), result.Reply, sink)

	conn.WriteJSON(WSFrame{
		Type:           "done",
		ConversationID: result.Token,
		HTML:           render.Render(result.Reply),
	})
}

func wsErrorText(err error) string {
	if errors.Is(err, advisor.ErrEmptyMessage) {
		return "Message is required"
	}
	return genericErrorMessage
}
