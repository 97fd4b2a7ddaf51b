package ws

import (
	"encoding/json"

	deck2 "github.com/slidedeck/slidedeck-go/lib/deck"
	deckModel "github.com/slidedeck/slidedeck-go/lib/models/deck"
	session2 "github.com/slidedeck/slidedeck-go/lib/models/session"
	"github.com/slidedeck/slidedeck-go/lib/presence"
)

// Message types spoken over a deck socket. Inbound types mirror the
// client's editing gestures; outbound types carry state back out.
const (
	MsgPresence     = "presence"
	MsgAddSlide     = "add_slide"
	MsgDeleteSlide  = "delete_slide"
	MsgAddWidget    = "add_widget"
	MsgDeleteWidget = "delete_widget"
	MsgUpdateWidget = "update_widget"
	MsgUndo         = "undo"
	MsgRedo         = "redo"
	MsgBatchStart   = "batch_start"
	MsgBatchEnd     = "batch_end"

	MsgWelcome = "welcome"
	MsgDeck    = "deck"
	MsgPeers   = "peers"
)

// Envelope wraps every message in both directions. Data is decoded
// per Type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type PresenceData struct {
	Cursor        *session2.Point `json:"cursor"`
	ActiveSlideID *string         `json:"activeSlideId"`
}

type AddSlideData struct {
	ReferenceSlideID string `json:"referenceSlideId"`
	Position         string `json:"position"`
}

type DeleteSlideData struct {
	SlideID string `json:"slideId"`
}

type AddWidgetData struct {
	SlideID string  `json:"slideId"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

type DeleteWidgetData struct {
	SlideID  string `json:"slideId"`
	WidgetID string `json:"widgetId"`
}

type UpdateWidgetData struct {
	SlideID  string            `json:"slideId"`
	WidgetID string            `json:"widgetId"`
	Patch    deck2.WidgetPatch `json:"patch"`
}

// WelcomeData is the first message a connection receives: its own
// resolved identity plus the current document.
type WelcomeData struct {
	ConnectionID string           `json:"connectionId"`
	Session      session2.Session `json:"session"`
	Deck         deckModel.Deck   `json:"deck"`
}

type PeersData struct {
	Others []presence.Peer `json:"others"`
}

func encodeEnvelope(msgType string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Data: raw})
}
