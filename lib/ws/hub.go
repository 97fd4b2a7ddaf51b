package ws

import "sync"

// RoomMessage is a payload fanned out to every client of one deck.
type RoomMessage struct {
	DeckID string
	Data   []byte
}

// Hub maintains the set of active Clients and fans RoomMessages out to
// the clients of the addressed deck.
type Hub struct {
	// Registered Clients.
	Clients        map[*Client]bool
	ClientsRWMutex sync.RWMutex

	// Outbound messages addressed to one deck.
	Broadcast chan RoomMessage

	// Register requests from the Clients.
	Register chan *Client

	// Unregister requests from Clients.
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan RoomMessage),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			if client == nil {
				continue
			}
			h.ClientsRWMutex.Lock()
			h.Clients[client] = true
			h.ClientsRWMutex.Unlock()
		case client := <-h.Unregister:
			if client == nil {
				continue
			}
			h.ClientsRWMutex.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
			h.ClientsRWMutex.Unlock()
		case message := <-h.Broadcast:
			h.ClientsRWMutex.Lock()
			for client := range h.Clients {
				if client == nil || client.DeckID != message.DeckID {
					continue
				}
				select {
				case client.Send <- message.Data:
				default:
					// Client cannot keep up, drop it.
					delete(h.Clients, client)
					close(client.Send)
				}
			}
			h.ClientsRWMutex.Unlock()
		}
	}
}
