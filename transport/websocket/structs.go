package websocket

// Inbound envelopes are flat JSON objects with a "type" discriminator.
type inboundMessage struct {
	Type string `json:"type"`
}

type joinMessage struct {
	Nickname  string `json:"nickname"`
	SessionID string `json:"session_id"`
}

type reconnectMessage struct {
	SessionID string `json:"session_id"`
}

type moveMessage struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type responseMessage struct {
	Accepted bool `json:"accepted"`
}

type chatMessage struct {
	Message string `json:"message"`
}
