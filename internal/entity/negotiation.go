package entity

// Negotiation kinds. Undo and restart share the same two-party
// request/accept/reject protocol.
const (
	NegotiationUndo    = "undo"
	NegotiationRestart = "restart"
)

const (
	NegotiationPending  = "pending"
	NegotiationAccepted = "accepted"
	NegotiationRejected = "rejected"
	NegotiationExpired  = "expired"
)
