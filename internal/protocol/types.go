package protocol

// Magic is the cookie every wire message starts with.
const Magic uint32 = 0xABCDDCBA

// DiscoveryPort is the well-known UDP port offers are broadcast on.
const DiscoveryPort = 13122

// MessageType is the byte following the magic cookie.
type MessageType uint8

const (
	MessageOffer   MessageType = 0x02
	MessageRequest MessageType = 0x03
	MessagePayload MessageType = 0x04
)

func (t MessageType) String() string {
	switch t {
	case MessageOffer:
		return "offer"
	case MessageRequest:
		return "request"
	case MessagePayload:
		return "payload"
	default:
		return "unknown"
	}
}

// Fixed sizes, header included.
const (
	HeaderSize        = 4 + 1
	NameSize          = 32
	DecisionSize      = 5
	OfferSize         = HeaderSize + 2 + NameSize
	RequestSize       = HeaderSize + 1 + NameSize
	ClientPayloadSize = HeaderSize + DecisionSize
	ServerPayloadSize = HeaderSize + 1 + 2 + 1
)

// Offer advertises a dealer service over UDP broadcast.
type Offer struct {
	TCPPort    uint16
	ServerName string
}

// Request opens a session: how many rounds and who is playing.
type Request struct {
	Rounds     uint8
	ClientName string
}

// Decision is the player's move inside a client payload.
type Decision string

const (
	DecisionHit   Decision = "Hit"
	DecisionStand Decision = "Stand"
)

// ClientPayload carries one player decision.
type ClientPayload struct {
	Decision Decision
}

// Result is the round state carried by a server payload, from the player's side.
type Result uint8

const (
	ResultOngoing Result = 0
	ResultTie     Result = 1
	ResultLoss    Result = 2
	ResultWin     Result = 3
)

func (r Result) String() string {
	switch r {
	case ResultOngoing:
		return "ongoing"
	case ResultTie:
		return "tie"
	case ResultLoss:
		return "loss"
	case ResultWin:
		return "win"
	default:
		return "unknown"
	}
}

// Final reports whether r closes a round.
func (r Result) Final() bool {
	return r == ResultTie || r == ResultLoss || r == ResultWin
}

// CardFields is the raw rank/suit pair on the wire. Rank 0 means no card.
type CardFields struct {
	Rank uint16
	Suit uint8
}

// Empty reports whether the payload carries no card.
func (c CardFields) Empty() bool {
	return c.Rank == 0
}

// ServerPayload carries one dealt card and/or the round result.
type ServerPayload struct {
	Result Result
	Card   CardFields
}
