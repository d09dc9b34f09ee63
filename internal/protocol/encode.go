package protocol

import "encoding/binary"

var (
	hitBytes       = [DecisionSize]byte{'H', 'i', 't', 0, 0}
	legacyHitBytes = [DecisionSize]byte{'H', 'i', 't', 't', 't'}
	standBytes     = [DecisionSize]byte{'S', 't', 'a', 'n', 'd'}
)

// EncodeOffer serializes an offer datagram. Names longer than NameSize are truncated.
func EncodeOffer(o Offer) []byte {
	buf := make([]byte, OfferSize)
	putHeader(buf, MessageOffer)
	binary.BigEndian.PutUint16(buf[5:7], o.TCPPort)
	putText(buf[7:7+NameSize], o.ServerName)
	return buf
}

// EncodeRequest serializes a session request. Rounds are written verbatim;
// callers validate with ValidateRounds before sending.
func EncodeRequest(r Request) []byte {
	buf := make([]byte, RequestSize)
	putHeader(buf, MessageRequest)
	buf[5] = r.Rounds
	putText(buf[6:6+NameSize], r.ClientName)
	return buf
}

// EncodeClientPayload serializes a decision. Unknown decisions are rejected.
func EncodeClientPayload(p ClientPayload) ([]byte, error) {
	var field [DecisionSize]byte
	switch p.Decision {
	case DecisionHit:
		field = hitBytes
	case DecisionStand:
		field = standBytes
	default:
		return nil, decodeErr(InvalidDecision, MessagePayload, "decision %q", string(p.Decision))
	}
	buf := make([]byte, ClientPayloadSize)
	putHeader(buf, MessagePayload)
	copy(buf[5:], field[:])
	return buf, nil
}

// EncodeServerPayload serializes a dealer payload.
func EncodeServerPayload(p ServerPayload) []byte {
	buf := make([]byte, ServerPayloadSize)
	putHeader(buf, MessagePayload)
	buf[5] = byte(p.Result)
	binary.BigEndian.PutUint16(buf[6:8], p.Card.Rank)
	buf[8] = p.Card.Suit
	return buf
}
