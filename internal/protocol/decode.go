package protocol

import "encoding/binary"

// DecodeOffer parses an offer datagram. Bytes past OfferSize are ignored.
func DecodeOffer(buf []byte) (Offer, error) {
	if err := checkHeader(buf, MessageOffer, OfferSize); err != nil {
		return Offer{}, err
	}
	return Offer{
		TCPPort:    binary.BigEndian.Uint16(buf[5:7]),
		ServerName: readText(buf[7 : 7+NameSize]),
	}, nil
}

// DecodeRequest parses a session request.
func DecodeRequest(buf []byte) (Request, error) {
	if err := checkHeader(buf, MessageRequest, RequestSize); err != nil {
		return Request{}, err
	}
	r := Request{
		Rounds:     buf[5],
		ClientName: readText(buf[6 : 6+NameSize]),
	}
	if err := ValidateRounds(int(r.Rounds)); err != nil {
		return Request{}, err
	}
	return r, nil
}

// DecodeClientPayload parses a decision. The comparison is byte exact.
func DecodeClientPayload(buf []byte) (ClientPayload, error) {
	if err := checkHeader(buf, MessagePayload, ClientPayloadSize); err != nil {
		return ClientPayload{}, err
	}
	var field [DecisionSize]byte
	copy(field[:], buf[5:5+DecisionSize])
	switch field {
	case hitBytes, legacyHitBytes:
		return ClientPayload{Decision: DecisionHit}, nil
	case standBytes:
		return ClientPayload{Decision: DecisionStand}, nil
	default:
		return ClientPayload{}, decodeErr(InvalidDecision, MessagePayload, "decision %q", field[:])
	}
}

// DecodeServerPayload parses a dealer payload.
func DecodeServerPayload(buf []byte) (ServerPayload, error) {
	if err := checkHeader(buf, MessagePayload, ServerPayloadSize); err != nil {
		return ServerPayload{}, err
	}
	p := ServerPayload{
		Result: Result(buf[5]),
		Card: CardFields{
			Rank: binary.BigEndian.Uint16(buf[6:8]),
			Suit: buf[8],
		},
	}
	if err := ValidateServerPayload(p); err != nil {
		return ServerPayload{}, err
	}
	return p, nil
}
