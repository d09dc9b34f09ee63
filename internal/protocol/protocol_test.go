package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/blackjack/internal/testutil/testlog"
)

func TestOfferRoundTrip(t *testing.T) {
	testlog.Start(t)
	in := Offer{TCPPort: 40123, ServerName: "The Socket Wizards"}
	buf := EncodeOffer(in)
	if len(buf) != OfferSize {
		t.Fatalf("offer size got=%d want=%d", len(buf), OfferSize)
	}
	out, err := DecodeOffer(buf)
	if err != nil {
		t.Fatalf("decode offer: %v", err)
	}
	if out != in {
		t.Fatalf("round-trip mismatch: got=%+v want=%+v", out, in)
	}
}

func TestRequestRoundTrip(t *testing.T) {
	testlog.Start(t)
	for _, in := range []Request{
		{Rounds: 1, ClientName: "Alice"},
		{Rounds: 255, ClientName: ""},
		{Rounds: 17, ClientName: strings.Repeat("x", NameSize)},
	} {
		out, err := DecodeRequest(EncodeRequest(in))
		if err != nil {
			t.Fatalf("decode request %+v: %v", in, err)
		}
		if out != in {
			t.Fatalf("round-trip mismatch: got=%+v want=%+v", out, in)
		}
	}
}

func TestClientPayloadRoundTrip(t *testing.T) {
	testlog.Start(t)
	for _, d := range []Decision{DecisionHit, DecisionStand} {
		buf, err := EncodeClientPayload(ClientPayload{Decision: d})
		if err != nil {
			t.Fatalf("encode %s: %v", d, err)
		}
		out, err := DecodeClientPayload(buf)
		if err != nil {
			t.Fatalf("decode %s: %v", d, err)
		}
		if out.Decision != d {
			t.Fatalf("decision got=%q want=%q", out.Decision, d)
		}
	}
}

func TestServerPayloadRoundTrip(t *testing.T) {
	testlog.Start(t)
	for _, in := range []ServerPayload{
		{Result: ResultOngoing, Card: CardFields{Rank: 10, Suit: 0}},
		{Result: ResultLoss, Card: CardFields{Rank: 13, Suit: 3}},
		{Result: ResultTie},
		{Result: ResultWin},
	} {
		out, err := DecodeServerPayload(EncodeServerPayload(in))
		if err != nil {
			t.Fatalf("decode %+v: %v", in, err)
		}
		if out != in {
			t.Fatalf("round-trip mismatch: got=%+v want=%+v", out, in)
		}
	}
}

func TestWireLayoutIsBigEndian(t *testing.T) {
	testlog.Start(t)
	buf := EncodeOffer(Offer{TCPPort: 0x1234, ServerName: "ab"})
	want := []byte{0xAB, 0xCD, 0xDC, 0xBA, 0x02, 0x12, 0x34, 'a', 'b', 0}
	if !bytes.Equal(buf[:len(want)], want) {
		t.Fatalf("offer prefix got=% x want=% x", buf[:len(want)], want)
	}

	buf = EncodeServerPayload(ServerPayload{Result: ResultWin, Card: CardFields{Rank: 12, Suit: 2}})
	want = []byte{0xAB, 0xCD, 0xDC, 0xBA, 0x04, 0x03, 0x00, 0x0C, 0x02}
	if !bytes.Equal(buf, want) {
		t.Fatalf("server payload got=% x want=% x", buf, want)
	}

	buf, _ = EncodeClientPayload(ClientPayload{Decision: DecisionHit})
	want = []byte{0xAB, 0xCD, 0xDC, 0xBA, 0x04, 'H', 'i', 't', 0, 0}
	if !bytes.Equal(buf, want) {
		t.Fatalf("hit payload got=% x want=% x", buf, want)
	}
}

func TestLongNameTruncatedWithoutPadding(t *testing.T) {
	testlog.Start(t)
	name := strings.Repeat("n", NameSize) + "-overflow"
	buf := EncodeRequest(Request{Rounds: 3, ClientName: name})
	if len(buf) != RequestSize {
		t.Fatalf("request size got=%d want=%d", len(buf), RequestSize)
	}
	field := buf[6 : 6+NameSize]
	if bytes.IndexByte(field, 0) != -1 {
		t.Fatalf("expected no padding byte in truncated name: % x", field)
	}
	out, err := DecodeRequest(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ClientName != name[:NameSize] {
		t.Fatalf("name got=%q want=%q", out.ClientName, name[:NameSize])
	}
	if TruncateName(name) != out.ClientName {
		t.Fatalf("TruncateName mismatch: %q", TruncateName(name))
	}
}

func TestShortBuffersAreTruncated(t *testing.T) {
	testlog.Start(t)
	full := map[string][]byte{
		"offer":          EncodeOffer(Offer{TCPPort: 1, ServerName: "s"}),
		"request":        EncodeRequest(Request{Rounds: 1, ClientName: "c"}),
		"server_payload": EncodeServerPayload(ServerPayload{Result: ResultTie}),
	}
	hit, _ := EncodeClientPayload(ClientPayload{Decision: DecisionHit})
	full["client_payload"] = hit

	decoders := map[string]func([]byte) error{
		"offer":          func(b []byte) error { _, err := DecodeOffer(b); return err },
		"request":        func(b []byte) error { _, err := DecodeRequest(b); return err },
		"client_payload": func(b []byte) error { _, err := DecodeClientPayload(b); return err },
		"server_payload": func(b []byte) error { _, err := DecodeServerPayload(b); return err },
	}
	for name, buf := range full {
		for n := 0; n < len(buf); n++ {
			err := decoders[name](buf[:n])
			if !errors.Is(err, ErrTruncated) {
				t.Fatalf("%s len=%d: expected ErrTruncated, got %v", name, n, err)
			}
			if kind, ok := KindOf(err); !ok || kind != TruncatedMessage {
				t.Fatalf("%s len=%d: unexpected kind %v", name, n, kind)
			}
		}
	}
}

func TestDecodeBadMagic(t *testing.T) {
	testlog.Start(t)
	buf := EncodeRequest(Request{Rounds: 1, ClientName: "Alice"})
	binary.BigEndian.PutUint32(buf[0:4], 0xDEADBEEF)
	_, err := DecodeRequest(buf)
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestDecodeBadType(t *testing.T) {
	testlog.Start(t)
	buf := EncodeOffer(Offer{TCPPort: 1, ServerName: "s"})
	_, err := DecodeRequest(buf[:RequestSize])
	if !errors.Is(err, ErrBadType) {
		t.Fatalf("expected ErrBadType, got %v", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) || de.Want != MessageRequest {
		t.Fatalf("expected DecodeError wanting request, got %#v", err)
	}
}

func TestDecodeInvalidDecision(t *testing.T) {
	testlog.Start(t)
	for _, raw := range []string{"hit\x00\x00", "stand", "Hit\x00x", "Stnd\x00", "\x00\x00\x00\x00\x00"} {
		buf := make([]byte, ClientPayloadSize)
		putHeader(buf, MessagePayload)
		copy(buf[5:], raw)
		if _, err := DecodeClientPayload(buf); !errors.Is(err, ErrInvalidDecision) {
			t.Fatalf("decision %q: expected ErrInvalidDecision, got %v", raw, err)
		}
	}
	if _, err := EncodeClientPayload(ClientPayload{Decision: "Double"}); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected encode to reject unknown decision, got %v", err)
	}
}

func TestDecodeLegacyHitPattern(t *testing.T) {
	testlog.Start(t)
	buf := make([]byte, ClientPayloadSize)
	putHeader(buf, MessagePayload)
	copy(buf[5:], "Hittt")
	out, err := DecodeClientPayload(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Decision != DecisionHit {
		t.Fatalf("decision got=%q", out.Decision)
	}
}

func TestDecodeZeroRoundsRejected(t *testing.T) {
	testlog.Start(t)
	buf := EncodeRequest(Request{Rounds: 0, ClientName: "Zero"})
	_, err := DecodeRequest(buf)
	if !errors.Is(err, ErrInvalidRounds) {
		t.Fatalf("expected ErrInvalidRounds, got %v", err)
	}
}

func TestDecodeServerPayloadRejectsBadCard(t *testing.T) {
	testlog.Start(t)
	cases := []ServerPayload{
		{Result: ResultOngoing, Card: CardFields{Rank: 14, Suit: 0}},
		{Result: ResultOngoing, Card: CardFields{Rank: 1, Suit: 4}},
		{Result: ResultTie, Card: CardFields{Rank: 0, Suit: 2}},
		{Result: Result(9)},
	}
	for _, p := range cases {
		if _, err := DecodeServerPayload(EncodeServerPayload(p)); !errors.Is(err, ErrInvalidCard) {
			t.Fatalf("payload %+v: expected ErrInvalidCard, got %v", p, err)
		}
	}
}

func TestOfferTrailingBytesIgnored(t *testing.T) {
	testlog.Start(t)
	buf := append(EncodeOffer(Offer{TCPPort: 7, ServerName: "dealer"}), 0xFF, 0xFF)
	out, err := DecodeOffer(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.TCPPort != 7 || out.ServerName != "dealer" {
		t.Fatalf("unexpected offer: %+v", out)
	}
}

func TestPeekHeader(t *testing.T) {
	testlog.Start(t)
	typ, err := PeekHeader(EncodeServerPayload(ServerPayload{Result: ResultTie}))
	if err != nil || typ != MessagePayload {
		t.Fatalf("peek got=%v err=%v", typ, err)
	}
	if _, err := PeekHeader([]byte{0, 0, 0, 0, 4}); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}
