// Package parser decodes pump.fun CreateEvent payloads out of raw
// program log batches. It works on the log lines alone and performs
// manual byte-level decoding of the event layout, without external
// parsing libraries.
//
// Anything that is not a well-formed creation event is discarded
// silently: the subscription delivers every transaction that mentions
// the program, so buys, sells and malformed payloads are expected
// traffic, not errors.
package parser

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// programDataMarker prefixes the base64 event payload emitted by the
// program runtime into the transaction logs.
const programDataMarker = "Program data: "

// CreateEventDiscriminator identifies the CreateEvent payload (first 8
// bytes of the decoded log data).
var CreateEventDiscriminator = []byte{24, 30, 200, 40, 5, 28, 7, 119}

// CreateEvent fixed layout offsets: name and symbol are 32-byte
// NUL-padded fields, followed by a little-endian u32 length-prefixed URI.
const (
	nameStart   = 8
	symbolStart = 40
	uriLenStart = 72
	uriStart    = 76
)

// CreationEvent is a decoded token creation. Name, Symbol, MetadataURI
// and Signature come from the log payload; Mint and Dev are zero until
// the resolver fills them from the fetched transaction.
type CreationEvent struct {
	Signature   string
	Name        string
	Symbol      string
	MetadataURI string
	Mint        solana.PublicKey
	Dev         solana.PublicKey
}

// DecodeCreateEvent scans a log batch for a CreateEvent payload and
// decodes it. It returns nil for anything that is not a creation:
// missing program-data line, undecodable base64, wrong discriminator,
// or a malformed field layout.
func DecodeCreateEvent(logs []string, signature string) *CreationEvent {
	payload := extractProgramData(logs)
	if payload == "" {
		return nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"signature": shortSig(signature),
			"error":     err.Error(),
		}).Debug("❌ Undecodable program data, skipping")
		return nil
	}

	if len(data) < uriStart {
		return nil
	}

	if !bytes.Equal(data[:8], CreateEventDiscriminator) {
		return nil
	}

	name, ok := decodePaddedString(data[nameStart:symbolStart])
	if !ok {
		logDecodeFault(signature, "name")
		return nil
	}

	symbol, ok := decodePaddedString(data[symbolStart:uriLenStart])
	if !ok {
		logDecodeFault(signature, "symbol")
		return nil
	}

	uriLen := binary.LittleEndian.Uint32(data[uriLenStart:uriStart])
	if uriStart+int(uriLen) > len(data) {
		logDecodeFault(signature, "uri length")
		return nil
	}

	uri, ok := decodePaddedString(data[uriStart : uriStart+int(uriLen)])
	if !ok {
		logDecodeFault(signature, "uri")
		return nil
	}

	event := &CreationEvent{
		Signature:   signature,
		Name:        name,
		Symbol:      symbol,
		MetadataURI: uri,
	}

	logrus.WithFields(logrus.Fields{
		"signature": shortSig(signature),
		"name":      name,
		"symbol":    symbol,
	}).Debug("🆕 Creation event decoded")

	return event
}

// extractProgramData returns the base64 payload of the first
// program-data log line, or "" when the batch carries none.
func extractProgramData(logs []string) string {
	for _, line := range logs {
		if idx := strings.Index(line, programDataMarker); idx >= 0 {
			return strings.TrimSpace(line[idx+len(programDataMarker):])
		}
	}
	return ""
}

// decodePaddedString strips trailing NUL padding and rejects invalid
// UTF-8, which indicates a mis-sliced field rather than a real name.
func decodePaddedString(raw []byte) (string, bool) {
	s := strings.TrimRight(string(raw), "\x00")
	if !utf8.ValidString(s) {
		return "", false
	}
	return s, true
}

func logDecodeFault(signature, field string) {
	logrus.WithFields(logrus.Fields{
		"signature": shortSig(signature),
		"field":     field,
	}).Debug("❌ Malformed creation payload, skipping")
}

func shortSig(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[:8] + "..."
}
