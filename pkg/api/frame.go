package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// FrameKind - что означает входящий текстовый кадр после разбора кодеком.
type FrameKind uint8

const (
	FrameIgnore  FrameKind = iota
	FrameCommand           // команда игрока
	FramePing              // нужно ответить Reply
	FramePong
	FrameClose // клиент прощается
	FrameReply // служебный кадр, на который надо ответить Reply (например connect)
)

// Frame - результат разбора входящего кадра.
type Frame struct {
	Kind    FrameKind
	Command ClientCommand
	Reply   []byte
}

// ErrMalformedFrame - кадр не удалось разобрать. Сессия отвечает Error и продолжает работу.
var ErrMalformedFrame = errors.New("malformed frame")

// Codec отвечает за обрамление документов {type, data} в кадры транспорта.
type Codec interface {
	Name() string
	// Open - кадры, которые уходят сразу после апгрейда соединения.
	Open(sid string) ([][]byte, error)
	Decode(frame []byte) (Frame, error)
	Encode(ev ServerEvent) ([]byte, error)
	// ServerPings - true, если живость проверяется управляющими ping-кадрами websocket.
	ServerPings() bool
}

// --- Plain JSON ---

// PlainCodec: каждый текстовый кадр - ровно один JSON-документ.
type PlainCodec struct{}

func (PlainCodec) Name() string { return "plain" }

func (PlainCodec) Open(string) ([][]byte, error) { return nil, nil }

func (PlainCodec) ServerPings() bool { return true }

func (PlainCodec) Decode(frame []byte) (Frame, error) {
	return decodeCommand(frame)
}

func (PlainCodec) Encode(ev ServerEvent) ([]byte, error) {
	return json.Marshal(ev)
}

// --- Socket.IO (engine.io) ---

// Управляющие цифры engine.io и socket.io
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'

	sioConnect    = '0'
	sioDisconnect = '1'
	sioEvent      = '2'
)

// SocketIOCodec - текстовые кадры с управляющей цифрой engine.io и цифрой типа socket.io.
// Ping шлет клиент, сервер отвечает pong с тем же хвостом.
type SocketIOCodec struct {
	PingInterval time.Duration
	PingTimeout  time.Duration
}

type handshake struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int64    `json:"pingInterval"`
	PingTimeout  int64    `json:"pingTimeout"`
}

func (SocketIOCodec) Name() string { return "socket.io" }

func (SocketIOCodec) ServerPings() bool { return false }

func (c SocketIOCodec) Open(sid string) ([][]byte, error) {
	body, err := json.Marshal(handshake{
		SID:          sid,
		Upgrades:     []string{},
		PingInterval: c.PingInterval.Milliseconds(),
		PingTimeout:  c.PingTimeout.Milliseconds(),
	})
	if err != nil {
		return nil, err
	}
	return [][]byte{append([]byte{eioOpen}, body...)}, nil
}

func (SocketIOCodec) Decode(frame []byte) (Frame, error) {
	if len(frame) == 0 {
		return Frame{}, fmt.Errorf("%w: empty frame", ErrMalformedFrame)
	}

	switch frame[0] {
	case eioPing:
		return Frame{Kind: FramePing, Reply: append([]byte{eioPong}, frame[1:]...)}, nil
	case eioPong:
		return Frame{Kind: FramePong}, nil
	case eioClose:
		return Frame{Kind: FrameClose}, nil
	case eioMessage:
		// разбирается ниже
	default:
		return Frame{}, fmt.Errorf("%w: unknown control digit %q", ErrMalformedFrame, frame[0])
	}

	if len(frame) < 2 {
		return Frame{}, fmt.Errorf("%w: message without type", ErrMalformedFrame)
	}
	body := frame[2:]
	switch frame[1] {
	case sioConnect:
		return Frame{Kind: FrameReply, Reply: []byte{eioMessage, sioConnect}}, nil
	case sioDisconnect:
		return Frame{Kind: FrameClose}, nil
	case sioEvent:
		if bytes.HasPrefix(bytes.TrimSpace(body), []byte("[")) {
			return decodeEventArray(body)
		}
		return decodeCommand(body)
	}
	return Frame{}, fmt.Errorf("%w: unknown message type %q", ErrMalformedFrame, frame[1])
}

func (SocketIOCodec) Encode(ev ServerEvent) ([]byte, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return append([]byte{eioMessage, sioEvent}, body...), nil
}

// decodeEventArray принимает классическую форму socket.io: ["Move", {...}].
func decodeEventArray(body []byte) (Frame, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil || len(parts) == 0 {
		return Frame{}, fmt.Errorf("%w: bad event array", ErrMalformedFrame)
	}
	var cmd ClientCommand
	if err := json.Unmarshal(parts[0], &cmd.Type); err != nil {
		return Frame{}, fmt.Errorf("%w: event name must be a string", ErrMalformedFrame)
	}
	if len(parts) > 1 {
		cmd.Data = parts[1]
	}
	if cmd.Type == "" {
		return Frame{}, fmt.Errorf("%w: empty type", ErrMalformedFrame)
	}
	return Frame{Kind: FrameCommand, Command: cmd}, nil
}

func decodeCommand(body []byte) (Frame, error) {
	var cmd ClientCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if cmd.Type == "" {
		return Frame{}, fmt.Errorf("%w: empty type", ErrMalformedFrame)
	}
	return Frame{Kind: FrameCommand, Command: cmd}, nil
}
