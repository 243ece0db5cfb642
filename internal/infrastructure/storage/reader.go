package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"crawler-server/internal/domain"
)

// LoadJournal читает файл журнала целиком.
func LoadJournal(path string) (*domain.JournalSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadJournal(f)
}

// ReadJournal читает заголовок и все записи до конца потока.
// Оборванная последняя запись считается ошибкой.
func ReadJournal(r io.Reader) (*domain.JournalSession, error) {
	// 1. Читаем заголовок целиком
	var header JournalFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}

	session := &domain.JournalSession{
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
	}

	// 2. Читаем записи
	for {
		var rh RecordHeader
		err := binary.Read(r, binary.LittleEndian, &rh)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(session.Records), err)
		}

		rec := domain.JournalRecord{
			UnixMilli: rh.UnixMilli,
			Action:    domain.ActionType(rh.ActionType),
			PlayerID:  domain.PlayerID(rh.PlayerID),
			Payload:   json.RawMessage{},
		}
		if rh.PayloadLen > 0 {
			rec.Payload = make([]byte, rh.PayloadLen)
			if _, err := io.ReadFull(r, rec.Payload); err != nil {
				return nil, fmt.Errorf("record %d payload: %w", len(session.Records), err)
			}
		}

		session.Records = append(session.Records, rec)
	}

	return session, nil
}
