package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"crawler-server/internal/domain"
)

const (
	MagicHeader string = `CDJL` // 4 байта
	Version1    uint32 = 1
)

// JournalFileHeader: точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type JournalFileHeader struct {
	Magic     [4]byte // 4 байта
	Version   uint32  // 4 байта
	Seed      int64   // 8 байт
	Timestamp int64   // 8 байт
}

// RecordHeader: заголовок каждой записи.
type RecordHeader struct {
	UnixMilli  int64    // 8
	ActionType uint8    // 1
	PlayerID   [16]byte // 16
	PayloadLen uint16   // 2
}

// JournalWriter дописывает принятые команды в конец журнала.
// Безопасен для одновременного вызова из нескольких сессий.
type JournalWriter struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
}

// OpenJournal создает (или перезаписывает) файл журнала и пишет заголовок.
func OpenJournal(path string, seed int64) (*JournalWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	jw, err := NewJournalWriter(f, seed, time.Now().UnixMilli())
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	jw.closer = f
	return jw, nil
}

// NewJournalWriter пишет журнал в произвольный поток.
func NewJournalWriter(w io.Writer, seed, timestamp int64) (*JournalWriter, error) {
	header := JournalFileHeader{
		Version:   Version1,
		Seed:      seed,
		Timestamp: timestamp,
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}
	return &JournalWriter{w: bw}, nil
}

// Record пишет одну запись и сразу сбрасывает буфер: журнал нужен и после падения процесса.
func (j *JournalWriter) Record(rec domain.JournalRecord) error {
	payloadLen := len(rec.Payload)
	if payloadLen > 65535 {
		return fmt.Errorf("payload too long: %d", payloadLen)
	}

	recHeader := RecordHeader{
		UnixMilli:  rec.UnixMilli,
		ActionType: uint8(rec.Action),
		PlayerID:   rec.PlayerID,
		PayloadLen: uint16(payloadLen),
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	// Пишем заголовок записи одной командой
	if err := binary.Write(j.w, binary.LittleEndian, &recHeader); err != nil {
		return err
	}
	if payloadLen > 0 {
		if _, err := j.w.Write(rec.Payload); err != nil {
			return err
		}
	}
	return j.w.Flush()
}

func (j *JournalWriter) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.w.Flush(); err != nil {
		return err
	}
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
