package db

import (
	"encoding/binary"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

func (db *DB) initCodec() error {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	db.enc = enc
	db.dec = dec
	return nil
}

// encodeContents packs bin counts as little-endian uint64s and compresses
// them with zstd.
func (db *DB) encodeContents(contents []uint64) []byte {
	raw := make([]byte, 8*len(contents))
	for i, c := range contents {
		binary.LittleEndian.PutUint64(raw[8*i:], c)
	}
	return db.enc.EncodeAll(raw, nil)
}

func (db *DB) decodeContents(blob []byte, slots int) ([]uint64, error) {
	raw, err := db.dec.DecodeAll(blob, make([]byte, 0, 8*slots))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress bin contents: %w", err)
	}
	if len(raw) != 8*slots {
		return nil, fmt.Errorf("bin contents hold %d bytes, want %d", len(raw), 8*slots)
	}
	contents := make([]uint64, slots)
	for i := range contents {
		contents[i] = binary.LittleEndian.Uint64(raw[8*i:])
	}
	return contents, nil
}
