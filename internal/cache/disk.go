package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// record is the on-disk envelope: a (key, compressed payload, metadata)
// triple, gob-encoded as a single file per the disk cache layout.
type record struct {
	Key              Key
	Kind             string // "symbols" or "tokens"
	Metadata         Metadata
	CompressedPayload []byte
}

// diskTier implements the sharded, content-addressed disk cache.
type diskTier struct {
	root     string
	toolName string
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

func newDiskTier(root, toolName string) (*diskTier, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("cache: init compressor: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("cache: init decompressor: %w", err)
	}
	return &diskTier{root: root, toolName: toolName, encoder: enc, decoder: dec}, nil
}

// entryPath returns <root>/<tool>/<hash[0:2]>/<filename>_<hash[0:8]>.cache,
// the sharded layout from the disk cache store contract.
func (d *diskTier) entryPath(k Key) string {
	shard := k.Hash[:2]
	name := sanitizeFilename(filepath.Base(k.Path))
	short := k.Hash[:8]
	return filepath.Join(d.root, d.toolName, shard, fmt.Sprintf("%s_%s.cache", name, short))
}

func sanitizeFilename(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" {
		name = "file"
	}
	return name
}

func (d *diskTier) compress(b []byte) []byte {
	return d.encoder.EncodeAll(b, nil)
}

func (d *diskTier) decompress(b []byte, expectedSize int) ([]byte, error) {
	out, err := d.decoder.DecodeAll(b, nil)
	if err != nil {
		return nil, err
	}
	if expectedSize >= 0 && len(out) != expectedSize {
		return nil, fmt.Errorf("cache: decompressed size %d does not match declared size %d", len(out), expectedSize)
	}
	return out, nil
}

func (d *diskTier) write(k Key, kind string, meta Metadata, payload []byte) error {
	compressed := d.compress(payload)
	meta.UncompressedSize = len(payload)
	meta.CompressedSize = len(compressed)
	rec := record{Key: k, Kind: kind, Metadata: meta, CompressedPayload: compressed}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&rec); err != nil {
		return err
	}

	path := d.entryPath(k)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// read loads the record for k. A missing file, a corrupted envelope, or a
// decompressed-size mismatch are all treated as a miss; a corrupted envelope
// or a size mismatch also deletes the offending file via removeCorrupt.
func (d *diskTier) read(k Key) (*record, []byte, error) {
	path := d.entryPath(k)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var rec record
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&rec); err != nil {
		d.removeCorrupt(path)
		return nil, nil, err
	}
	payload, err := d.decompress(rec.CompressedPayload, rec.Metadata.UncompressedSize)
	if err != nil {
		d.removeCorrupt(path)
		return nil, nil, err
	}
	return &rec, payload, nil
}

func (d *diskTier) removeCorrupt(path string) {
	_ = os.Remove(path)
}

func (d *diskTier) invalidate(k Key) {
	_ = os.Remove(d.entryPath(k))
}

func (d *diskTier) clearAll() error {
	return os.RemoveAll(filepath.Join(d.root, d.toolName))
}
