// Package archive locates and decompresses a single named entry in a ZIP
// container by scanning local file headers from the start of the stream.
//
// The central directory is never consulted. This handles the usual
// single-pass DOCX layout but is not complete ZIP support: entries that are
// only reachable through the central directory are not found.
package archive

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/flate"

	"github.com/spherical/cv-extractor/internal/domain"
)

const (
	localHeaderSignature = 0x04034b50
	localHeaderSize      = 26

	MethodStored  uint16 = 0
	MethodDeflate uint16 = 8

	// DefaultMaxEntryBytes bounds the declared compressed size of a scanned entry.
	DefaultMaxEntryBytes = 64 << 20

	maxInflateRatio = 16
)

// Reader scans a ZIP stream for one named entry.
type Reader struct {
	maxEntryBytes int64
	logger        *domain.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxEntryBytes rejects entries whose declared size exceeds n bytes.
func WithMaxEntryBytes(n int64) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxEntryBytes = n
		}
	}
}

// WithLogger sets the logger used for scan diagnostics.
func WithLogger(l *domain.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewReader creates a Reader with the given options.
func NewReader(opts ...Option) *Reader {
	r := &Reader{
		maxEntryBytes: DefaultMaxEntryBytes,
		logger:        domain.DefaultLogger.WithPrefix("archive"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExtractEntry returns the decompressed bytes of the entry named target using a default Reader.
func ExtractEntry(r io.Reader, target string) ([]byte, error) {
	return NewReader().ExtractEntry(r, target)
}

// ExtractFile opens path and extracts target from it.
func (r *Reader) ExtractFile(path, target string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("cannot open archive: %s", path), err)
	}
	defer f.Close()

	return r.ExtractEntry(f, target)
}

// ExtractEntry scans src for a local file header named target and returns its
// decompressed payload.
func (r *Reader) ExtractEntry(src io.Reader, target string) ([]byte, error) {
	br := bufio.NewReader(src)

	var window [4]byte
	if _, err := io.ReadFull(br, window[:]); err != nil {
		return nil, r.scanEnd(target, err)
	}

	scanned := 0
	for {
		if binary.LittleEndian.Uint32(window[:]) == localHeaderSignature {
			entry, err := r.readEntry(br, target)
			if err != nil {
				return nil, err
			}
			scanned++

			if entry.Name == target {
				r.logger.Debug("found %s after %d entries (method %d, %d bytes)",
					target, scanned, entry.Method, entry.CompressedSize)
				return r.decompress(br, entry)
			}

			if _, err := io.ReadFull(br, window[:]); err != nil {
				return nil, r.scanEnd(target, err)
			}
			continue
		}

		// Slide by one byte so signatures at any offset are found.
		b, err := br.ReadByte()
		if err != nil {
			return nil, r.scanEnd(target, err)
		}
		copy(window[:], window[1:])
		window[3] = b
	}
}

// readEntry reads the header fields following a signature. The payload is
// read unless the entry is the target and its size is deferred to a data
// descriptor, in which case decompress consumes it from br.
func (r *Reader) readEntry(br *bufio.Reader, target string) (*domain.ArchiveEntry, error) {
	var hdr [localHeaderSize]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		// A signature-like byte run near the end of the stream is not an entry.
		return nil, r.scanEnd(target, err)
	}

	entry := &domain.ArchiveEntry{
		Flags:          binary.LittleEndian.Uint16(hdr[2:4]),
		Method:         binary.LittleEndian.Uint16(hdr[4:6]),
		CompressedSize: binary.LittleEndian.Uint32(hdr[14:18]),
	}
	nameLen := int(binary.LittleEndian.Uint16(hdr[22:24]))
	extraLen := int64(binary.LittleEndian.Uint16(hdr[24:26]))

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(br, name); err != nil {
		return nil, r.scanEnd(target, err)
	}
	entry.Name = string(name)

	if _, err := io.CopyN(io.Discard, br, extraLen); err != nil {
		if entry.Name != target {
			return nil, r.scanEnd(target, err)
		}
		return nil, domain.ArchiveError(fmt.Sprintf("truncated extra field for %s", entry.Name), err)
	}

	if entry.Name == target && entry.HasDataDescriptor() && entry.CompressedSize == 0 {
		return entry, nil
	}

	if entry.Name != target {
		if _, err := io.CopyN(io.Discard, br, int64(entry.CompressedSize)); err != nil {
			return nil, r.scanEnd(target, err)
		}
		return entry, nil
	}

	if int64(entry.CompressedSize) > r.maxEntryBytes {
		return nil, domain.ArchiveError(fmt.Sprintf("entry %s declares %d bytes, limit is %d",
			entry.Name, entry.CompressedSize, r.maxEntryBytes), nil)
	}

	entry.Data = make([]byte, entry.CompressedSize)
	if _, err := io.ReadFull(br, entry.Data); err != nil {
		return nil, domain.ArchiveError(fmt.Sprintf("truncated payload for %s", entry.Name), err)
	}
	return entry, nil
}

func (r *Reader) decompress(br *bufio.Reader, entry *domain.ArchiveEntry) ([]byte, error) {
	streamed := entry.Data == nil && entry.HasDataDescriptor()

	switch entry.Method {
	case MethodStored:
		if streamed {
			// A stored payload of unknown length cannot be delimited.
			return nil, domain.UnsupportedCompressionError(entry.Method)
		}
		return entry.Data, nil

	case MethodDeflate:
		var src io.Reader = bytes.NewReader(entry.Data)
		if streamed {
			src = br
		}
		fr := flate.NewReader(src)
		defer fr.Close()

		limit := r.maxEntryBytes * maxInflateRatio
		out, err := io.ReadAll(io.LimitReader(fr, limit+1))
		if err != nil {
			return nil, domain.ArchiveError(fmt.Sprintf("inflate %s", entry.Name), err)
		}
		if int64(len(out)) > limit {
			return nil, domain.ArchiveError(fmt.Sprintf("entry %s inflates beyond %d bytes", entry.Name, limit), nil)
		}
		return out, nil

	default:
		return nil, domain.UnsupportedCompressionError(entry.Method)
	}
}

func (r *Reader) scanEnd(target string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return domain.NotFoundError(fmt.Sprintf("entry %s not found in archive", target))
	}
	return domain.IOError("read archive", err)
}
