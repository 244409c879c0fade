package memory

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/klauspost/compress/zstd"
)

// Snapshot layout (after the uncompressed header, everything is one zstd
// stream): maxDoc, deleted-set, then per field the sorted terms with their
// roaring-serialized postings. All lengths are uvarints.
const (
	snapshotMagic   uint32 = 0x54464D53 // "TFMS"
	snapshotVersion byte   = 1
)

// ErrBadSnapshot indicates a snapshot stream that is not a memory-segment
// snapshot or uses an unsupported version.
var ErrBadSnapshot = errors.New("bad segment snapshot")

// WriteSnapshot serializes the segment to w as a zstd-compressed snapshot.
func (s *Segment) WriteSnapshot(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var header [5]byte
	binary.BigEndian.PutUint32(header[:4], snapshotMagic)
	header[4] = snapshotVersion
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	bw := bufio.NewWriter(zw)

	writeUvarint(bw, uint64(s.maxDoc))
	if err := writeBitmap(bw, s.deleted); err != nil {
		return err
	}

	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)

	writeUvarint(bw, uint64(len(names)))
	for _, name := range names {
		fd := s.fields[name]
		writeBytes(bw, []byte(name))
		writeUvarint(bw, uint64(len(fd.terms)))
		for _, term := range fd.terms {
			writeBytes(bw, term)
			if err := writeBitmap(bw, fd.postings[string(term)]); err != nil {
				return err
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zstd writer: %w", err)
	}
	return nil
}

// ReadSnapshot deserializes a segment previously written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Segment, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	if binary.BigEndian.Uint32(header[:4]) != snapshotMagic {
		return nil, fmt.Errorf("%w: magic mismatch", ErrBadSnapshot)
	}
	if header[4] != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, header[4])
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()
	br := bufio.NewReader(zr)

	seg := New()

	maxDoc, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("read doc count: %w", err)
	}
	seg.maxDoc = uint32(maxDoc)

	if seg.deleted, err = readBitmap(br); err != nil {
		return nil, err
	}

	fieldCount, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("read field count: %w", err)
	}
	for range fieldCount {
		name, err := readBytes(br)
		if err != nil {
			return nil, err
		}
		fd := &fieldDict{postings: make(map[string]*roaring.Bitmap)}
		seg.fields[string(name)] = fd

		termCount, err := binary.ReadUvarint(br)
		if err != nil {
			return nil, fmt.Errorf("read term count: %w", err)
		}
		fd.terms = make([][]byte, 0, termCount)
		for range termCount {
			term, err := readBytes(br)
			if err != nil {
				return nil, err
			}
			rb, err := readBitmap(br)
			if err != nil {
				return nil, err
			}
			// Terms were written in sorted order.
			fd.terms = append(fd.terms, term)
			fd.postings[string(term)] = rb
		}
	}

	return seg, nil
}

func writeUvarint(w *bufio.Writer, v uint64) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	w.Write(buf[:n]) //nolint:errcheck // surfaced by the final Flush
}

func writeBytes(w *bufio.Writer, b []byte) {
	writeUvarint(w, uint64(len(b)))
	w.Write(b) //nolint:errcheck // surfaced by the final Flush
}

func writeBitmap(w *bufio.Writer, rb *roaring.Bitmap) error {
	data, err := rb.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal postings: %w", err)
	}
	writeBytes(w, data)
	return nil
}

func readBytes(r *bufio.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("read bytes: %w", err)
	}
	return b, nil
}

func readBitmap(r *bufio.Reader) (*roaring.Bitmap, error) {
	data, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	rb := roaring.New()
	if err := rb.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("unmarshal postings: %w", err)
	}
	return rb, nil
}
