package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// File format: 8-byte magic, uint32 dimension, uint32 count, then
// count*dimension little-endian float32 values. The file is opaque to
// every other package; only this one reads or writes it.
var fileMagic = [8]byte{'F', 'L', 'A', 'T', 'I', 'D', 'X', '1'}

// magic + dimension + count.
const headerSize = 8 + 4 + 4

// WriteFile persists the index to path.
func (f *Flat) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file %s: %w", path, err)
	}

	w := bufio.NewWriter(file)
	if err := f.encode(w); err != nil {
		_ = file.Close()
		return fmt.Errorf("write index file %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush index file %s: %w", path, err)
	}
	return file.Close()
}

// ReadFile loads an index previously written by WriteFile.
func ReadFile(path string) (*Flat, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat index file %s: %w", path, err)
	}

	idx, err := decode(bufio.NewReader(file), info.Size())
	if err != nil {
		return nil, fmt.Errorf("read index file %s: %w", path, err)
	}
	return idx, nil
}

func (f *Flat) encode(w io.Writer) error {
	if _, err := w.Write(fileMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(f.dim)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(f.Len())); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, f.vectors)
}

func decode(r io.Reader, size int64) (*Flat, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("not a flat index file (magic %q)", magic[:])
	}

	var dim, count uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read dimension: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}
	if dim == 0 {
		return nil, fmt.Errorf("invalid dimension in header: %d", dim)
	}

	// Never trust the header for allocation: the payload it claims must
	// match the bytes actually present.
	payload := size - headerSize
	if payload < 0 || payload%4 != 0 {
		return nil, fmt.Errorf("file size %d does not match header", size)
	}
	if uint64(dim)*uint64(count) != uint64(payload/4) {
		return nil, fmt.Errorf("header claims %d vectors of dim %d but file holds %d values",
			count, dim, payload/4)
	}

	vectors := make([]float32, int(dim)*int(count))
	if err := binary.Read(r, binary.LittleEndian, vectors); err != nil {
		return nil, fmt.Errorf("read %d vectors of dim %d: %w", count, dim, err)
	}

	// Trailing bytes mean a corrupt or mismatched file.
	var extra [1]byte
	if _, err := r.Read(extra[:]); err != io.EOF {
		return nil, fmt.Errorf("trailing data after %d vectors", count)
	}

	return &Flat{dim: int(dim), vectors: vectors}, nil
}
