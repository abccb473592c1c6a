package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
)

// Writer writes networks in .mlp format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .mlp file writer.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &Writer{
		file:   file,
		closed: false,
	}, nil
}

// Write writes the tensors with the given header to the file.
//
// Header.Tensors, FormatVersion, RunID and CreatedAt are filled in by the
// writer.
func (w *Writer) Write(tensors []Tensor, header Header) error {
	if w.closed {
		return ErrWriterClosed
	}
	return WriteTo(w.file, tensors, header)
}

// Close closes the writer and the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// WriteTo writes tensors to an io.Writer in .mlp format.
//
// Tensors are stored in slice order; the returned file lists them in the
// same order.
//
//nolint:gocyclo,cyclop // Binary layout is written field by field
func WriteTo(writer io.Writer, tensors []Tensor, header Header) error {
	header.FormatVersion = FormatVersion
	if header.RunID == "" {
		header.RunID = uuid.NewString()
	}
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Calculate tensor offsets and collect tensor data
	var currentOffset int64
	header.Tensors = make([]TensorMeta, 0, len(tensors))
	var dataBuf []byte
	for _, t := range tensors {
		if err := ValidateTensorName(t.Name); err != nil {
			return err
		}
		if t.Value == nil {
			return fmt.Errorf("tensor %s has no value", t.Name)
		}
		rows, cols := t.Value.Dims()
		size := int64(rows) * int64(cols) * ElementSize

		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   t.Name,
			Rows:   rows,
			Cols:   cols,
			Offset: currentOffset,
			Size:   size,
		})
		currentOffset += size

		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				dataBuf = binary.LittleEndian.AppendUint64(dataBuf, math.Float64bits(t.Value.At(i, j)))
			}
		}
	}

	checksum := ComputeChecksum(dataBuf)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	headerSize := uint64(len(headerJSON))
	dataSize := uint64(len(dataBuf))

	fixedHeader := make([]byte, FixedHeaderSize)

	// 0x00-0x03: Magic bytes "MLPN"
	copy(fixedHeader[0:4], MagicBytes)

	// 0x04-0x07: Version
	binary.LittleEndian.PutUint32(fixedHeader[4:8], uint32(FormatVersion))

	// 0x08-0x0B: Flags
	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	binary.LittleEndian.PutUint32(fixedHeader[8:12], flags)

	// 0x0C-0x0F: Reserved (0)

	// 0x10-0x17: Header size
	binary.LittleEndian.PutUint64(fixedHeader[16:24], headerSize)

	// 0x18-0x1F: Data size
	binary.LittleEndian.PutUint64(fixedHeader[24:32], dataSize)

	// 0x20-0x3F: SHA-256 checksum
	copy(fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := writer.Write(fixedHeader); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}

	if _, err := writer.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header JSON: %w", err)
	}

	if padding := fixedHeaderPadding(headerSize); padding > 0 {
		if _, err := writer.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := writer.Write(dataBuf); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}

	return nil
}
