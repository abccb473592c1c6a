package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Reader holds a fully parsed .mlp file.
type Reader struct {
	header   Header
	flags    uint32
	data     []byte
	checksum [32]byte
}

// ReaderOptions configures the behavior of Reader.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// NewReader opens and parses a .mlp file with default options (strict validation).
func NewReader(path string) (*Reader, error) {
	return NewReaderWithOptions(path, ReaderOptions{
		ValidationLevel: ValidationStrict,
	})
}

// NewReaderWithOptions opens and parses a .mlp file with custom options.
func NewReaderWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadFrom(bufio.NewReader(file), opts)
}

// ReadFrom parses a .mlp stream.
//
//nolint:gocyclo,cyclop // Binary layout is read field by field
func ReadFrom(reader io.Reader, opts ReaderOptions) (*Reader, error) {
	fixedHeader := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(reader, fixedHeader); err != nil {
		return nil, fmt.Errorf("failed to read fixed header: %w", err)
	}

	// 0x00-0x03: magic
	if string(fixedHeader[0:4]) != MagicBytes {
		return nil, fmt.Errorf("%w: got %q, expected %q", ErrInvalidMagic, string(fixedHeader[0:4]), MagicBytes)
	}

	// 0x04-0x07: version
	version := binary.LittleEndian.Uint32(fixedHeader[4:8])
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	r := &Reader{}

	// 0x08-0x0B: flags
	r.flags = binary.LittleEndian.Uint32(fixedHeader[8:12])

	// 0x10-0x17: header size
	headerSize := binary.LittleEndian.Uint64(fixedHeader[16:24])
	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}

	// 0x18-0x1F: data size
	dataSize := binary.LittleEndian.Uint64(fixedHeader[24:32])
	if dataSize > MaxDataSize {
		return nil, ErrDataTooLarge
	}

	// 0x20-0x3F: SHA-256 checksum
	copy(r.checksum[:], fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize])

	headerBytes, err := readSection(reader, headerSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read header JSON: %w", err)
	}
	if err := json.Unmarshal(headerBytes, &r.header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	if padding := fixedHeaderPadding(headerSize); padding > 0 {
		if _, err := io.CopyN(io.Discard, reader, padding); err != nil {
			return nil, fmt.Errorf("failed to read padding: %w", err)
		}
	}

	r.data, err = readSection(reader, dataSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(ComputeChecksum(r.data), r.checksum); err != nil {
			return nil, err
		}
	}

	//nolint:gosec // G115: dataSize is bounded by MaxDataSize
	if err := ValidateHeader(&r.header, int64(dataSize), opts.ValidationLevel); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return r, nil
}

// readSection reads exactly n bytes. The buffer grows with the bytes
// actually present, so a truncated stream never allocates the declared size.
func readSection(reader io.Reader, n uint64) ([]byte, error) {
	//nolint:gosec // G115: n is bounded by MaxHeaderSize or MaxDataSize
	buf, err := io.ReadAll(io.LimitReader(reader, int64(n)))
	if err != nil {
		return nil, err
	}
	if uint64(len(buf)) != n {
		return nil, fmt.Errorf("%w: got %d of %d bytes", io.ErrUnexpectedEOF, len(buf), n)
	}
	return buf, nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.header
}

// Metadata returns the metadata map from the header.
func (r *Reader) Metadata() map[string]string {
	return r.header.Metadata
}

// TensorNames returns the names of all tensors in file order.
func (r *Reader) TensorNames() []string {
	names := make([]string, len(r.header.Tensors))
	for i, meta := range r.header.Tensors {
		names[i] = meta.Name
	}
	return names
}

// TensorInfo returns information about a specific tensor.
func (r *Reader) TensorInfo(name string) (*TensorMeta, error) {
	for _, meta := range r.header.Tensors {
		if meta.Name == name {
			return &meta, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTensorNotFound, name)
}

// Tensor decodes a single tensor.
func (r *Reader) Tensor(name string) (*mat.Dense, error) {
	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	if err := ValidateTensorShape(*meta); err != nil {
		return nil, err
	}
	if meta.Offset < 0 || meta.Offset+meta.Size > int64(len(r.data)) {
		return nil, &ValidationError{
			Type:    "out_of_bounds",
			Tensor:  meta.Name,
			Details: fmt.Sprintf("offset %d + size %d > data_size %d", meta.Offset, meta.Size, len(r.data)),
		}
	}

	raw := r.data[meta.Offset : meta.Offset+meta.Size]
	values := make([]float64, meta.Rows*meta.Cols)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*ElementSize:]))
	}
	return mat.NewDense(meta.Rows, meta.Cols, values), nil
}

// Tensors decodes every tensor in file order.
func (r *Reader) Tensors() ([]Tensor, error) {
	tensors := make([]Tensor, 0, len(r.header.Tensors))
	for _, meta := range r.header.Tensors {
		value, err := r.Tensor(meta.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to load tensor %s: %w", meta.Name, err)
		}
		tensors = append(tensors, Tensor{Name: meta.Name, Value: value})
	}
	return tensors, nil
}
