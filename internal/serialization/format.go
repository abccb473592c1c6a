package serialization

import (
	"crypto/sha256"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Format constants.
const (
	MagicBytes      = "MLPN"
	FormatVersion   = 1    // v1: fixed header with SHA-256 checksum
	HeaderAlignment = 64   // Align tensor data to 64 bytes
	FixedHeaderSize = 64   // Fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size (32 bytes)
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header
	ElementSize     = 8    // float64, little endian
)

// Flags for the .mlp format.
const (
	FlagHasMetadata uint32 = 1 << 2 // bit 2: custom metadata included
)

// Header represents the JSON header in a .mlp file.
type Header struct {
	FormatVersion int               `json:"format_version"` // Version of the .mlp format
	ModelType     string            `json:"model_type"`     // Type of model (e.g., "Network")
	Activation    string            `json:"activation"`     // Activation shared by all layers
	Sizes         []int             `json:"sizes"`          // Layer size sequence
	RunID         string            `json:"run_id"`         // Unique id stamped on every write
	CreatedAt     time.Time         `json:"created_at"`     // When the file was created
	Tensors       []TensorMeta      `json:"tensors"`        // Tensor metadata, in data order
	Metadata      map[string]string `json:"metadata"`       // Custom metadata
}

// TensorMeta describes a matrix in the .mlp file.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "layer.0.weight")
	Rows   int    `json:"rows"`   // Row count
	Cols   int    `json:"cols"`   // Column count
	Offset int64  `json:"offset"` // Offset in the data section
	Size   int64  `json:"size"`   // Size in bytes (rows*cols*8)
}

// Tensor is a named matrix to be written or that was read.
type Tensor struct {
	Name  string
	Value *mat.Dense
}

// fixedHeaderPadding returns the padding between the JSON header and the
// data section.
func fixedHeaderPadding(headerSize uint64) int64 {
	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	currentPos := int64(FixedHeaderSize) + int64(headerSize)
	return (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
}

// ComputeChecksum computes the SHA-256 checksum of a data section.
func ComputeChecksum(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// ValidateChecksum returns ErrChecksumMismatch unless computed equals stored.
func ValidateChecksum(computed, stored [32]byte) error {
	if computed != stored {
		return ErrChecksumMismatch
	}
	return nil
}
