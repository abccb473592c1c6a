package dataset

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/mat"
)

// IDX magic numbers (big-endian).
const (
	LabelsMagic = 0x00000801
	ImagesMagic = 0x00000803
)

const (
	labelsHeaderSize = 8
	imagesHeaderSize = 16
)

// ReadFile returns the contents of path, gunzipped when the file starts
// with the gzip magic bytes.
func ReadFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return readMaybeGzip(file)
}

func readMaybeGzip(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	}
	return io.ReadAll(br)
}

// ParseLabels validates an IDX label file and returns its payload, one
// class byte per example.
func ParseLabels(data []byte) ([]uint8, error) {
	if len(data) < labelsHeaderSize {
		return nil, ErrShortHeader
	}
	magic := binary.BigEndian.Uint32(data[0:4])
	count := binary.BigEndian.Uint32(data[4:8])
	if magic != LabelsMagic {
		return nil, fmt.Errorf("%w: 0x%08x", ErrInvalidMagic, magic)
	}
	if uint64(count) != uint64(len(data)-labelsHeaderSize) {
		return nil, fmt.Errorf("%w: header says %d labels, payload has %d",
			ErrInvalidSizes, count, len(data)-labelsHeaderSize)
	}
	return data[labelsHeaderSize:], nil
}

// Images is a parsed IDX image file: count images of rows×cols bytes,
// stored row-major.
type Images struct {
	rows, cols int
	count      int
	pixels     []uint8
}

// ParseImages validates an IDX image file.
//
// The returned Images shares data's backing array.
func ParseImages(data []byte) (*Images, error) {
	if len(data) < imagesHeaderSize {
		return nil, ErrShortHeader
	}
	magic := binary.BigEndian.Uint32(data[0:4])
	count := binary.BigEndian.Uint32(data[4:8])
	rows := binary.BigEndian.Uint32(data[8:12])
	cols := binary.BigEndian.Uint32(data[12:16])
	if magic != ImagesMagic {
		return nil, fmt.Errorf("%w: 0x%08x", ErrInvalidMagic, magic)
	}
	if uint64(count)*uint64(rows)*uint64(cols) != uint64(len(data)-imagesHeaderSize) {
		return nil, fmt.Errorf("%w: header says %d images of %dx%d, payload has %d bytes",
			ErrInvalidSizes, count, rows, cols, len(data)-imagesHeaderSize)
	}
	return &Images{
		rows:   int(rows),
		cols:   int(cols),
		count:  int(count),
		pixels: data[imagesHeaderSize:],
	}, nil
}

// Size returns the image dimensions.
func (im *Images) Size() (rows, cols int) {
	return im.rows, im.cols
}

// Len returns the number of images.
func (im *Images) Len() int {
	return im.count
}

func (im *Images) raw(n int) ([]uint8, error) {
	if n < 0 || n >= im.count {
		return nil, fmt.Errorf("%w: image %d of %d", ErrOutOfRange, n, im.count)
	}
	size := im.rows * im.cols
	return im.pixels[n*size : (n+1)*size], nil
}

// Flat returns image n as a feature vector of rows*cols raw pixel values.
func (im *Images) Flat(n int) ([]float64, error) {
	raw, err := im.raw(n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, p := range raw {
		out[i] = float64(p)
	}
	return out, nil
}

// At returns image n as a rows×cols matrix.
func (im *Images) At(n int) (*mat.Dense, error) {
	flat, err := im.Flat(n)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(im.rows, im.cols, flat), nil
}
