package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MNISTClasses is the number of digit classes.
const MNISTClasses = 10

// MNIST is a Source over parsed IDX labels and images.
//
// Features are raw pixel values in [0, 255] unless Normalize is set, in
// which case they are scaled to [0, 1].
type MNIST struct {
	labels    []uint8
	images    *Images
	Normalize bool
}

// NewMNIST pairs parsed labels with parsed images.
func NewMNIST(labels []uint8, images *Images) (*MNIST, error) {
	if len(labels) != images.Len() {
		return nil, fmt.Errorf("%w: %d labels, %d images", ErrCountMismatch, len(labels), images.Len())
	}
	return &MNIST{labels: labels, images: images}, nil
}

// LoadMNIST loads the training set (train-*) or the test set (t10k-*) from
// dir. Each file may be gzip-compressed, with or without a .gz suffix.
func LoadMNIST(dir string, train bool) (*MNIST, error) {
	set := "t10k"
	if train {
		set = "train"
	}

	labelsPath, err := findFile(dir, set+"-labels-idx1-ubyte")
	if err != nil {
		return nil, err
	}
	imagesPath, err := findFile(dir, set+"-images-idx3-ubyte")
	if err != nil {
		return nil, err
	}

	rawLabels, err := ReadFile(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	labels, err := ParseLabels(rawLabels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", labelsPath, err)
	}

	rawImages, err := ReadFile(imagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read images: %w", err)
	}
	images, err := ParseImages(rawImages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", imagesPath, err)
	}

	return NewMNIST(labels, images)
}

// findFile returns dir/name.gz if present, else dir/name.
func findFile(dir, name string) (string, error) {
	base := filepath.Join(dir, name)
	for _, path := range []string{base + ".gz", base} {
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%s[.gz]: %w", base, fs.ErrNotExist)
}

// Len returns the number of examples.
func (m *MNIST) Len() int {
	return len(m.labels)
}

// Example returns image i with its label.
func (m *MNIST) Example(i int) (Example, error) {
	features, err := m.images.Flat(i)
	if err != nil {
		return Example{}, err
	}
	if m.Normalize {
		for j := range features {
			features[j] /= 255
		}
	}
	return Example{Class: int(m.labels[i]), Features: features}, nil
}

// InputSize returns the feature vector width, rows*cols.
func (m *MNIST) InputSize() int {
	r, c := m.images.Size()
	return r * c
}

// Images returns the underlying images.
func (m *MNIST) Images() *Images {
	return m.images
}
