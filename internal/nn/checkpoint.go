package nn

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/born-ml/mlp/internal/serialization"
	"gonum.org/v1/gonum/mat"
)

// ModelType is the model type recorded in persisted networks.
const ModelType = "Network"

// tensors flattens the layer stack into named matrices
// (layer.<i>.weight, layer.<i>.bias).
func (n *Network) tensors() []serialization.Tensor {
	out := make([]serialization.Tensor, 0, 2*len(n.layers))
	for i, l := range n.layers {
		out = append(out,
			serialization.Tensor{Name: fmt.Sprintf("layer.%d.weight", i), Value: l.Weights},
			serialization.Tensor{Name: fmt.Sprintf("layer.%d.bias", i), Value: l.Bias},
		)
	}
	return out
}

func (n *Network) header(metadata map[string]string) serialization.Header {
	return serialization.Header{
		ModelType:  ModelType,
		Activation: n.activation.Name(),
		Sizes:      n.Sizes(),
		Metadata:   metadata,
	}
}

// Save writes the network to path in .mlp format.
//
// Failing to create or write the file is returned to the caller; there is
// no fallback.
func Save(n *Network, path string, metadata map[string]string) (err error) {
	writer, err := serialization.NewWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	if err := writer.Write(n.tensors(), n.header(metadata)); err != nil {
		return fmt.Errorf("failed to write network: %w", err)
	}
	return nil
}

// WriteTo writes the network to w in .mlp format.
func WriteTo(n *Network, w io.Writer, metadata map[string]string) error {
	return serialization.WriteTo(w, n.tensors(), n.header(metadata))
}

// Load reads a network saved with Save.
//
// Missing files, unreadable files and structurally invalid encodings are
// all returned as errors; callers decide whether to fall back to NewRandom.
func Load(path string) (*Network, serialization.Header, error) {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return nil, serialization.Header{}, err
	}
	net, err := fromReader(reader)
	if err != nil {
		return nil, serialization.Header{}, fmt.Errorf("%s: %w", path, err)
	}
	return net, reader.Header(), nil
}

// ReadFrom reads a network from r.
func ReadFrom(r io.Reader) (*Network, serialization.Header, error) {
	reader, err := serialization.ReadFrom(r, serialization.ReaderOptions{})
	if err != nil {
		return nil, serialization.Header{}, err
	}
	net, err := fromReader(reader)
	if err != nil {
		return nil, serialization.Header{}, err
	}
	return net, reader.Header(), nil
}

func fromReader(reader *serialization.Reader) (*Network, error) {
	header := reader.Header()
	if header.ModelType != ModelType {
		return nil, fmt.Errorf("unexpected model type %q", header.ModelType)
	}
	activation, ok := activationByName(header.Activation)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivation, header.Activation)
	}
	if len(header.Tensors) == 0 || len(header.Tensors)%2 != 0 {
		return nil, fmt.Errorf("%w: %d tensors", ErrEmptyNetwork, len(header.Tensors))
	}

	count := len(header.Tensors) / 2
	layers := make([]*Layer, 0, count)
	for i := 0; i < count; i++ {
		weights, err := reader.Tensor(fmt.Sprintf("layer.%d.weight", i))
		if err != nil {
			return nil, err
		}
		bias, err := reader.Tensor(fmt.Sprintf("layer.%d.bias", i))
		if err != nil {
			return nil, err
		}
		layer, err := NewLayer(weights, bias)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers = append(layers, layer)
	}

	net, err := FromLayers(layers...)
	if err != nil {
		return nil, err
	}
	net.activation = activation
	return net, nil
}

// LoadResult describes where the network returned by LoadOrRandom came from.
type LoadResult struct {
	Loaded bool  // The file at path was used
	Reason error // Why the file was not used; nil when Loaded
}

// LoadOrRandom loads the network at path, falling back to NewRandom(sizes,
// scale, rng) when the file cannot be loaded or its input/output widths
// differ from sizes.
//
// The returned error is non-nil only when the fallback itself fails.
func LoadOrRandom(path string, sizes []int, scale float64, rng *rand.Rand) (*Network, LoadResult, error) {
	net, _, loadErr := Load(path)
	if loadErr == nil && len(sizes) >= 2 &&
		(net.InputSize() != sizes[0] || net.OutputSize() != sizes[len(sizes)-1]) {
		loadErr = fmt.Errorf("%w: stored network is %v, want %d inputs and %d outputs",
			ErrDimensionMismatch, net.Sizes(), sizes[0], sizes[len(sizes)-1])
	}
	if loadErr == nil {
		return net, LoadResult{Loaded: true}, nil
	}

	net, err := NewRandom(sizes, scale, rng)
	if err != nil {
		return nil, LoadResult{Reason: loadErr}, err
	}
	return net, LoadResult{Reason: loadErr}, nil
}

// Equal reports whether two networks have identical shapes and parameters
// within tol.
func Equal(a, b *Network, tol float64) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.layers {
		if !mat.EqualApprox(a.layers[i].Weights, b.layers[i].Weights, tol) ||
			!mat.EqualApprox(a.layers[i].Bias, b.layers[i].Bias, tol) {
			return false
		}
	}
	return true
}
