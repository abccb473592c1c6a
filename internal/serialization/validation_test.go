package serialization

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// layerMeta describes a rows×cols float64 matrix at offset.
func layerMeta(name string, rows, cols int, offset int64) TensorMeta {
	return TensorMeta{Name: name, Rows: rows, Cols: cols, Offset: offset, Size: int64(rows*cols) * ElementSize}
}

func TestValidateTensorOffsets(t *testing.T) {
	tests := []struct {
		name     string
		tensors  []TensorMeta
		dataSize int64
		wantType string // empty: valid
	}{
		{
			name: "adjacent",
			tensors: []TensorMeta{
				layerMeta("layer.0.weight", 2, 3, 0),
				layerMeta("layer.0.bias", 1, 3, 48),
			},
			dataSize: 72,
		},
		{
			name: "out of order but disjoint",
			tensors: []TensorMeta{
				layerMeta("layer.0.bias", 1, 3, 48),
				layerMeta("layer.0.weight", 2, 3, 0),
			},
			dataSize: 72,
		},
		{
			name: "overlap by one element",
			tensors: []TensorMeta{
				layerMeta("layer.0.weight", 2, 3, 0),
				layerMeta("layer.0.bias", 1, 3, 40),
			},
			dataSize: 72,
			wantType: "offset_overlap",
		},
		{
			name:     "past the data section",
			tensors:  []TensorMeta{layerMeta("layer.0.weight", 2, 3, 32)},
			dataSize: 72,
			wantType: "out_of_bounds",
		},
		{
			name:     "negative offset",
			tensors:  []TensorMeta{{Name: "layer.0.bias", Offset: -8, Size: 8}},
			dataSize: 72,
			wantType: "negative_offset",
		},
		{
			name:     "negative size",
			tensors:  []TensorMeta{{Name: "layer.0.bias", Offset: 0, Size: -8}},
			dataSize: 72,
			wantType: "negative_offset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensorOffsets(tt.tensors, tt.dataSize)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.wantType, verr.Type)
		})
	}
}

func TestValidateTensorOffsetsTooMany(t *testing.T) {
	tensors := make([]TensorMeta, MaxTensorCount+1)
	for i := range tensors {
		tensors[i] = layerMeta("layer.0.bias", 1, 1, int64(i)*ElementSize)
	}

	err := ValidateTensorOffsets(tensors, int64(len(tensors))*ElementSize)
	assert.ErrorIs(t, err, ErrTooManyTensors)
}

func TestValidateTensorName(t *testing.T) {
	for _, name := range []string{"layer.0.weight", "layer.12.bias", "output:logits", "with_numbers_123"} {
		assert.NoError(t, ValidateTensorName(name), name)
	}

	bad := []string{
		"",
		"../../../etc/passwd",
		"..\\..\\windows",
		"layer/0/weight",
		"layer\\0\\weight",
		"layer.0\x00.weight",
		strings.Repeat("w", MaxTensorNameLen+1),
	}
	for _, name := range bad {
		err := ValidateTensorName(name)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "name %q: got %v", name, err)
		assert.Contains(t, []string{"invalid_name", "name_too_long"}, verr.Type)
	}
}

func TestValidateTensorShape(t *testing.T) {
	assert.NoError(t, ValidateTensorShape(layerMeta("layer.0.weight", 784, 15, 0)))

	for _, meta := range []TensorMeta{
		{Name: "zero rows", Rows: 0, Cols: 3, Size: 0},
		{Name: "negative cols", Rows: 1, Cols: -1, Size: -8},
		{Name: "short", Rows: 2, Cols: 3, Size: 40},
		{Name: "long", Rows: 2, Cols: 3, Size: 56},
		{Name: "rows wrap to zero bytes", Rows: 1 << 61, Cols: 1, Size: 0},
		{Name: "product wraps", Rows: 1 << 31, Cols: 1 << 31, Size: 0},
		{Name: "just past the limit", Rows: MaxDataSize/ElementSize + 1, Cols: 1, Size: (MaxDataSize/ElementSize + 1) * ElementSize},
	} {
		err := ValidateTensorShape(meta)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), meta.Name)
		assert.Equal(t, "invalid_shape", verr.Type)
	}
}

func TestValidateHeaderLevels(t *testing.T) {
	overlapping := Header{Tensors: []TensorMeta{
		layerMeta("layer.0.weight", 2, 2, 0),
		layerMeta("layer.0.bias", 1, 2, 16),
	}}

	assert.NoError(t, ValidateHeader(&overlapping, 48, ValidationNormal))
	assert.ErrorIs(t, ValidateHeader(&overlapping, 48, ValidationStrict), ErrOffsetOverlap)

	hostile := Header{Tensors: []TensorMeta{{Name: "../../../etc/passwd", Offset: -1000, Size: -1000}}}
	assert.NoError(t, ValidateHeader(&hostile, 100, ValidationNone))
	assert.Error(t, ValidateHeader(&hostile, 100, ValidationNormal))

	misshapen := Header{Tensors: []TensorMeta{{Name: "layer.0.weight", Rows: 2, Cols: 3, Size: 40}}}
	assert.Error(t, ValidateHeader(&misshapen, 48, ValidationNormal))
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t,
		`out_of_bounds: tensor "layer.1.weight": offset 100 + size 200 > data_size 250`,
		(&ValidationError{Type: "out_of_bounds", Tensor: "layer.1.weight", Details: "offset 100 + size 200 > data_size 250"}).Error())
	assert.Equal(t,
		`offset_overlap: tensors "layer.0.weight" and "layer.0.bias": regions [0-48] and [40-64] overlap`,
		(&ValidationError{Type: "offset_overlap", Tensor: "layer.0.weight", Tensor2: "layer.0.bias",
			Details: "regions [0-48] and [40-64] overlap"}).Error())
	assert.Equal(t,
		"too_many_tensors: got 100001, max 100000",
		(&ValidationError{Type: "too_many_tensors", Details: "got 100001, max 100000"}).Error())
}

func FuzzValidateTensorName(f *testing.F) {
	f.Add("layer.0.weight")
	f.Add("../malicious")
	f.Add("path/to/tensor")
	f.Add("\x00null_byte")

	f.Fuzz(func(_ *testing.T, name string) {
		_ = ValidateTensorName(name)
	})
}

func FuzzValidateTensorOffsets(f *testing.F) {
	f.Add(int64(0), int64(48), int64(72))
	f.Add(int64(-8), int64(8), int64(1000))
	f.Add(int64(8), int64(-8), int64(1000))

	f.Fuzz(func(_ *testing.T, offset, size, dataSize int64) {
		_ = ValidateTensorOffsets([]TensorMeta{{Name: "layer.0.weight", Offset: offset, Size: size}}, dataSize)
	})
}
