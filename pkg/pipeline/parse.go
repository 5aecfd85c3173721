package pipeline

import (
	"io"
	"os"

	"github.com/matzehuels/celldraw/pkg/diagram"
	"github.com/matzehuels/celldraw/pkg/errors"
)

// MaxInputSize bounds a diagram file.
const MaxInputSize = 8 << 20

// ReadInput reads a diagram file, or stdin when path is "-".
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return readLimited(stdin)
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "diagram file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return readLimited(f)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read diagram")
	}
	if len(data) > MaxInputSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "diagram larger than %d bytes", MaxInputSize)
	}
	return data, nil
}

// Parse decodes and validates a diagram.
func Parse(data []byte) (*diagram.Spec, error) {
	return diagram.DecodeBytes(data)
}
