package source

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/treeflow/pkg/errors"
)

// DefaultURL is the sample decision tree used when no input is given.
const DefaultURL = "https://" + DefaultHost + "/g6/decision-tree.json"

// DefaultHost serves DefaultURL.
const DefaultHost = "assets.antv.antgroup.com"

// maxBodySize bounds how much tree JSON a source will read.
var maxBodySize = 32 << 20

// Source fetches raw tree JSON.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// Parse returns an [HTTP] source for http(s) URLs, a stdin [File] for "-",
// and a [File] for anything else.
func Parse(arg string) (Source, error) {
	switch {
	case arg == "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "no tree source given")
	case arg == "-":
		return &File{Path: "-"}, nil
	case strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://"):
		if err := errors.ValidateURL(arg); err != nil {
			return nil, err
		}
		return &HTTP{URL: arg}, nil
	default:
		if err := errors.ValidatePath(arg); err != nil {
			return nil, err
		}
		return &File{Path: arg}, nil
	}
}

// File reads a tree from a local path. The path "-" reads Stdin, or
// os.Stdin when Stdin is nil.
type File struct {
	Path  string
	Stdin io.Reader
}

func (f *File) String() string {
	if f.Path == "-" {
		return "stdin"
	}
	return "file:" + f.Path
}

// Fetch reads the file.
func (f *File) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Path == "-" {
		in := f.Stdin
		if in == nil {
			in = os.Stdin
		}
		return readAll(in)
	}

	fh, err := os.Open(f.Path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "tree file %s not found", f.Path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", f.Path)
	}
	defer fh.Close()
	return readAll(fh)
}

// Bytes serves fixed data.
type Bytes struct {
	Data []byte
	Name string
}

func (b *Bytes) String() string {
	if b.Name != "" {
		return b.Name
	}
	return "bytes"
}

// Fetch returns a copy of the data.
func (b *Bytes) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(b.Data)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty tree data")
	}
	return bytes.Clone(b.Data), nil
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, int64(maxBodySize)+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxBodySize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree data exceeds %d bytes", maxBodySize)
	}
	return data, nil
}
