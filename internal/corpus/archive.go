package corpus

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/strophic/responsion/core/errors"
)

// Archive reads compiled plays out of a tar.gz or tar.xz corpus archive.
// Entries may sit under a leading directory; only their base names matter.
type Archive struct {
	Path string
}

func (a *Archive) Available() ([]string, error) {
	byFile := make(map[string]string, len(Infixes))
	for _, inf := range Infixes {
		byFile[CompiledFile(inf)] = inf
	}

	var found []string
	err := a.iterate(func(name string, _ io.Reader) (bool, error) {
		if inf, ok := byFile[path.Base(name)]; ok {
			found = append(found, inf)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return Ordered(found), nil
}

func (a *Archive) ReadCompiled(infix string) ([]byte, error) {
	want := CompiledFile(infix)
	var data []byte
	err := a.iterate(func(name string, r io.Reader) (bool, error) {
		if path.Base(name) != want {
			return false, nil
		}
		var err error
		data, err = io.ReadAll(r)
		return true, err
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.NewNotFound("play", infix)
	}
	return data, nil
}

// iterate walks the archive's regular files. The visitor returns true to
// stop early.
func (a *Archive) iterate(visit func(name string, r io.Reader) (bool, error)) error {
	f, err := os.Open(a.Path)
	if err != nil {
		return errors.NewIO("open", a.Path, err)
	}
	defer f.Close()

	var reader io.Reader
	switch {
	case strings.HasSuffix(a.Path, ".tar.xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			return &errors.ParseError{Format: "xz", Path: a.Path, Message: err.Error(), Err: err}
		}
		reader = xzr
	case strings.HasSuffix(a.Path, ".tar.gz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			return &errors.ParseError{Format: "gzip", Path: a.Path, Message: err.Error(), Err: err}
		}
		defer gzr.Close()
		reader = gzr
	default:
		return errors.NewUnsupported("archive format", a.Path)
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &errors.ParseError{Format: "tar", Path: a.Path, Message: err.Error(), Err: err}
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		stop, err := visit(hdr.Name, tr)
		if err != nil || stop {
			return err
		}
	}
}
