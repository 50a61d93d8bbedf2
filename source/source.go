// Package source locates the input document, reads its bytes and parses
// them into a document.Value. Local paths are read directly; anything
// go-getter recognizes as remote (http(s), s3, gcs, forced getters) is
// fetched into a temporary directory first.
package source

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"

	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/errors"
	"github.com/teranos/shapegen/logger"
)

// Stdin is the location that reads the document from standard input.
const Stdin = "-"

// Source is a located and read input document.
type Source struct {
	// Location is what the caller asked for (path, URL or "-")
	Location string
	// Name is a display name used in artifact headers, e.g. "default.json"
	Name string
	// Format is the resolved input format, never FormatAuto
	Format document.Format
	Data   []byte
	// Remote is set when Data was fetched through go-getter
	Remote bool
}

// Load locates and reads the document at location. A location that cannot
// be found yields an error satisfying errors.IsSourceNotFound.
func Load(ctx context.Context, location string, format document.Format) (*Source, error) {
	if location == Stdin {
		return Read(os.Stdin, "stdin", format)
	}

	remote, err := IsRemote(location)
	if err != nil {
		return nil, errors.WrapSourceNotFound(err, location)
	}

	var data []byte
	if remote {
		data, err = fetch(ctx, location)
	} else {
		data, err = os.ReadFile(location)
		if err != nil && os.IsNotExist(err) {
			err = errors.WithHint(errors.WrapSourceNotFound(err, location),
				"pass the input path as the first argument or set source.default_path in shapegen.toml")
		} else if err != nil {
			err = errors.Wrapf(err, "failed to read %s", location)
		}
	}
	if err != nil {
		return nil, err
	}

	name := DisplayName(location)
	src := &Source{
		Location: location,
		Name:     name,
		Format:   resolveFormat(format, name),
		Data:     data,
		Remote:   remote,
	}

	logger.Debugw("Source loaded",
		logger.FieldSource, location,
		logger.FieldFormat, src.Format,
		logger.FieldSize, len(data))
	return src, nil
}

// Read builds a Source from a stream, e.g. standard input or an MCP tool
// argument. name is used for format detection and headers.
func Read(r io.Reader, name string, format document.Format) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}
	return &Source{
		Location: name,
		Name:     name,
		Format:   resolveFormat(format, name),
		Data:     data,
	}, nil
}

// Parse parses the source bytes. maxDepth <= 0 selects the default bound.
func (s *Source) Parse(maxDepth int) (document.Value, error) {
	if maxDepth <= 0 {
		maxDepth = document.DefaultMaxDepth
	}
	v, err := document.ParseWithLimit(s.Data, s.Format, maxDepth)
	if err != nil {
		return document.Value{}, errors.Wrapf(err, "failed to parse %s", s.Name)
	}
	return v, nil
}

// RootName derives a root record hint from the display name: the base name
// without its extension ("configs/default.json" → "default").
func (s *Source) RootName() string {
	base := s.Name
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func resolveFormat(format document.Format, name string) document.Format {
	if format != document.FormatAuto {
		return format
	}
	return document.DetectFormat(name)
}

// IsRemote reports whether location needs go-getter. Plain paths, relative
// or absolute, are local.
func IsRemote(location string) (bool, error) {
	if strings.Contains(location, "::") {
		return true, nil
	}
	pwd, err := os.Getwd()
	if err != nil {
		return false, errors.Wrap(err, "failed to get working directory")
	}
	detected, err := getter.Detect(location, pwd, getter.Detectors)
	if err != nil {
		return false, errors.Wrap(err, "invalid source location")
	}
	u, err := url.Parse(detected)
	if err != nil {
		return false, errors.Wrap(err, "failed to parse source location")
	}
	return u.Scheme != "" && u.Scheme != "file", nil
}

// DisplayName is the last path element of a path or URL, without query.
func DisplayName(location string) string {
	if i := strings.Index(location, "::"); i >= 0 {
		location = location[i+2:]
	}
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && u.Path != "" {
		return path.Base(u.Path)
	}
	return filepath.Base(location)
}

// fetch downloads a single remote file through go-getter.
func fetch(ctx context.Context, location string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "shapegen-source-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create download directory")
	}
	defer os.RemoveAll(dir)

	pwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	dst := filepath.Join(dir, "document")
	client := &getter.Client{
		Ctx:  ctx,
		Src:  location,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return nil, errors.WrapSourceNotFound(err, location)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read downloaded %s", location)
	}
	return data, nil
}
