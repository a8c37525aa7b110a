package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/flatdata"
	"github.com/hupe1980/flatdata/internal/hash"
	"github.com/hupe1980/flatdata/storage"
	"github.com/hupe1980/flatdata/storage/s3"
	"github.com/hupe1980/flatdata/storage/tarball"
)

// location is an opened storage location.
type location struct {
	storage *storage.ResourceStorage
	list    func() ([]string, error) // every stored object, nil if unlistable
	close   func() error
}

func openLocation(ctx context.Context, loc string, logger *flatdata.Logger) (*location, error) {
	opts := []storage.Option{storage.WithLogger(logger.Logger)}

	if bucket, prefix, ok := parseS3URL(loc); ok {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		backend := s3.NewBackend(awss3.NewFromConfig(cfg), bucket, prefix, s3.WithLogger(logger.Logger))
		return &location{
			storage: storage.New(backend, opts...),
			close:   func() error { return nil },
		}, nil
	}

	info, err := os.Stat(loc)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		backend := storage.NewFileBackend(loc)
		return &location{
			storage: storage.New(backend, opts...),
			list:    func() ([]string, error) { return walkDir(loc) },
			close:   backend.Close,
		}, nil
	}

	backend, err := tarball.Open(loc)
	if err != nil {
		return nil, err
	}
	return &location{
		storage: storage.New(backend, opts...),
		list:    func() ([]string, error) { return backend.Entries(), nil },
		close:   backend.Close,
	}, nil
}

func parseS3URL(loc string) (bucket, prefix string, ok bool) {
	rest, ok := strings.CutPrefix(loc, "s3://")
	if !ok {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, strings.TrimSuffix(prefix, "/"), bucket != ""
}

func walkDir(root string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	return names, err
}

// resourceNames returns the content resources among stored objects. A
// schema without its resource is reported under the resource name so the
// gap shows up as an error.
func resourceNames(objects []string) []string {
	seen := make(map[string]bool, len(objects))
	for _, o := range objects {
		seen[strings.TrimSuffix(o, storage.SchemaSuffix)] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// report is the inspection result of one resource.
type report struct {
	name   string
	size   int
	sum    uint32
	schema string
	err    error
}

func inspect(ctx context.Context, st *storage.ResourceStorage, name string) report {
	r := report{name: name}
	r.schema, r.err = st.ReadSchema(ctx, name)
	if r.err != nil {
		return r
	}
	data, err := st.Read(ctx, name, r.schema)
	if err != nil {
		r.err = err
		return r
	}
	r.size = len(data)
	r.sum = hash.Fingerprint(r.schema, data)
	return r
}

func (r report) kind() string {
	switch {
	case strings.HasSuffix(r.name, flatdata.SignatureSuffix):
		return "archive"
	case strings.HasPrefix(r.schema, "index("):
		return "index"
	default:
		return "resource"
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

// run inspects the configured location and writes a table to w. It
// returns the number of invalid resources.
func run(ctx context.Context, cfg config, logger *flatdata.Logger, w io.Writer) (int, error) {
	loc, err := openLocation(ctx, cfg.location, logger)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := loc.close(); cerr != nil {
			logger.Warn("closing location failed", "error", cerr)
		}
	}()

	names := cfg.resources
	if len(names) == 0 {
		if loc.list == nil {
			return 0, errors.New("location cannot be listed, name the resources to inspect")
		}
		objects, err := loc.list()
		if err != nil {
			return 0, err
		}
		names = resourceNames(objects)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RESOURCE\tKIND\tSIZE\tCRC32C\tSTATUS\tSCHEMA")

	var invalid int
	var schemas []report
	for _, name := range names {
		r := inspect(ctx, loc.storage, name)
		status, sum := "ok", fmt.Sprintf("%08x", r.sum)
		if r.err != nil {
			sum = "-"
			invalid++
			status = r.err.Error()
			logger.WithResource(name).Debug("resource invalid", "error", r.err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", r.name, r.kind(), r.size, sum, firstLine(status), firstLine(r.schema))
		if cfg.schemas && r.schema != "" {
			schemas = append(schemas, r)
		}
	}
	if err := tw.Flush(); err != nil {
		return invalid, err
	}

	for _, r := range schemas {
		fmt.Fprintf(w, "\n== %s ==\n%s", r.name, r.schema)
		if !strings.HasSuffix(r.schema, "\n") {
			fmt.Fprintln(w)
		}
	}
	return invalid, nil
}
