package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	pkgsource "github.com/goliatone/go-formclient/pkg/source"
)

// Loader reads route files and OpenAPI documents from disk, an fs.FS, or
// HTTP, rejecting anything larger than the configured limit.
type Loader struct {
	fsys     fs.FS
	client   *http.Client
	header   http.Header
	maxBytes int64
}

var _ pkgsource.Loader = (*Loader)(nil)

// New builds a Loader from resolved options.
func New(opts pkgsource.Options) *Loader {
	l := &Loader{
		fsys:     opts.FileSystem,
		header:   opts.Header.Clone(),
		maxBytes: opts.MaxBytes,
	}
	if l.maxBytes <= 0 {
		l.maxBytes = pkgsource.DefaultMaxBytes
	}
	switch {
	case opts.HTTPClient != nil:
		client := *opts.HTTPClient
		if client.Timeout == 0 {
			client.Timeout = opts.Timeout
		}
		l.client = &client
	case opts.Remote:
		l.client = &http.Client{Timeout: opts.Timeout}
	}
	return l
}

// Load returns the document behind src.
func (l *Loader) Load(ctx context.Context, src pkgsource.Source) ([]byte, error) {
	if src == nil {
		return nil, fmt.Errorf("source: load: nil source")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case pkgsource.KindFile:
		data, err = l.readFile(src.Location())
	case pkgsource.KindFS:
		data, err = l.readFS(src.Location())
	case pkgsource.KindURL:
		data, err = l.fetch(ctx, src.Location())
	default:
		err = fmt.Errorf("%w: %q", pkgsource.ErrUnsupportedKind, src.Kind())
	}
	if err != nil {
		return nil, fmt.Errorf("source: load %s %s: %w", src.Kind(), src.Location(), err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("source: load %s %s: empty document", src.Kind(), src.Location())
	}
	return data, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.readLimited(f)
}

func (l *Loader) readFS(name string) ([]byte, error) {
	if l.fsys == nil {
		return nil, pkgsource.ErrNoFileSystem
	}
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.readLimited(f)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.client == nil {
		return nil, pkgsource.ErrRemoteDisabled
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for key, values := range l.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return l.readLimited(resp.Body)
}

// readLimited reads at most maxBytes, failing rather than truncating.
func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", pkgsource.ErrTooLarge, l.maxBytes)
	}
	return data, nil
}
