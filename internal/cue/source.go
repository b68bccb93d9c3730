package cue

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
)

// Source opens the mp3 asset for a note.
type Source interface {
	Open(ctx context.Context, note string) (io.ReadCloser, error)
}

// DirSource reads assets from a file system, one FileName per note.
type DirSource struct {
	FS fs.FS
}

func (s DirSource) Open(_ context.Context, note string) (io.ReadCloser, error) {
	return s.FS.Open(FileName(note))
}

// HTTPSource fetches assets from Base + "/" + AssetName(note).
type HTTPSource struct {
	Base   string
	Client *http.Client
}

func (s HTTPSource) Open(ctx context.Context, note string) (io.ReadCloser, error) {
	u := strings.TrimRight(s.Base, "/") + "/" + AssetName(note)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c := s.Client
	if c == nil {
		c = http.DefaultClient
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("cue: GET %s: %s", u, resp.Status)
	}
	return resp.Body, nil
}

// SourceFor picks an HTTPSource for http(s) locations and a DirSource
// otherwise. A nil fsys means os.DirFS.
func SourceFor(location string, fsys func(string) fs.FS) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return HTTPSource{Base: location}
	}
	if fsys == nil {
		fsys = os.DirFS
	}
	return DirSource{FS: fsys(location)}
}
