package server

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
)

// HashFS serves static assets and knows a content hash for each, so pages
// can link to "/static/app.js?v=<hash>" and let browsers cache forever.
type HashFS struct {
	serv   http.Handler
	hashes map[string]string
}

func hashFile(fsys fs.FS, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

func NewHashFS(fsys fs.FS) (*HashFS, error) {
	h := &HashFS{
		serv:   http.FileServer(http.FS(fsys)),
		hashes: make(map[string]string),
	}
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		sum, err := hashFile(fsys, path)
		if err != nil {
			return err
		}
		slog.Debug("computed static asset hash", "path", path, "hash", sum)
		h.hashes[path] = sum
		return nil
	})
	return h, err
}

func (h *HashFS) FormatWithHash(path string) string {
	if sum, ok := h.hashes[path]; ok {
		return path + "?v=" + sum
	}
	return path
}

func (h *HashFS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sum, ok := h.hashes[r.URL.Path]
	if ok && r.URL.Query().Get("v") == sum {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	}
	if ok {
		w.Header().Set("ETag", `"`+sum+`"`)
	}
	h.serv.ServeHTTP(w, r)
}
