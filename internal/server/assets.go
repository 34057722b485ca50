package server

import (
	"bytes"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"go.uber.org/zap"
)

type asset struct {
	data []byte
	mod  time.Time
}

// assets serves the frontend from memory. HTML, CSS and JavaScript are
// minified once when loaded.
type assets struct {
	files map[string]asset
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)
	return m
}

func loadAssets(fsys fs.FS, log *zap.Logger) (*assets, error) {
	m := newMinifier()
	a := &assets{files: make(map[string]asset)}
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		var mod time.Time
		if info, err := d.Info(); err == nil {
			mod = info.ModTime()
		}

		if mediatype := minifiable(name); mediatype != "" {
			out, merr := m.Bytes(mediatype, data)
			if merr != nil {
				log.Warn("Serving unminified asset", zap.String("file", name), zap.Error(merr))
			} else {
				log.Debug("Minified asset", zap.String("file", name),
					zap.Int("before", len(data)), zap.Int("after", len(out)))
				data = out
			}
		}
		a.files["/"+name] = asset{data: data, mod: mod}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func minifiable(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js", ".mjs":
		return "application/javascript"
	}
	return ""
}

func (a *assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(name, "/") {
		name += "index.html"
	}
	f, ok := a.files[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	http.ServeContent(w, r, name, f.mod, bytes.NewReader(f.data))
}
