package pages

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go-page-cache/internal/config"
	"go-page-cache/internal/utils"
)

// ErrPageNotFound is returned when no template exists for a request name
var ErrPageNotFound = errors.New("page not found")

// PageData is passed to every template
type PageData struct {
	Name  string
	Query url.Values
	Data  map[string]interface{}
}

// Handler renders templates/<name>.html with data from data/<name>.yaml
type Handler struct {
	templatesDir string
	dataDir      string
	logger       *zap.Logger
}

// NewHandler creates a page handler over the configured directories
func NewHandler(cfg *config.PagesConfig, logger *zap.Logger) *Handler {
	return &Handler{
		templatesDir: cfg.TemplatesDir,
		dataDir:      cfg.DataDir,
		logger:       logger,
	}
}

// ServeHTTP renders the page named by the request path
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := utils.RequestNameFromPath(r.URL.Path)

	body, err := h.Render(name, r.URL.Query())
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Render executes the named template. Templates and data are read on every
// call so edits are picked up without a restart.
func (h *Handler) Render(name string, query url.Values) ([]byte, error) {
	if !validName(name) {
		return nil, ErrPageNotFound
	}

	templatePath := filepath.Join(h.templatesDir, name+".html")
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to parse template %s: %w", templatePath, err)
	}

	data, err := h.loadData(name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, PageData{Name: name, Query: query, Data: data}); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", templatePath, err)
	}
	return buf.Bytes(), nil
}

func (h *Handler) loadData(name string) (map[string]interface{}, error) {
	dataPath := filepath.Join(h.dataDir, name+".yaml")

	file, err := os.Open(dataPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("failed to open page data %s: %w", dataPath, err)
	}
	defer func() { _ = file.Close() }()

	data := map[string]interface{}{}
	if err := yaml.NewDecoder(file).Decode(&data); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode page data %s: %w", dataPath, err)
	}
	return data, nil
}

func validName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") {
		return false
	}
	for _, segment := range strings.Split(name, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return false
		}
	}
	return true
}
