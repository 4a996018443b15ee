package catalog

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/errors"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Seed files are loaded in this order so the gallery groups predictably.
var builtinFiles = []string{"cards.yaml", "dashboards.yaml", "remote-dom.yaml", "chatgpt-sdk.yaml"}

// fileTemplate is the on-disk shape of one template.
type fileTemplate struct {
	ID          string                 `yaml:"id"`
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Category    string                 `yaml:"category"`
	Content     map[string]interface{} `yaml:"content"`
	Preview     string                 `yaml:"preview"`
}

type fileCatalog struct {
	Templates []fileTemplate `yaml:"templates"`
}

var (
	builtinOnce      sync.Once
	builtinTemplates []Template
)

// Builtin returns a new catalog holding the embedded seed templates. Each
// call returns an independent catalog.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		for _, name := range builtinFiles {
			data, err := fs.ReadFile(builtinFS, path.Join("builtin", name))
			if err != nil {
				panic(fmt.Sprintf("catalog: missing seed file %s: %v", name, err))
			}
			templates, err := Decode(bytes.NewReader(data), name)
			if err != nil {
				panic(fmt.Sprintf("catalog: invalid seed file %s: %v", name, err))
			}
			builtinTemplates = append(builtinTemplates, templates...)
		}
	})
	c, err := New(builtinTemplates...)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid seed templates: %v", err))
	}
	return c
}

// LoadFile reads templates from a YAML catalog file.
func LoadFile(filename string) ([]Template, error) {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(errors.ErrCodeFileNotFound, "catalog file not found: "+filename)
		}
		return nil, errors.WrapIO(err, errors.ErrCodeFileNotFound, "open catalog file")
	}
	defer f.Close()
	return Decode(f, filename)
}

// Decode reads templates from YAML. The document is either a mapping with a
// templates list or a bare list. Unknown keys are rejected.
func Decode(r io.Reader, source string) ([]Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO(err, errors.ErrCodeInvalidCatalogFile, "read "+source)
	}

	var items []fileTemplate
	if strings.HasPrefix(strings.TrimSpace(string(data)), "-") {
		err = strictUnmarshal(data, &items)
	} else {
		var doc fileCatalog
		err = strictUnmarshal(data, &doc)
		items = doc.Templates
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, errors.ErrCodeInvalidCatalogFile,
			"invalid catalog "+source).WithContext("source", source)
	}

	ec := errors.NewErrorCollector()
	templates := make([]Template, 0, len(items))
	for i, item := range items {
		p, err := content.Validate(item.Content)
		if err != nil {
			ec.Add(errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeInvalidCatalogFile,
				fmt.Sprintf("%s: template %d (%s)", source, i+1, item.ID)))
			continue
		}
		if rs, ok := p.(content.RemoteScript); ok {
			rs.Script = strings.TrimSpace(rs.Script)
			p = rs
		}
		templates = append(templates, Template{
			ID:            item.ID,
			Name:          item.Name,
			Description:   item.Description,
			Category:      item.Category,
			Content:       p,
			PreviewMarkup: strings.TrimRight(item.Preview, "\n"),
		})
	}
	if err := ec.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

func strictUnmarshal(data []byte, v interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Load reads filename and adds its templates to c.
func (c *Catalog) Load(filename string) (int, error) {
	templates, err := LoadFile(filename)
	if err != nil {
		return 0, err
	}
	ec := errors.NewErrorCollector()
	added := 0
	for _, t := range templates {
		if err := c.Add(t); err != nil {
			ec.Add(err)
			continue
		}
		added++
	}
	return added, ec.Err()
}
