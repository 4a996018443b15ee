// Package catalog holds the read-only templates a session can start from:
// the embedded seed set plus any templates loaded from a YAML catalog file.
package catalog

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/uistudio/internal/content"
	"github.com/conneroisu/uistudio/internal/errors"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Template is a read-only starting point for a session.
type Template struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	Description   string          `json:"description" yaml:"description"`
	Category      string          `json:"category" yaml:"category"`
	Content       content.Payload `json:"-" yaml:"-"`
	PreviewMarkup string          `json:"previewMarkup,omitempty" yaml:"preview,omitempty"`
}

// Envelope clones the template content into a fresh envelope with the
// default URI, encoding and adapter.
func (t Template) Envelope() content.Envelope {
	return content.NewEnvelope(t.Content)
}

// Catalog is an ordered, concurrency-safe set of templates keyed by ID.
type Catalog struct {
	mu         sync.RWMutex
	order      []string
	templates  map[string]Template
	categories map[string]string
}

// New creates a catalog holding templates in order.
func New(templates ...Template) (*Catalog, error) {
	c := &Catalog{
		templates:  make(map[string]Template),
		categories: make(map[string]string),
	}
	ec := errors.NewErrorCollector()
	for _, t := range templates {
		ec.Add(c.Add(t))
	}
	return c, ec.Err()
}

// Add validates t and appends it. IDs must be unique lowercase slugs.
func (c *Catalog) Add(t Template) error {
	t.ID = strings.TrimSpace(t.ID)
	if !idPattern.MatchString(t.ID) {
		return errors.NewValidationError(errors.ErrCodeInvalidField,
			"template id must be a lowercase slug: "+t.ID).WithField("id")
	}
	if t.Content == nil {
		return errors.NewValidationError(errors.ErrCodeMissingContent,
			"template "+t.ID+" has no content").WithField("content")
	}
	p, err := content.Validate(t.Content)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeValidationFailed,
			"template "+t.ID+" has invalid content")
	}
	t.Content = p
	if strings.TrimSpace(t.Name) == "" {
		t.Name = t.ID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.templates[t.ID]; exists {
		return errors.NewValidationError(errors.ErrCodeDuplicateTemplate,
			"duplicate template id "+t.ID).WithField("id")
	}
	t.Category = c.normalizeCategoryLocked(t.Category)
	c.templates[t.ID] = t
	c.order = append(c.order, t.ID)
	return nil
}

// normalizeCategoryLocked folds categories that differ only by case onto the
// first spelling seen. A new all-lowercase category is title-cased.
func (c *Catalog) normalizeCategoryLocked(category string) string {
	category = strings.Join(strings.Fields(category), " ")
	if category == "" {
		category = "Other"
	}
	key := cases.Fold().String(category)
	if known, ok := c.categories[key]; ok {
		return known
	}
	if category == strings.ToLower(category) {
		category = cases.Title(language.English).String(category)
	}
	c.categories[key] = category
	return category
}

// Get returns the template with id.
func (c *Catalog) Get(id string) (Template, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.templates[id]
	if !ok {
		return Template{}, errors.ErrTemplateNotFound(id)
	}
	return t, nil
}

// All returns every template in insertion order.
func (c *Catalog) All() []Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.templates[id])
	}
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Categories returns the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, id := range c.order {
		cat := c.templates[id].Category
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	sort.Strings(out)
	return out
}

// InCategory returns the templates whose category matches, ignoring case.
func (c *Catalog) InCategory(category string) []Template {
	key := cases.Fold().String(strings.Join(strings.Fields(category), " "))
	var out []Template
	for _, t := range c.All() {
		if cases.Fold().String(t.Category) == key {
			out = append(out, t)
		}
	}
	return out
}
