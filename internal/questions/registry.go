// Package questions manages the question definition documents behind the
// admin console: a mutable "current" document and the shipped "original" it
// can be restored from. Replacements are schema-validated before they are
// accepted.
package questions

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"turbosap-client/internal/common/errors"
	"turbosap-client/internal/models"
)

// Document is one question definition file.
type Document struct {
	Questions []models.Question `json:"questions"`
}

// documentSchema is the contract an uploaded document must satisfy.
const documentSchema = `{
	"type": "object",
	"required": ["questions"],
	"properties": {
		"questions": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["id", "text", "type"],
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"text": {"type": "string", "minLength": 1},
					"type": {"enum": ["multiple_choice", "multiple_select", "text"]},
					"placeholder": {"type": "string"},
					"options": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["id", "label"],
							"properties": {
								"id": {"type": "string", "minLength": 1},
								"label": {"type": "string", "minLength": 1},
								"description": {"type": "string"}
							}
						}
					},
					"showIf": {
						"type": "object",
						"required": ["questionId", "answerId"],
						"properties": {
							"questionId": {"type": "string"},
							"answerId": {"type": "string"}
						}
					}
				}
			}
		}
	}
}`

// Registry loads and caches the current document, guarding mutation the same
// way reads are served.
type Registry struct {
	currentPath  string
	originalPath string

	mu      sync.RWMutex
	current *Document
	byID    map[string]*models.Question
}

func NewRegistry(currentPath, originalPath string) *Registry {
	return &Registry{
		currentPath:  currentPath,
		originalPath: originalPath,
	}
}

// Current returns the active document, loading it from disk on first use.
// When the current file is missing the original is used.
func (r *Registry) Current() (*Document, error) {
	r.mu.RLock()
	if r.current != nil {
		doc := r.current
		r.mu.RUnlock()
		return doc, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		return r.current, nil
	}

	doc, err := readDocument(r.currentPath)
	if os.IsNotExist(err) {
		doc, err = readDocument(r.originalPath)
	}
	if err != nil {
		return nil, err
	}
	r.install(doc)
	return doc, nil
}

// Original reads the shipped document directly, bypassing the cache.
func (r *Registry) Original() (*Document, error) {
	return readDocument(r.originalPath)
}

// Question looks a question up by id in the current document.
func (r *Registry) Question(id string) (*models.Question, error) {
	if _, err := r.Current(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.byID[id]
	if !ok {
		return nil, errors.NewQuestionNotFoundError(id)
	}
	return q, nil
}

// Replace validates the uploaded payload and, if valid, persists it as the
// current document and swaps the cache.
func (r *Registry) Replace(payload []byte) error {
	if err := ValidateDocument(payload); err != nil {
		return err
	}

	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return errors.NewQuestionDocumentInvalidError(err.Error())
	}

	if err := os.WriteFile(r.currentPath, payload, 0o644); err != nil {
		return fmt.Errorf("persist question document: %w", err)
	}

	r.mu.Lock()
	r.install(&doc)
	r.mu.Unlock()
	return nil
}

// Restore discards the current document in favor of the original.
func (r *Registry) Restore() error {
	doc, err := readDocument(r.originalPath)
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode question document: %w", err)
	}
	if err := os.WriteFile(r.currentPath, raw, 0o644); err != nil {
		return fmt.Errorf("persist question document: %w", err)
	}

	r.mu.Lock()
	r.install(doc)
	r.mu.Unlock()
	return nil
}

// ValidateDocument checks a raw document against the registry schema and
// rejects duplicate question ids, which the schema alone cannot express.
func ValidateDocument(payload []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(documentSchema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewQuestionDocumentInvalidError(err.Error())
	}
	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			msgs[i] = desc.String()
		}
		return errors.NewQuestionDocumentInvalidError(fmt.Sprintf("%v", msgs))
	}

	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return errors.NewQuestionDocumentInvalidError(err.Error())
	}
	seen := map[string]bool{}
	for _, q := range doc.Questions {
		if seen[q.ID] {
			return errors.NewQuestionDocumentInvalidError(fmt.Sprintf("duplicate question id %q", q.ID))
		}
		seen[q.ID] = true
	}
	return nil
}

// install assumes the caller holds the write lock (or exclusive access).
func (r *Registry) install(doc *Document) {
	r.current = doc
	r.byID = make(map[string]*models.Question, len(doc.Questions))
	for i := range doc.Questions {
		r.byID[doc.Questions[i].ID] = &doc.Questions[i]
	}
}

func readDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewQuestionDocumentInvalidError(err.Error())
	}
	return &doc, nil
}
