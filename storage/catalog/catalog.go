// Package catalog loads the content catalog: the embedded seed data or an operator supplied
// YAML file. Every catalog is validated before it is handed out.
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/aucontent/core"
	"github.com/trezcool/aucontent/core/content"
	appfs "github.com/trezcool/aucontent/fs"
)

var (
	defaultOnce    sync.Once
	defaultCatalog content.Catalog
	defaultErr     error

	validatorOnce sync.Once
	validate      *validator.Validate
	translator    ut.Translator
)

// Default returns a copy of the catalog embedded in the binary.
func Default() (content.Catalog, error) {
	defaultOnce.Do(func() {
		data, err := appfs.FS.ReadFile(appfs.CatalogPath)
		if err != nil {
			defaultErr = errors.Wrap(err, "reading embedded catalog")
			return
		}
		defaultCatalog, defaultErr = Parse(data)
	})
	if defaultErr != nil {
		return content.Catalog{}, defaultErr
	}
	return defaultCatalog.Clone(), nil
}

// Load returns the catalog stored at path, or the embedded one when path is empty.
func Load(path string) (content.Catalog, error) {
	if path == "" {
		return Default()
	}
	return Open(path)
}

// Open reads and validates the YAML catalog stored at path.
func Open(path string) (content.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return content.Catalog{}, errors.Wrap(err, "reading catalog file")
	}
	cat, err := Parse(data)
	return cat, errors.Wrapf(err, "loading %s", path)
}

// Parse decodes a YAML catalog and validates it. Unknown fields are rejected.
func Parse(data []byte) (content.Catalog, error) {
	var cat content.Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil && err != io.EOF {
		return content.Catalog{}, errors.Wrap(err, "decoding catalog")
	}
	if err := Validate(cat); err != nil {
		return content.Catalog{}, err
	}
	return cat.Clone(), nil
}

// Validate checks every record of the catalog and the uniqueness of ids within each collection.
// It returns a *core.ValidationError listing the failing fields.
func Validate(cat content.Catalog) error {
	validatorOnce.Do(func() {
		validate = validator.New()
		translator = core.NewTranslator()
		core.InitValidators(validate, translator)
	})

	if err := validate.Struct(cat); err != nil {
		return core.TranslateValidationErrors(err, translator)
	}

	var flds []core.FieldError
	seen := make(map[string]bool, len(cat.Plays))
	for i, p := range cat.Plays {
		if seen[p.ID] {
			flds = append(flds, duplicateID("plays", i, p.ID))
		}
		seen[p.ID] = true
	}
	seen = make(map[string]bool, len(cat.Movies))
	for i, m := range cat.Movies {
		if seen[m.ID] {
			flds = append(flds, duplicateID("movies", i, m.ID))
		}
		seen[m.ID] = true
	}
	if flds != nil {
		return core.NewValidationError(errors.New("validation failed"), flds...)
	}
	return nil
}

func duplicateID(collection string, idx int, id string) core.FieldError {
	return core.FieldError{
		Field: fmt.Sprintf("%s[%d].id", collection, idx),
		Error: fmt.Sprintf("duplicate id %q", id),
	}
}
