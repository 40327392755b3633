// Package catalog persists the product catalog as a single JSON document.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/strummet/pricewatch/pkg/models"
)

// ErrCodeExists is returned by ValidateCode for a duplicate product code.
var ErrCodeExists = errors.New("product code already exists")

// Store reads and writes the catalog file. The file is the only shared
// mutable resource between the interactive layer and the batch walker, so
// every write goes through a temp-file-then-rename swap.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a store for the catalog at path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the catalog file location.
func (s *Store) Path() string { return s.path }

// Load reads the whole catalog. A missing file is an empty catalog, not an
// error.
func (s *Store) Load() ([]models.Product, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Product{}, nil
	}
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", s.path, err)
	}
	return products, nil
}

// Save writes the catalog, retaining the prior version as a timestamped
// backup file first.
func (s *Store) Save(products []models.Product) error {
	if _, err := os.Stat(s.path); err == nil {
		backup := s.path + ".bak." + s.now().Format("20060102150405")
		if err := os.Rename(s.path, backup); err != nil {
			return fmt.Errorf("backup catalog: %w", err)
		}
	}
	return s.write(products)
}

// AutoSave overwrites the catalog without taking a backup. Used by the
// interactive auto-save path where churn would otherwise litter the data
// directory with backups.
func (s *Store) AutoSave(products []models.Product) error {
	return s.write(products)
}

func (s *Store) write(products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".catalog-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// ValidateCode checks product-code uniqueness at write time. Empty codes
// are always valid; identity falls back to position for those products.
func (s *Store) ValidateCode(code string) error {
	if code == "" {
		return nil
	}
	products, err := s.Load()
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.ProductCode == code {
			return ErrCodeExists
		}
	}
	return nil
}
