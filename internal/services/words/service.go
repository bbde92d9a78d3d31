package words

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/casuskim/casus/internal/model"
	"github.com/casuskim/casus/internal/storage"
)

// Provider exposes the word content used to start games
type Provider interface {
	// WordsFor returns the resolved category name and its non-empty word list.
	// Unknown categories resolve to the default category.
	WordsFor(category string) (string, []string)
}

// Pack is the on-disk YAML word pack format
type Pack struct {
	DefaultCategory string           `yaml:"defaultCategory"`
	Categories      []model.Category `yaml:"categories"`
}

// CategoryInfo describes a category without its words
type CategoryInfo struct {
	Name      string `json:"name"`
	WordCount int    `json:"wordCount"`
	IsDefault bool   `json:"isDefault"`
}

// Service holds the loaded word pack
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	mu              sync.RWMutex
	categories      []model.Category
	index           map[string]int
	defaultCategory string
}

// Ensure Service implements Provider
var _ Provider = (*Service)(nil)

// New creates a new words Service. An empty defaultCategory uses DefaultCategory.
func New(storage storage.Storage, defaultCategory string, logger *slog.Logger) *Service {
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	return &Service{
		storage:         storage,
		logger:          logger.With(slog.String("component", "words")),
		index:           make(map[string]int),
		defaultCategory: defaultCategory,
	}
}

// Load loads the pack from path when given, otherwise from storage,
// falling back to the built-in pack when storage has none.
func (s *Service) Load(ctx context.Context, path string) error {
	if path != "" {
		return s.LoadFromFile(ctx, path)
	}
	err := s.LoadFromStorage(ctx)
	if errors.Is(err, model.ErrNoCategories) {
		return s.LoadCategories(ctx, DefaultCategories())
	}
	return err
}

// LoadFromStorage loads the word pack previously saved to storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	categories, err := s.storage.GetCategories(ctx)
	if err != nil {
		return err
	}
	return s.loadCategories(categories)
}

// LoadFromFile loads a YAML word pack and saves it to storage
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read word pack: %w", err)
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return fmt.Errorf("failed to parse word pack %s: %w", path, err)
	}
	if pack.DefaultCategory != "" {
		s.mu.Lock()
		s.defaultCategory = pack.DefaultCategory
		s.mu.Unlock()
	}
	return s.LoadCategories(ctx, pack.Categories)
}

// LoadCategories validates categories, saves them to storage and makes them current
func (s *Service) LoadCategories(ctx context.Context, categories []model.Category) error {
	cleaned, err := clean(categories)
	if err != nil {
		return err
	}
	if err := s.storage.SaveCategories(ctx, cleaned); err != nil {
		return fmt.Errorf("failed to save word pack: %w", err)
	}
	return s.loadCategories(cleaned)
}

func (s *Service) loadCategories(categories []model.Category) error {
	cleaned, err := clean(categories)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = cleaned
	s.index = make(map[string]int, len(cleaned))
	for i, c := range cleaned {
		s.index[strings.ToLower(c.Name)] = i
	}
	if _, ok := s.index[strings.ToLower(s.defaultCategory)]; !ok {
		s.logger.Warn("default category not in word pack, using first category",
			slog.String("default", s.defaultCategory),
			slog.String("fallback", cleaned[0].Name),
		)
		s.defaultCategory = cleaned[0].Name
	}

	s.logger.Info("word pack loaded",
		slog.Int("categories", len(cleaned)),
		slog.String("default", s.defaultCategory),
	)
	return nil
}

// clean trims words, drops blanks and duplicates, and rejects empty categories
func clean(categories []model.Category) ([]model.Category, error) {
	if len(categories) == 0 {
		return nil, model.ErrNoCategories
	}

	seen := make(map[string]bool, len(categories))
	result := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true

		words := make([]string, 0, len(c.Words))
		for _, w := range c.Words {
			w = strings.TrimSpace(w)
			if w != "" && !slices.Contains(words, w) {
				words = append(words, w)
			}
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("%w: %s", model.ErrEmptyCategory, name)
		}
		result = append(result, model.Category{Name: name, Words: words})
	}
	if len(result) == 0 {
		return nil, model.ErrNoCategories
	}
	return result, nil
}

// WordsFor returns the category's name and a copy of its words, resolving
// unknown or empty names to the default category. Matching ignores case.
func (s *Service) WordsFor(category string) (string, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.categories) == 0 {
		return "", nil
	}

	idx, ok := s.index[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		idx = s.index[strings.ToLower(s.defaultCategory)]
	}
	c := s.categories[idx]
	return c.Name, slices.Clone(c.Words)
}

// Categories lists the loaded categories in pack order
func (s *Service) Categories() []CategoryInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]CategoryInfo, len(s.categories))
	for i, c := range s.categories {
		infos[i] = CategoryInfo{
			Name:      c.Name,
			WordCount: len(c.Words),
			IsDefault: strings.EqualFold(c.Name, s.defaultCategory),
		}
	}
	return infos
}

// DefaultCategory returns the name of the fallback category
func (s *Service) DefaultCategory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultCategory
}

// IsLoaded returns whether a word pack has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.categories) > 0
}
