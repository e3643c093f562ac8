package repository

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/okian/sensei/internal/domain/model"
	"github.com/okian/sensei/pkg/metrics"
)

// catalogFile is the YAML shape of a problem catalog.
type catalogFile struct {
	Problems []catalogProblem `koanf:"problems"`
}

type catalogProblem struct {
	ID                  string  `koanf:"id"`
	Title               string  `koanf:"title"`
	Topic               string  `koanf:"topic"`
	Difficulty          string  `koanf:"difficulty"`
	ExpectedComplexity  string  `koanf:"expected_complexity"`
	ExpectedTimeMinutes float64 `koanf:"expected_time_minutes"`
}

// StaticCatalog is an immutable Catalog loaded once at startup.
// Declaration order in the source file is preserved, which keeps
// downstream candidate selection deterministic.
type StaticCatalog struct {
	problems []model.ProblemMeta
	byID     map[string]int
	topics   []string
}

// LoadCatalog reads a YAML problem catalog from path.
func LoadCatalog(path string) (*StaticCatalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return buildCatalog(k)
}

// ParseCatalog reads a YAML problem catalog from raw bytes.
func ParseCatalog(data []byte) (*StaticCatalog, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return buildCatalog(k)
}

func buildCatalog(k *koanf.Koanf) (*StaticCatalog, error) {
	var raw catalogFile
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	if len(raw.Problems) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &StaticCatalog{
		problems: make([]model.ProblemMeta, 0, len(raw.Problems)),
		byID:     make(map[string]int, len(raw.Problems)),
	}
	seenTopic := make(map[string]bool)

	for i, p := range raw.Problems {
		if p.ID == "" || p.Topic == "" {
			return nil, fmt.Errorf("problem %d: %w", i, ErrInvalidProblem)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("problem %s: %w", p.ID, ErrDuplicateID)
		}

		diff := model.ParseDifficulty(p.Difficulty)
		if diff == model.DifficultyUnknown {
			return nil, fmt.Errorf("problem %s: difficulty %q: %w", p.ID, p.Difficulty, ErrInvalidProblem)
		}

		c.byID[p.ID] = len(c.problems)
		c.problems = append(c.problems, model.ProblemMeta{
			ProblemID:           p.ID,
			Title:               p.Title,
			Topic:               p.Topic,
			Difficulty:          diff,
			ExpectedComplexity:  p.ExpectedComplexity,
			ExpectedTimeMinutes: p.ExpectedTimeMinutes,
		})

		if !seenTopic[p.Topic] {
			seenTopic[p.Topic] = true
			c.topics = append(c.topics, p.Topic)
		}
	}

	metrics.UpdateCatalogSize(len(c.problems))
	return c, nil
}

// All returns every problem in declaration order.
func (c *StaticCatalog) All() []model.ProblemMeta {
	out := make([]model.ProblemMeta, len(c.problems))
	copy(out, c.problems)
	return out
}

// GetByID returns the problem with the given ID.
func (c *StaticCatalog) GetByID(id string) (model.ProblemMeta, error) {
	idx, ok := c.byID[id]
	if !ok {
		return model.ProblemMeta{}, fmt.Errorf("problem %s: %w", id, ErrNotFound)
	}
	return c.problems[idx], nil
}

// Topics returns the distinct topics in declaration order.
func (c *StaticCatalog) Topics() []string {
	out := make([]string, len(c.topics))
	copy(out, c.topics)
	return out
}

// Size returns the number of problems.
func (c *StaticCatalog) Size() int {
	return len(c.problems)
}
