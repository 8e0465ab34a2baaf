package repository

import (
	"fmt"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/deke/internal/domain/model"
	"github.com/okian/deke/internal/domain/statline"
)

// ModelStore is a thread-safe in-memory model.Table. Models are loaded
// once at startup and treated as a read-only snapshot afterwards.
type ModelStore struct {
	mu         sync.RWMutex
	exact      map[string]model.SeasonModel
	legacy     map[string]model.SeasonModel
	byLevelPos map[string][]model.SeasonModel
}

// NewModelStore creates an empty model store.
func NewModelStore() *ModelStore {
	return &ModelStore{
		exact:      make(map[string]model.SeasonModel),
		legacy:     make(map[string]model.SeasonModel),
		byLevelPos: make(map[string][]model.SeasonModel),
	}
}

// Put registers a model under its canonical or legacy key.
func (s *ModelStore) Put(m model.SeasonModel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.Legacy {
		s.legacy[model.LegacyKey(m.Key.SeasonID, m.Key.PosGroup)] = m
		return
	}
	key := m.Key.String()
	if _, dup := s.exact[key]; !dup {
		lp := levelPosKey(m.Key.Level, m.Key.PosGroup)
		s.byLevelPos[lp] = append(s.byLevelPos[lp], m)
	}
	s.exact[key] = m
}

// Exact implements model.Table.
func (s *ModelStore) Exact(k model.Key) (model.SeasonModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.exact[k.String()]
	return m, ok
}

// Legacy implements model.Table.
func (s *ModelStore) Legacy(seasonID string, pg statline.PosGroup) (model.SeasonModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.legacy[model.LegacyKey(seasonID, pg)]
	return m, ok
}

// Candidates implements model.Table.
func (s *ModelStore) Candidates(level statline.AggLevel, pg statline.PosGroup) []model.SeasonModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.byLevelPos[levelPosKey(level, pg)]
	out := make([]model.SeasonModel, len(stored))
	copy(out, stored)
	return out
}

// Len implements model.Table.
func (s *ModelStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exact) + len(s.legacy)
}

func levelPosKey(level statline.AggLevel, pg statline.PosGroup) string {
	return string(level) + ":" + string(pg)
}

// modelSpec mirrors one entry of the YAML model file.
type modelSpec struct {
	Phase    string                        `koanf:"phase"`
	Season   string                        `koanf:"season"`
	Level    string                        `koanf:"level"`
	PosGroup string                        `koanf:"pos_group"`
	Legacy   bool                          `koanf:"legacy"`
	Weights  map[string]float64            `koanf:"weights"`
	Dists    map[string]model.Distribution `koanf:"distributions"`
	Comp     *model.Distribution           `koanf:"composite"`
}

// LoadFile loads trained models from a YAML file into the store.
func (s *ModelStore) LoadFile(path string) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadModels, err)
	}

	var specs []modelSpec
	if err := k.Unmarshal("models", &specs); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadModels, err)
	}

	for _, spec := range specs {
		if spec.Phase == "" {
			spec.Phase = string(statline.PhaseRegular)
		}
		s.Put(model.SeasonModel{
			Key: model.Key{
				Phase:    statline.Phase(spec.Phase),
				SeasonID: spec.Season,
				Level:    statline.AggLevel(spec.Level),
				PosGroup: statline.PosGroup(spec.PosGroup),
			},
			Legacy:        spec.Legacy,
			Weights:       spec.Weights,
			Distributions: spec.Dists,
			Composite:     spec.Comp,
		})
	}
	return nil
}
