package catalog

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/coder/hnsw"
)

// HNSWMaxNeighbors is the M parameter of the HNSW graph.
const HNSWMaxNeighbors = 16

// HNSWIndex is an in-memory approximate-nearest-neighbor index over the
// profile catalog, used to pre-select candidates on large installs. Matching
// semantics (strict threshold, earliest-enrollment tie-break) are enforced by
// the recognition engine on the candidate subset, not by the index.
type HNSWIndex struct {
	graph       *hnsw.Graph[string]
	savedGraph  *hnsw.SavedGraph[string]
	idToProfile map[string]*Profile
	mu          sync.RWMutex
	path        string
}

// NewHNSWIndex creates a new empty index.
func NewHNSWIndex() *HNSWIndex {
	return &HNSWIndex{
		idToProfile: make(map[string]*Profile),
	}
}

func newProfileGraph() *hnsw.Graph[string] {
	g := hnsw.NewGraph[string]()
	g.M = HNSWMaxNeighbors
	g.Ml = 1.0 / float64(HNSWMaxNeighbors)
	g.Distance = hnsw.EuclideanDistance
	return g
}

// BuildFromProfiles replaces the index contents with the given profiles.
func (h *HNSWIndex) BuildFromProfiles(profiles []Profile) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(profiles) == 0 {
		h.graph = nil
		h.savedGraph = nil
		h.idToProfile = make(map[string]*Profile)
		return
	}

	g := newProfileGraph()
	h.idToProfile = make(map[string]*Profile, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		if len(p.Embedding) == 0 {
			continue
		}
		g.Add(hnsw.MakeNode(p.ID, p.Embedding))
		h.idToProfile[p.ID] = p
	}
	h.graph = g
	h.savedGraph = nil
}

// Search returns up to k profiles nearest to the query, ordered by enrollment
// time so the engine's first-wins tie-break matches a full catalog scan.
func (h *HNSWIndex) Search(query []float32, k int) []Profile {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.graph == nil && h.savedGraph == nil {
		return nil
	}

	var neighbors []hnsw.Node[string]
	if h.savedGraph != nil {
		neighbors = h.savedGraph.Search(query, k)
	} else {
		neighbors = h.graph.Search(query, k)
	}

	profiles := make([]Profile, 0, len(neighbors))
	for _, n := range neighbors {
		// Deleted profiles stay in the graph but drop out of the lookup map.
		if p, ok := h.idToProfile[n.Key]; ok {
			profiles = append(profiles, *p)
		}
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].ID < profiles[j].ID
		}
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})
	return profiles
}

// Add inserts a single profile into the index.
func (h *HNSWIndex) Add(p *Profile) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(p.Embedding) == 0 {
		return
	}
	if h.graph == nil {
		h.graph = newProfileGraph()
	}
	h.graph.Add(hnsw.MakeNode(p.ID, p.Embedding))
	h.idToProfile[p.ID] = p
}

// Delete removes a profile from lookups. The HNSW graph has no true deletion;
// the node is filtered out of search results instead.
func (h *HNSWIndex) Delete(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.idToProfile, id)
}

// Count returns the number of indexed profiles.
func (h *HNSWIndex) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.idToProfile)
}

// SetPath sets the file path used by Save.
func (h *HNSWIndex) SetPath(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.path = path
}

// Save persists the graph to the configured path. A nil graph removes any
// stale index file.
func (h *HNSWIndex) Save() error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.path == "" {
		return nil
	}
	if h.graph == nil {
		_ = os.Remove(h.path)
		return nil
	}

	f, err := os.Create(h.path)
	if err != nil {
		return fmt.Errorf("creating HNSW index file: %w", err)
	}
	defer f.Close()

	if err := h.graph.Export(f); err != nil {
		return fmt.Errorf("exporting HNSW graph: %w", err)
	}
	return nil
}

// Load reads a previously saved graph. Profile metadata must be repopulated
// with BuildFromProfiles or RebuildLookup afterwards.
func (h *HNSWIndex) Load(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.path = path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	saved, err := hnsw.LoadSavedGraph[string](path)
	if err != nil {
		return fmt.Errorf("loading HNSW index: %w", err)
	}
	h.savedGraph = saved
	return nil
}

// RebuildLookup repopulates the ID-to-profile map after loading a saved graph.
func (h *HNSWIndex) RebuildLookup(profiles []Profile) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.idToProfile = make(map[string]*Profile, len(profiles))
	for i := range profiles {
		h.idToProfile[profiles[i].ID] = &profiles[i]
	}
}
