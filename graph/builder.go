package graph

import (
	"sort"
	"strings"

	"lexresearch-backend/models"

	"go.uber.org/zap"
)

// DefaultMaxRelated caps the expansion nodes added around the focus set
const DefaultMaxRelated = 12

const edgeTypeRelated = "related"

// Lookup resolves authority ids
type Lookup interface {
	Get(id string) (*models.Authority, bool)
	All() []*models.Authority
}

// Builder assembles knowledge graphs over a fixed authority set. Its indexes are
// built once in NewBuilder and only read afterwards.
type Builder struct {
	lookup     Lookup
	tagIndex   map[string][]string
	statIndex  map[string][]string
	relations  map[string]map[string]struct{}
	maxRelated int
	logger     *zap.Logger
}

// Option configures a Builder
type Option func(*Builder)

// WithMaxRelated sets the expansion cap. Values below zero are ignored.
func WithMaxRelated(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.maxRelated = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder indexes tags, statutes and explicit relations of every authority
func NewBuilder(lookup Lookup, opts ...Option) *Builder {
	b := &Builder{
		lookup:     lookup,
		tagIndex:   make(map[string][]string),
		statIndex:  make(map[string][]string),
		relations:  make(map[string]map[string]struct{}),
		maxRelated: DefaultMaxRelated,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	dropped := 0
	for _, a := range lookup.All() {
		for _, tag := range a.Tags {
			key := strings.ToLower(tag)
			b.tagIndex[key] = appendUnique(b.tagIndex[key], a.ID)
		}
		for _, statute := range a.Statutes {
			key := strings.ToLower(statute)
			b.statIndex[key] = appendUnique(b.statIndex[key], a.ID)
		}
		for _, related := range a.RelatedAuthorities {
			if related == a.ID {
				continue
			}
			if _, ok := lookup.Get(related); !ok {
				dropped++
				continue
			}
			b.relate(a.ID, related)
			b.relate(related, a.ID)
		}
	}
	if dropped > 0 {
		b.logger.Debug("dropped relations to unknown authorities", zap.Int("count", dropped))
	}
	return b
}

func (b *Builder) relate(from, to string) {
	set, ok := b.relations[from]
	if !ok {
		set = make(map[string]struct{})
		b.relations[from] = set
	}
	set[to] = struct{}{}
}

// Build returns the graph around focusIDs. Unknown ids are skipped. Expansion
// candidates are visited in id order so identical inputs give identical graphs.
func (b *Builder) Build(focusIDs []string) models.KnowledgeGraph {
	nodes := []models.GraphNode{}
	added := make(map[string]bool)
	var focus []*models.Authority

	for _, id := range focusIDs {
		if added[id] {
			continue
		}
		a, ok := b.lookup.Get(id)
		if !ok {
			continue
		}
		nodes = append(nodes, newNode(a, true))
		added[id] = true
		focus = append(focus, a)
	}

	edges := make(map[[2]string]struct{})
	extra := 0
	for _, a := range focus {
		for _, target := range b.candidates(a) {
			if !added[target] {
				if extra >= b.maxRelated {
					continue
				}
				related, ok := b.lookup.Get(target)
				if !ok {
					continue
				}
				nodes = append(nodes, newNode(related, false))
				added[target] = true
				extra++
			}
			edges[edgeKey(a.ID, target)] = struct{}{}
		}
	}

	return models.KnowledgeGraph{
		Nodes:    nodes,
		Edges:    sortedEdges(edges),
		Insights: Insights(focus),
	}
}

// candidates returns the sorted ids linked to a by explicit relation, a shared
// tag or a shared statute
func (b *Builder) candidates(a *models.Authority) []string {
	set := make(map[string]struct{})
	for id := range b.relations[a.ID] {
		set[id] = struct{}{}
	}
	for _, tag := range a.Tags {
		for _, id := range b.tagIndex[strings.ToLower(tag)] {
			set[id] = struct{}{}
		}
	}
	for _, statute := range a.Statutes {
		for _, id := range b.statIndex[strings.ToLower(statute)] {
			set[id] = struct{}{}
		}
	}
	delete(set, a.ID)

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func newNode(a *models.Authority, focus bool) models.GraphNode {
	return models.GraphNode{
		ID:                 a.ID,
		Title:              a.Title,
		Citation:           a.Citation,
		Tags:               a.Tags,
		Statutes:           a.Statutes,
		PrecedentDirection: a.Direction,
		Jurisdiction:       a.Jurisdiction,
		Year:               a.Year,
		Focus:              focus,
	}
}

func edgeKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func sortedEdges(set map[[2]string]struct{}) []models.GraphEdge {
	edges := make([]models.GraphEdge, 0, len(set))
	for key := range set {
		edges = append(edges, models.GraphEdge{Source: key[0], Target: key[1], Type: edgeTypeRelated})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

func appendUnique(list []string, id string) []string {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}
