package scorer

import "strings"

// HardFailCheck inspects a completed dimension score and returns
// human-readable hard-fail reasons, or nil when the dimension raises no
// categorical failure.
type HardFailCheck func(ds *DimensionScore) []string

// Entry binds a dimension name to its scorer and optional hard-fail
// checker.
type Entry struct {
	Name     string
	Scorer   Scorer
	HardFail HardFailCheck
}

// Registry is an explicitly constructed, ordered set of dimension
// entries. It is built once at startup and read-only afterwards; there
// is deliberately no package-level instance.
type Registry struct {
	order  []Entry
	byName map[string]int
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]int),
	}
}

// Register appends an entry. Registration order is pipeline order.
func (r *Registry) Register(e Entry) {
	if r == nil {
		panic("scorer: register on nil registry")
	}
	if e.Scorer == nil {
		panic("scorer: register nil scorer")
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		name = strings.TrimSpace(e.Scorer.Name())
	}
	if name == "" {
		panic("scorer: entry has empty name")
	}
	if _, ok := r.byName[name]; ok {
		panic("scorer: duplicate dimension " + name)
	}
	e.Name = name
	if r.byName == nil {
		r.byName = make(map[string]int)
	}
	r.byName[name] = len(r.order)
	r.order = append(r.order, e)
}

// Entries returns registered entries in registration order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns a named entry if present.
func (r *Registry) Get(name string) (Entry, bool) {
	if r == nil || r.byName == nil {
		return Entry{}, false
	}
	i, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return Entry{}, false
	}
	return r.order[i], true
}

// Names returns the registered dimension names in pipeline order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.order))
	for _, e := range r.order {
		out = append(out, e.Name)
	}
	return out
}

// DefaultRegistry builds the canonical five-dimension pipeline:
// memory, trauma, belonging, compliance, safety.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Entry{Name: DimensionMemory, Scorer: &MemoryScorer{}})
	r.Register(Entry{Name: DimensionTrauma, Scorer: &TraumaScorer{}})
	r.Register(Entry{Name: DimensionBelonging, Scorer: &BelongingScorer{}})
	r.Register(Entry{Name: DimensionCompliance, Scorer: &ComplianceScorer{}, HardFail: ComplianceHardFail})
	r.Register(Entry{Name: DimensionSafety, Scorer: &SafetyScorer{}, HardFail: SafetyHardFail})
	return r
}
