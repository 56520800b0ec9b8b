package domain

// ResultKind distinguishes the three QueryResult shapes.
type ResultKind string

const (
	ResultLeaf      ResultKind = "leaf"
	ResultAggregate ResultKind = "aggregate"
	ResultError     ResultKind = "error"
)

// Dimension is the taxonomy level an aggregate fans out over.
type Dimension string

const (
	DimensionClass      Dimension = "class"
	DimensionSpec       Dimension = "spec"
	DimensionHeroTalent Dimension = "hero_talent"
)

// QueryError is a user-facing input error.
type QueryError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// QueryResult is the tree produced by a BIS query. Leaves carry gear, aggregates
// carry children labeled by the fanned-out dimension, errors carry a message.
type QueryResult struct {
	Kind       ResultKind    `json:"kind"`
	Label      string        `json:"label,omitempty"`
	Class      string        `json:"class,omitempty"`
	Spec       string        `json:"spec,omitempty"`
	HeroTalent string        `json:"hero_talent,omitempty"`
	Gear       GearSet       `json:"gear,omitempty"`
	Dimension  Dimension     `json:"dimension,omitempty"`
	Children   []QueryResult `json:"children,omitempty"`
	Error      *QueryError   `json:"error,omitempty"`

	// SlotFilter is the resolved slot selector, empty when unfiltered.
	SlotFilter string `json:"slot_filter,omitempty"`
	// UnknownSlot holds slot text that did not resolve and was ignored.
	UnknownSlot string `json:"unknown_slot,omitempty"`
}

// NewErrorResult builds an error result.
func NewErrorResult(title, detail string) QueryResult {
	return QueryResult{
		Kind:  ResultError,
		Error: &QueryError{Title: title, Detail: detail},
	}
}

// IsError reports whether the result is an input error.
func (r QueryResult) IsError() bool {
	return r.Kind == ResultError
}

// HasItems reports whether at least one leaf under r carries gear.
func (r QueryResult) HasItems() bool {
	switch r.Kind {
	case ResultLeaf:
		return len(r.Gear) > 0
	case ResultAggregate:
		for _, child := range r.Children {
			if child.HasItems() {
				return true
			}
		}
	}
	return false
}

// Depth returns the number of aggregate levels above the deepest leaf.
func (r QueryResult) Depth() int {
	if r.Kind != ResultAggregate {
		return 0
	}
	deepest := 0
	for _, child := range r.Children {
		if d := child.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// ChildLabels lists the labels of the direct children.
func (r QueryResult) ChildLabels() []string {
	labels := make([]string, 0, len(r.Children))
	for _, child := range r.Children {
		labels = append(labels, child.Label)
	}
	return labels
}
