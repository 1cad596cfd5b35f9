package integration

import "strconv"

// ConditionType is a searchCriteria comparison operator
type ConditionType string

const (
	ConditionEq    ConditionType = "eq"
	ConditionNeq   ConditionType = "neq"
	ConditionGt    ConditionType = "gt"
	ConditionGteq  ConditionType = "gteq"
	ConditionLt    ConditionType = "lt"
	ConditionLteq  ConditionType = "lteq"
	ConditionLike  ConditionType = "like"
	ConditionIn    ConditionType = "in"
	ConditionNotIn ConditionType = "nin"
)

// IsValid returns true if the condition type is known
func (c ConditionType) IsValid() bool {
	switch c {
	case ConditionEq, ConditionNeq, ConditionGt, ConditionGteq, ConditionLt,
		ConditionLteq, ConditionLike, ConditionIn, ConditionNotIn:
		return true
	default:
		return false
	}
}

// LogicalCondition decides how several filters are grouped.
// And puts every filter in its own group; Or packs them into one group.
type LogicalCondition string

const (
	LogicalNone LogicalCondition = ""
	LogicalAnd  LogicalCondition = "and"
	LogicalOr   LogicalCondition = "or"
)

// SortDirection is ASC or DESC
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// SearchCriteria is one filter
type SearchCriteria struct {
	Field     string
	Value     string
	Condition ConditionType
}

// NewSearchCriteria builds a filter; an empty condition defaults to eq
func NewSearchCriteria(field, value string, condition ConditionType) SearchCriteria {
	if condition == "" {
		condition = ConditionEq
	}
	return SearchCriteria{Field: field, Value: value, Condition: condition}
}

// EntityIDEquals filters one product by its remote entity id
func EntityIDEquals(id int) SearchCriteria {
	return NewSearchCriteria("entity_id", strconv.Itoa(id), ConditionEq)
}

// AllAttributeSets matches every attribute set
func AllAttributeSets() SearchCriteria {
	return NewSearchCriteria("attribute_set_id", "0", ConditionGt)
}

// AllEntities is the default criteria used when a listing has no filter
func AllEntities() SearchCriteria {
	return NewSearchCriteria("entity_id", "0", ConditionGt)
}

// SortCriteria is one sort order
type SortCriteria struct {
	Field     string
	Direction SortDirection
}

// NewSortCriteria builds a sort order; an empty direction defaults to ASC
func NewSortCriteria(field string, direction SortDirection) SortCriteria {
	if direction == "" {
		direction = SortAsc
	}
	return SortCriteria{Field: field, Direction: direction}
}

// ProductQuery is a paged product listing request
type ProductQuery struct {
	Filters     []SearchCriteria
	Condition   LogicalCondition
	Sort        []SortCriteria
	Fields      string
	PageSize    int
	CurrentPage int
}
