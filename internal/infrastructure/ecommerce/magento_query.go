package ecommerce

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/erp/catalogsync/internal/domain/integration"
)

// searchCriteriaQuery renders filters, sort orders and paging as Magento
// searchCriteria query parameters.
//
// With LogicalAnd every filter gets its own group; with LogicalOr all filters
// share group 0. Without a condition each filter also gets its own group.
func searchCriteriaQuery(filters []integration.SearchCriteria, condition integration.LogicalCondition, sorts []integration.SortCriteria, pageSize, currentPage int) url.Values {
	q := url.Values{}
	for i, f := range filters {
		group, index := i, 0
		if condition == integration.LogicalOr {
			group, index = 0, i
		}
		prefix := fmt.Sprintf("searchCriteria[filter_groups][%d][filters][%d]", group, index)
		cond := f.Condition
		if cond == "" {
			cond = integration.ConditionEq
		}
		q.Set(prefix+"[field]", f.Field)
		q.Set(prefix+"[value]", f.Value)
		q.Set(prefix+"[condition_type]", string(cond))
	}
	for i, s := range sorts {
		dir := s.Direction
		if dir == "" {
			dir = integration.SortAsc
		}
		q.Set(fmt.Sprintf("searchCriteria[sortOrders][%d][field]", i), s.Field)
		q.Set(fmt.Sprintf("searchCriteria[sortOrders][%d][direction]", i), string(dir))
	}
	if pageSize > 0 {
		q.Set("searchCriteria[pageSize]", strconv.Itoa(pageSize))
	}
	if currentPage > 0 {
		q.Set("searchCriteria[currentPage]", strconv.Itoa(currentPage))
	}
	return q
}
