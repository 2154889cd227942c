package query

import "fmt"

// Condition is one predicate of a WHERE clause.
// SQL receives the index of the first free parameter and returns the
// fragment plus the parameters it binds (named p<index>, p<index+1>, ...).
type Condition interface {
	SQL(paramIndex int) (string, map[string]interface{})
}

type compareCondition struct {
	field string
	op    string
	value interface{}
}

func (c *compareCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	name := paramName(paramIndex)
	return fmt.Sprintf("%s %s @%s", c.field, c.op, name), map[string]interface{}{name: c.value}
}

// Eq matches rows where field = value.
func Eq(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "=", value: value}
}

// Gte matches rows where field >= value.
func Gte(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: ">=", value: value}
}

// Lt matches rows where field < value.
func Lt(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "<", value: value}
}

type inCondition struct {
	field  string
	values interface{}
}

// In matches rows whose field is one of values, which must be a slice
// Spanner can bind as an ARRAY (e.g. []string).
// Example: In("cart_id", ids) generates "cart_id IN UNNEST(@p0)"
func In(field string, values interface{}) Condition {
	return &inCondition{field: field, values: values}
}

func (c *inCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	name := paramName(paramIndex)
	return fmt.Sprintf("%s IN UNNEST(@%s)", c.field, name), map[string]interface{}{name: c.values}
}

type nullCondition struct {
	field string
	not   bool
}

// IsNull matches rows where field IS NULL.
func IsNull(field string) Condition {
	return &nullCondition{field: field}
}

// IsNotNull matches rows where field IS NOT NULL.
func IsNotNull(field string) Condition {
	return &nullCondition{field: field, not: true}
}

func (c *nullCondition) SQL(int) (string, map[string]interface{}) {
	if c.not {
		return c.field + " IS NOT NULL", nil
	}
	return c.field + " IS NULL", nil
}

func paramName(index int) string {
	return fmt.Sprintf("p%d", index)
}
