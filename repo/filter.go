package repo

import (
	"fmt"

	"mailer/entity"
	"mailer/pkg/goutil"
)

type LogicalOp string

const (
	And LogicalOp = "AND"
	Or  LogicalOp = "OR"
)

type Op string

const (
	OpEq    Op = "="
	OpNotEq Op = "!="
	OpGt    Op = ">"
	OpGte   Op = ">="
	OpLt    Op = "<"
	OpLte   Op = "<="
	OpLike  Op = "LIKE"
	OpIn    Op = "IN"
)

type Condition struct {
	Field         string
	Op            Op
	Value         interface{}
	NextLogicalOp LogicalOp
}

type Filter struct {
	Conditions []*Condition
	Pagination *entity.Pagination
	// Order is a raw ORDER BY clause, "id DESC" when empty.
	Order string
}

func (f *Filter) GetConditions() []*Condition {
	if f != nil {
		return f.Conditions
	}
	return nil
}

func (f *Filter) GetPagination() *entity.Pagination {
	if f != nil && f.Pagination != nil {
		return f.Pagination
	}
	return new(entity.Pagination)
}

func (f *Filter) GetOrder() string {
	if f != nil && f.Order != "" {
		return f.Order
	}
	return "id DESC"
}

func ToSqlWithArgs(conditions []*Condition) (sql string, args []interface{}) {
	// drop conditions without a value so the logical operators line up
	active := make([]*Condition, 0, len(conditions))
	for _, condition := range conditions {
		if !goutil.IsNil(condition.Value) {
			active = append(active, condition)
		}
	}

	for i, condition := range active {
		switch condition.Op {
		case OpIn:
			sql += fmt.Sprintf("%s IN ?", condition.Field)
		default:
			sql += fmt.Sprintf("%s %s ?", condition.Field, condition.Op)
		}
		args = append(args, condition.Value)

		if i != len(active)-1 {
			op := condition.NextLogicalOp
			if op == "" {
				op = And
			}
			sql += fmt.Sprintf(" %s ", op)
		}
	}

	return
}
