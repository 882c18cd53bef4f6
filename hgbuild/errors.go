package hgbuild

import "errors"

// ErrNilExpression indicates Build was called with a nil relational
// expression tree.
var ErrNilExpression = errors.New("hgbuild: relational expression tree is nil")

// ErrConditionOutOfRange indicates a condition (join or WHERE) references a
// table bit that AssignNodes never produced — either a stale bitmap from a
// different tree, or a caller bug upstream of this package.
var ErrConditionOutOfRange = errors.New("hgbuild: condition references an unknown table")
