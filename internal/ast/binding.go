package ast

// ParamBinding binds a parameter name to an already-evaluated integer
// inside the per-instantiation argument scope created during
// elaboration. A RefExpr resolving to a ParamBinding is read directly
// off Value, with no further descent into a sub-scope.
type ParamBinding struct {
	Name  string
	Value int
}

func (b *ParamBinding) DeclName() string { return b.Name }
func (b *ParamBinding) DeclKind() string { return "num" }
