package types

// Ecosystem identifies which packaging ecosystem a name or version
// string belongs to.
type Ecosystem string

const (
	EcosystemPyPI   Ecosystem = "pypi"
	EcosystemDebian Ecosystem = "debian"
)

type ConstraintOp string

const (
	ConstraintOpNone   ConstraintOp = ""
	ConstraintOpEq     ConstraintOp = "="
	ConstraintOpEq2    ConstraintOp = "=="
	ConstraintOpArbEq  ConstraintOp = "==="
	ConstraintOpNe     ConstraintOp = "!="
	ConstraintOpCompat ConstraintOp = "~="
	ConstraintOpGte    ConstraintOp = ">="
	ConstraintOpLte    ConstraintOp = "<="
	ConstraintOpGt     ConstraintOp = ">"
	ConstraintOpLt     ConstraintOp = "<"
)

// MarkerOp is a comparison operator inside an environment marker
// expression.
type MarkerOp string

const (
	MarkerOpLt     MarkerOp = "<"
	MarkerOpLte    MarkerOp = "<="
	MarkerOpEq     MarkerOp = "=="
	MarkerOpNe     MarkerOp = "!="
	MarkerOpGte    MarkerOp = ">="
	MarkerOpGt     MarkerOp = ">"
	MarkerOpCompat MarkerOp = "~="
	MarkerOpArbEq  MarkerOp = "==="
	MarkerOpIn     MarkerOp = "in"
	MarkerOpNotIn  MarkerOp = "not in"
)
