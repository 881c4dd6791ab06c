package types

type Variance struct {
	covariant, contravariant bool
}

var (
	Covariant     = Variance{covariant: true}
	Contravariant = Variance{contravariant: true}
	Invariant     = Variance{}
)

func (v Variance) IsCovariant() bool     { return v.covariant && !v.contravariant }
func (v Variance) IsContravariant() bool { return v.contravariant && !v.covariant }
func (v Variance) IsInvariant() bool     { return !v.covariant && !v.contravariant }

// String renders the variance as written in declarations: out, in or empty
func (v Variance) String() string {
	switch {
	case v.IsCovariant():
		return "out"
	case v.IsContravariant():
		return "in"
	default:
		return ""
	}
}

func ParseVariance(s string) (Variance, bool) {
	switch s {
	case "out", "+":
		return Covariant, true
	case "in", "-":
		return Contravariant, true
	case "", "=":
		return Invariant, true
	}
	return Invariant, false
}
