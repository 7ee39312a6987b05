package morality

import "strings"

// Alignment is one of the nine discrete moral alignments.
type Alignment string

const (
	LawfulGood     Alignment = "lawful_good"
	NeutralGood    Alignment = "neutral_good"
	ChaoticGood    Alignment = "chaotic_good"
	LawfulNeutral  Alignment = "lawful_neutral"
	TrueNeutral    Alignment = "true_neutral"
	ChaoticNeutral Alignment = "chaotic_neutral"
	LawfulEvil     Alignment = "lawful_evil"
	NeutralEvil    Alignment = "neutral_evil"
	ChaoticEvil    Alignment = "chaotic_evil"
)

// Order is the lawful/chaotic component of an alignment.
type Order string

const (
	OrderLawful  Order = "lawful"
	OrderNeutral Order = "neutral"
	OrderChaotic Order = "chaotic"
)

// Ethic is the good/evil component of an alignment.
type Ethic string

const (
	EthicGood    Ethic = "good"
	EthicNeutral Ethic = "neutral"
	EthicEvil    Ethic = "evil"
)

// AxisThreshold is the axis value at which a component leaves neutral.
const AxisThreshold = 30

var alignmentGrid = map[Order]map[Ethic]Alignment{
	OrderLawful: {
		EthicGood:    LawfulGood,
		EthicNeutral: LawfulNeutral,
		EthicEvil:    LawfulEvil,
	},
	OrderNeutral: {
		EthicGood:    NeutralGood,
		EthicNeutral: TrueNeutral,
		EthicEvil:    NeutralEvil,
	},
	OrderChaotic: {
		EthicGood:    ChaoticGood,
		EthicNeutral: ChaoticNeutral,
		EthicEvil:    ChaoticEvil,
	},
}

type alignmentParts struct {
	order Order
	ethic Ethic
}

var alignmentComponents = func() map[Alignment]alignmentParts {
	out := make(map[Alignment]alignmentParts, 9)
	for order, row := range alignmentGrid {
		for ethic, alignment := range row {
			out[alignment] = alignmentParts{order: order, ethic: ethic}
		}
	}
	return out
}()

// Alignments lists the nine alignments in grid order.
func Alignments() []Alignment {
	return []Alignment{
		LawfulGood, NeutralGood, ChaoticGood,
		LawfulNeutral, TrueNeutral, ChaoticNeutral,
		LawfulEvil, NeutralEvil, ChaoticEvil,
	}
}

// AlignmentOf combines the two components.
func AlignmentOf(order Order, ethic Ethic) Alignment {
	return alignmentGrid[order][ethic]
}

// AlignmentFromAxes maps axis values to an alignment using ±AxisThreshold on
// each axis.
func AlignmentFromAxes(goodEvil, lawfulChaotic int) Alignment {
	ethic := EthicNeutral
	switch {
	case goodEvil >= AxisThreshold:
		ethic = EthicGood
	case goodEvil <= -AxisThreshold:
		ethic = EthicEvil
	}
	order := OrderNeutral
	switch {
	case lawfulChaotic >= AxisThreshold:
		order = OrderLawful
	case lawfulChaotic <= -AxisThreshold:
		order = OrderChaotic
	}
	return AlignmentOf(order, ethic)
}

// Valid reports whether a is one of the nine alignments.
func (a Alignment) Valid() bool {
	_, ok := alignmentComponents[a]
	return ok
}

// Order returns the lawful/chaotic component.
func (a Alignment) Order() Order { return alignmentComponents[a].order }

// Ethic returns the good/evil component.
func (a Alignment) Ethic() Ethic { return alignmentComponents[a].ethic }

// Matches reports whether the alignment satisfies a requirement token.
//
// A token is either a full alignment ("lawful_good"), a component
// ("good", "evil", "lawful", "chaotic") or "neutral", which matches when
// either component is neutral. Anything else never matches.
func (a Alignment) Matches(token string) bool {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" || !a.Valid() {
		return false
	}
	if Alignment(token).Valid() {
		return Alignment(token) == a
	}
	switch token {
	case string(EthicGood), string(EthicEvil):
		return a.Ethic() == Ethic(token)
	case string(OrderLawful), string(OrderChaotic):
		return a.Order() == Order(token)
	case "neutral":
		return a.Ethic() == EthicNeutral || a.Order() == OrderNeutral
	}
	return false
}

// MatchesAny reports whether any token matches. An empty list matches.
func (a Alignment) MatchesAny(tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	for _, token := range tokens {
		if a.Matches(token) {
			return true
		}
	}
	return false
}

// opposes reports whether one side is good and the other evil.
func opposes(a, b Ethic) bool {
	return (a == EthicGood && b == EthicEvil) || (a == EthicEvil && b == EthicGood)
}
