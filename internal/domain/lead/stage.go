// internal/domain/lead/stage.go
package lead

import "time"

// Stage is one discrete position in the fixed pipeline sequence.
type Stage string

const (
	StageNew         Stage = "new"
	StageContacted   Stage = "contacted"
	StageQualified   Stage = "qualified"
	StageDemo        Stage = "demo"
	StageProposal    Stage = "proposal"
	StageNegotiation Stage = "negotiation"
	StageClosedWon   Stage = "closed_won"
	StageClosedLost  Stage = "closed_lost"
)

// StageInfo carries the display metadata for one canonical stage.
type StageInfo struct {
	ID    Stage  `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// canonicalStages is static reference data shared by every lead. Order matters:
// board columns iterate in this sequence.
var canonicalStages = []StageInfo{
	{ID: StageNew, Label: "New", Color: "#64748b"},
	{ID: StageContacted, Label: "Contacted", Color: "#3b82f6"},
	{ID: StageQualified, Label: "Qualified", Color: "#8b5cf6"},
	{ID: StageDemo, Label: "Demo", Color: "#06b6d4"},
	{ID: StageProposal, Label: "Proposal", Color: "#f59e0b"},
	{ID: StageNegotiation, Label: "Negotiation", Color: "#f97316"},
	{ID: StageClosedWon, Label: "Closed Won", Color: "#22c55e"},
	{ID: StageClosedLost, Label: "Closed Lost", Color: "#ef4444"},
}

// Stages returns the canonical ordered stage sequence.
func Stages() []StageInfo {
	out := make([]StageInfo, len(canonicalStages))
	copy(out, canonicalStages)
	return out
}

// ParseStage validates membership in the canonical set. Any prior stage is
// overwritable; membership is the only precondition a transition has.
func ParseStage(s string) (Stage, bool) {
	switch Stage(s) {
	case StageNew, StageContacted, StageQualified, StageDemo,
		StageProposal, StageNegotiation, StageClosedWon, StageClosedLost:
		return Stage(s), true
	default:
		return "", false
	}
}

// Info returns the display metadata for the stage.
func (s Stage) Info() StageInfo {
	for _, info := range canonicalStages {
		if info.ID == s {
			return info
		}
	}
	return StageInfo{ID: s, Label: string(s)}
}

// Terminal reports whether the stage is one of the two closed end states.
func (s Stage) Terminal() bool {
	switch s {
	case StageClosedWon, StageClosedLost:
		return true
	case StageNew, StageContacted, StageQualified, StageDemo, StageProposal, StageNegotiation:
		return false
	default:
		return false
	}
}

// Open reports whether the lead still counts toward the open pipeline.
func (s Stage) Open() bool {
	return !s.Terminal()
}

// WholesaleBucket is the simplified 5-column board used on the wholesale view.
// It is a display-only re-bucketing of the canonical stages and is never stored.
type WholesaleBucket string

const (
	WholesaleLead        WholesaleBucket = "lead"
	WholesaleQualified   WholesaleBucket = "qualified"
	WholesaleProposal    WholesaleBucket = "proposal"
	WholesaleNegotiation WholesaleBucket = "negotiation"
	WholesaleClosed      WholesaleBucket = "closed"
)

// WholesaleBuckets returns the 5-column sequence in display order.
func WholesaleBuckets() []WholesaleBucket {
	return []WholesaleBucket{
		WholesaleLead, WholesaleQualified, WholesaleProposal, WholesaleNegotiation, WholesaleClosed,
	}
}

// Wholesale maps a canonical stage onto its wholesale board column.
func (s Stage) Wholesale() WholesaleBucket {
	switch s {
	case StageNew, StageContacted:
		return WholesaleLead
	case StageQualified, StageDemo:
		return WholesaleQualified
	case StageProposal:
		return WholesaleProposal
	case StageNegotiation:
		return WholesaleNegotiation
	case StageClosedWon, StageClosedLost:
		return WholesaleClosed
	default:
		return WholesaleLead
	}
}

// DaysInStage returns whole days elapsed since the lead entered its current
// stage. Leads created before stage history existed carry their creation time
// as StageEnteredAt, so this degrades to lead age for them.
func DaysInStage(l *Lead, now time.Time) int {
	entered := l.StageEnteredAt
	if entered.IsZero() {
		entered = l.CreatedAt
	}
	d := int(now.Sub(entered).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
