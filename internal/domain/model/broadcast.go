package model

// TargetAllKey is the sentinel that addresses every registered user.
const TargetAllKey = "all"

// BroadcastTarget identifies a recipient cohort: every registered user,
// or the members of one named group.
type BroadcastTarget struct {
	AllUsers bool   `json:"all_users"`
	Group    string `json:"group,omitempty"`
}

func TargetAll() BroadcastTarget              { return BroadcastTarget{AllUsers: true} }
func TargetGroup(name string) BroadcastTarget { return BroadcastTarget{Group: name} }

// ParseTarget interprets the "all" sentinel; anything else is a group name.
func ParseTarget(s string) BroadcastTarget {
	if s == TargetAllKey {
		return TargetAll()
	}
	return TargetGroup(s)
}

// Key renders the target back to its wire/storage form.
func (t BroadcastTarget) Key() string {
	if t.AllUsers {
		return TargetAllKey
	}
	return t.Group
}

func (t BroadcastTarget) IsZero() bool { return !t.AllUsers && t.Group == "" }

// DeliveryReport aggregates the outcome of one fan-out. Individual
// recipient failures are counted, never surfaced.
type DeliveryReport struct {
	RunID     string
	Target    BroadcastTarget
	Succeeded int
	Failed    int
}

func (r DeliveryReport) Total() int { return r.Succeeded + r.Failed }
