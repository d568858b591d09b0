package entity

const (
	StatusPending    = "pending"
	StatusAccepted   = "accepted"
	StatusDispatched = "dispatched"
	StatusInTransit  = "in_transit"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// transitions is the full lifecycle graph. in_transit appears in the enum but
// nothing produces it yet; it still counts as non-terminal and cancellable.
var transitions = map[string][]string{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusDelivered, StatusCancelled},
	StatusInTransit:  {StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func IsValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

func IsTerminal(s string) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether the lifecycle graph has an edge from -> to.
// Role checks happen in the usecases; this only answers reachability.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RiderHoldsOrder reports whether the status implies an assigned rider.
func RiderHoldsOrder(s string) bool {
	switch s {
	case StatusAccepted, StatusDispatched, StatusInTransit, StatusDelivered:
		return true
	}
	return false
}

// TimestampColumn maps a target status to the column stamped on transition.
// Used to whitelist column names in conditional updates.
func TimestampColumn(target string) string {
	switch target {
	case StatusAccepted:
		return "accepted_at"
	case StatusDispatched:
		return "dispatched_at"
	case StatusDelivered:
		return "delivered_at"
	case StatusCancelled:
		return "cancelled_at"
	}
	return ""
}
