package domain

// transitions lists, per status, the statuses it may move to.
// Absent or empty entries are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  nil,
	StatusCancelled:  nil,
}

// Statuses returns every status in lifecycle order.
func Statuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

func (s OrderStatus) String() string {
	return string(s)
}

// ParseStatus converts a literal into an OrderStatus.
func ParseStatus(v string) (OrderStatus, bool) {
	s := OrderStatus(v)
	return s, s.Valid()
}

// CanTransition reports whether an order in status from may move to status to.
// Self transitions are never allowed.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AcceptsDelivery reports whether a delivery may be attached in status s.
func AcceptsDelivery(s OrderStatus) bool {
	return s == StatusProcessing || s == StatusShipped
}
