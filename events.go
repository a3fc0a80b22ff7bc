package graphcore

// Transition names one step of the search/insert driver's state machine,
// emitted purely for visualisation/diagnostics. Event emission never
// influences matching outcomes: a Graph configured with no event sink
// (the default) runs identically to one with a sink attached.
type Transition int

const (
	TransitionStartNode Transition = iota
	TransitionVisitParent
	TransitionRootExplore
	TransitionVisitChild
	TransitionMatchAdvance
	TransitionParentExplore
	TransitionDone
	TransitionChildMatch
	TransitionChildMismatch
	TransitionDequeue
)

func (t Transition) String() string {
	switch t {
	case TransitionStartNode:
		return "StartNode"
	case TransitionVisitParent:
		return "VisitParent"
	case TransitionRootExplore:
		return "RootExplore"
	case TransitionVisitChild:
		return "VisitChild"
	case TransitionMatchAdvance:
		return "MatchAdvance"
	case TransitionParentExplore:
		return "ParentExplore"
	case TransitionDone:
		return "Done"
	case TransitionChildMatch:
		return "ChildMatch"
	case TransitionChildMismatch:
		return "ChildMismatch"
	case TransitionDequeue:
		return "Dequeue"
	default:
		return "Unknown"
	}
}

// GraphOpEvent is one emitted step of a search or insert run. PathID
// correlates the events of a single FindAncestor/FindParent/Insert call
// (see newPathID in graph.go). An Insert's own events carry one id; each
// search that Insert runs internally emits its events under a separate id.
type GraphOpEvent struct {
	Step        int
	OpType      string
	Transition  Transition
	Location    *ChildLocation
	Query       []Token
	Description string
	PathID      string
}

// emit sends ev on g.events if a sink is configured; it never blocks
// matching logic on a missing or slow reader beyond the channel send
// itself, and is always safe to call with a nil sink.
func (g *Graph) emit(ev GraphOpEvent) {
	if g.events == nil {
		return
	}
	g.events <- ev
}
