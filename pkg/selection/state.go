package selection

// Kind identifies one of the four cascade levels, upstream first.
type Kind int

const (
	Months Kind = iota
	Dates
	Tasks
	Worklogs
)

// Kinds lists every level in cascade order.
var Kinds = []Kind{Months, Dates, Tasks, Worklogs}

func (k Kind) String() string {
	switch k {
	case Months:
		return "months"
	case Dates:
		return "dates"
	case Tasks:
		return "tasks"
	case Worklogs:
		return "worklogs"
	}
	return "unknown"
}

// State is the complete browsing state.
type State struct {
	Months   *Level
	Dates    *Level
	Tasks    *Level
	Worklogs *Table
}

// New returns empty state.
func New() *State {
	return &State{
		Months:   NewLevel(Months.String()),
		Dates:    NewLevel(Dates.String()),
		Tasks:    NewLevel(Tasks.String()),
		Worklogs: NewTable(),
	}
}

// Level returns the label level for k, or nil for Worklogs.
func (s *State) Level(k Kind) *Level {
	switch k {
	case Months:
		return s.Months
	case Dates:
		return s.Dates
	case Tasks:
		return s.Tasks
	}
	return nil
}

// Clear empties all four levels.
func (s *State) Clear() {
	s.Months.Clear()
	s.Dates.Clear()
	s.Tasks.Clear()
	s.Worklogs.Clear()
}
