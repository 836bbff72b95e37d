package puzzledto

type Cell struct {
	Index    int
	Label    string
	Number   int
	Empty    bool
	Revealed bool
	Mark     string
}

type SessionState struct {
	SessionUUID string
	BoardID     string
	Level       int
	Size        int
	Phase       string
	Started     bool
	Progress    int
	Total       int
	Next        int
	Round       int
	Message     string
	MessageKind string
	Cells       []Cell
	BoardImage  []byte
}

type ClickResult struct {
	State    *SessionState
	Outcome  string
	Cell     string
	Number   int
	Expected int
	Reason   string
}
