package tui

type View int

const (
	ViewResults View = iota
	ViewReader
	ViewNotFound
)

func (v View) String() string {
	switch v {
	case ViewResults:
		return "results"
	case ViewReader:
		return "reader"
	case ViewNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
