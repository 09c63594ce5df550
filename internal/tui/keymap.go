package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit       key.Binding
	Back       key.Binding
	Submit     key.Binding
	Clear      key.Binding
	FocusList  key.Binding
	FocusInput key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	Retry      key.Binding
	Open       key.Binding
	Select     key.Binding
}

// newKeyMap builds the bindings. modifier is the prefix for action keys,
// "ctrl" by default.
func newKeyMap(modifier string) keyMap {
	mod := modifier + "+"
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search now"),
		),
		Clear: key.NewBinding(
			key.WithKeys(mod+"l"),
			key.WithHelp(mod+"l", "clear"),
		),
		FocusList: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "results"),
		),
		FocusInput: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "/", "i"),
			key.WithHelp("/", "search box"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "n", "]"),
			key.WithHelp("→/n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "p", "["),
			key.WithHelp("←/p", "prev page"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "try again"),
		),
		Open: key.NewBinding(
			key.WithKeys(mod+"o"),
			key.WithHelp(mod+"o", "open in browser"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "read"),
		),
	}
}
