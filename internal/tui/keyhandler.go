package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/chronicle/internal/config"
	"github.com/pders01/chronicle/internal/validation"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
	keys        keyMap
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifier := cfg.Keys.Modifier
	if modifier == "" {
		modifier = "ctrl"
	}
	return &KeyHandler{
		app:         app,
		config:      cfg,
		modifierKey: modifier + "+",
		keys:        newKeyMap(modifier),
	}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	return kh.app.view == ViewResults && kh.app.searchInput.Focused()
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return kh.app, tea.Quit
	case key.Matches(msg, kh.keys.Back):
		if kh.canLeaveInput() {
			kh.app.searchInput.Blur()
		}
		return kh.app, nil
	case key.Matches(msg, kh.keys.Submit):
		return kh.app, kh.app.submit()
	case key.Matches(msg, kh.keys.Clear):
		kh.app.clearSearch()
		return kh.app, nil
	case key.Matches(msg, kh.keys.FocusList):
		if kh.canLeaveInput() {
			kh.app.searchInput.Blur()
			kh.app.resultList.Select(0)
		}
		return kh.app, nil
	default:
		return kh.delegateToTextInput(msg)
	}
}

// canLeaveInput reports whether there is anything to act on outside the
// search box: results to browse or an error to retry.
func (kh *KeyHandler) canLeaveInput() bool {
	return len(kh.app.resultList.Items()) > 0 || kh.app.store.Snapshot().Err != ""
}

// delegateToTextInput feeds the key to the search box and hands changed
// input to the debouncer. Clearing the box cancels a pending commit.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := validation.SanitizeQuery(kh.app.searchInput.Value())
	var cmd tea.Cmd
	kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)

	next := validation.SanitizeQuery(kh.app.searchInput.Value())
	if next != prev {
		if next == "" {
			kh.app.debouncer.Cancel()
		} else {
			kh.app.debouncer.Push(next)
		}
	}
	return kh.app, cmd
}

func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.Quit):
		return kh.app, tea.Quit, true
	case key.Matches(msg, kh.keys.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	}

	switch kh.app.view {
	case ViewResults:
		return kh.handleResultsCustomKeys(msg)
	case ViewReader:
		return kh.handleReaderCustomKeys(msg)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleResultsCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.FocusInput):
		kh.app.searchInput.Focus()
		return kh.app, textinput.Blink, true
	case key.Matches(msg, kh.keys.Clear):
		kh.app.clearSearch()
		return kh.app, nil, true
	case key.Matches(msg, kh.keys.NextPage):
		return kh.app, kh.app.changePage(1), true
	case key.Matches(msg, kh.keys.PrevPage):
		return kh.app, kh.app.changePage(-1), true
	case key.Matches(msg, kh.keys.Retry):
		return kh.app, kh.app.retry(), true
	case msg.String() == "up":
		if kh.app.resultList.Index() == 0 {
			kh.app.searchInput.Focus()
			return kh.app, nil, true
		}
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleReaderCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if key.Matches(msg, kh.keys.Open) {
		if a := kh.app.currentArticle; a != nil && a.WebURL != "" {
			kh.app.setStatus(MsgOpening, StatusInfo)
			return kh.app, kh.app.openURL(a.WebURL), true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

// delegateToCharm lets the bubbles components handle keys we don't intercept.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewResults:
		if key.Matches(msg, kh.keys.Select) {
			if i, ok := kh.app.resultList.SelectedItem().(articleItem); ok {
				return kh.app, kh.app.showArticle(i.article)
			}
			return kh.app, nil
		}
		kh.app.resultList, cmd = kh.app.resultList.Update(msg)
		return kh.app, cmd

	case ViewReader:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewReader, ViewNotFound:
		kh.app.view = ViewResults
		kh.app.currentArticle = nil
		kh.app.loadingArticle = false
		kh.app.lookup = nil
		kh.app.viewport.SetContent("")
		kh.app.clearStatus()

		if kh.app.store.Snapshot().IsInitialLoad && !kh.app.store.Pending() {
			return kh.app, kh.app.loadInitial()
		}
		return kh.app, nil

	case ViewResults:
		kh.app.searchInput.Focus()
		return kh.app, nil

	default:
		return kh.app, tea.Quit
	}
}

// GetHelpForCurrentView returns the bindings shown in the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []key.Binding {
	k := kh.keys
	switch kh.app.view {
	case ViewResults:
		if kh.app.searchInput.Focused() {
			return []key.Binding{k.Submit, k.FocusList, k.Clear, k.Back}
		}
		bindings := []key.Binding{k.Select, k.NextPage, k.PrevPage, k.FocusInput, k.Clear}
		if kh.app.store.Snapshot().Err != "" {
			bindings = append([]key.Binding{k.Retry}, bindings...)
		}
		return append(bindings, k.Quit)

	case ViewReader:
		return []key.Binding{k.Open, k.Back, k.Quit}

	case ViewNotFound:
		return []key.Binding{k.Back, k.Quit}

	default:
		return nil
	}
}
