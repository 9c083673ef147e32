package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"taskmgr/internal/config"
)

type keyMap struct {
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Add        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	StatusNext key.Binding
	StatusPrev key.Binding
	Sort       key.Binding
	Refresh    key.Binding

	Submit     key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	CycleLeft  key.Binding
	CycleRight key.Binding

	Yes key.Binding
	No  key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(k.Quit, "quit")),
		Up:         key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp(k.Up+"/↑", "up")),
		Down:       key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp(k.Down+"/↓", "down")),
		Add:        key.NewBinding(key.WithKeys(k.Add), key.WithHelp(k.Add, "add")),
		Edit:       key.NewBinding(key.WithKeys(k.Edit), key.WithHelp(k.Edit, "edit")),
		Delete:     key.NewBinding(key.WithKeys(k.Delete), key.WithHelp(k.Delete, "delete")),
		StatusNext: key.NewBinding(key.WithKeys(k.StatusNext), key.WithHelp(k.StatusNext, "next status")),
		StatusPrev: key.NewBinding(key.WithKeys(k.StatusPrev), key.WithHelp(k.StatusPrev, "prev status")),
		Sort:       key.NewBinding(key.WithKeys(k.SortCycle), key.WithHelp(k.SortCycle, "sort")),
		Refresh:    key.NewBinding(key.WithKeys(k.Refresh), key.WithHelp(k.Refresh, "refresh")),

		Submit:     key.NewBinding(key.WithKeys(k.Submit), key.WithHelp(k.Submit, "save")),
		Confirm:    key.NewBinding(key.WithKeys(k.Confirm), key.WithHelp(k.Confirm, "next/save")),
		Cancel:     key.NewBinding(key.WithKeys(k.Cancel), key.WithHelp(k.Cancel, "cancel")),
		NextField:  key.NewBinding(key.WithKeys(k.NextField), key.WithHelp(k.NextField, "next field")),
		PrevField:  key.NewBinding(key.WithKeys(k.PrevField), key.WithHelp(k.PrevField, "prev field")),
		CycleLeft:  key.NewBinding(key.WithKeys("left")),
		CycleRight: key.NewBinding(key.WithKeys("right", " ")),

		Yes: key.NewBinding(key.WithKeys(k.ConfirmYes, "Y"), key.WithHelp(k.ConfirmYes, "delete")),
		No:  key.NewBinding(key.WithKeys(k.ConfirmNo, "N", k.Cancel), key.WithHelp(k.ConfirmNo, "keep")),
	}
}

type listHelp struct{ k keyMap }

func (h listHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Up, h.k.Down, h.k.Add, h.k.Edit, h.k.Delete, h.k.StatusNext, h.k.Sort, h.k.Refresh, h.k.Quit}
}

func (h listHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp(), {h.k.StatusPrev}}
}

type formHelp struct{ k keyMap }

func (h formHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.NextField, h.k.PrevField, h.k.Confirm, h.k.Submit, h.k.Cancel}
}

func (h formHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

type confirmHelp struct{ k keyMap }

func (h confirmHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Yes, h.k.No}
}

func (h confirmHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
