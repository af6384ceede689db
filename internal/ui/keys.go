package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Back      key.Binding
	More      key.Binding
	Less      key.Binding
	Toggle    key.Binding
	History   key.Binding
	Share     key.Binding
	QR        key.Binding
	Dismiss   key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		More:      key.NewBinding(key.WithKeys("+", "right", "l"), key.WithHelp("+", "more periods")),
		Less:      key.NewBinding(key.WithKeys("-", "left", "h"), key.WithHelp("-", "fewer periods")),
		Toggle:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-renewal")),
		History:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "payments")),
		Share:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy link")),
		QR:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "qr code")),
		Dismiss:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}
