package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down     key.Binding
	Up       key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Focus    key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Source filters
	FilterAll   key.Binding
	FilterGmail key.Binding
	FilterNaver key.Binding

	// Actions
	Sync        key.Binding
	Classify    key.Binding
	ApplyLabels key.Binding
	Edit        key.Binding
	Move        key.Binding
	Naver       key.Binding
	Rules       key.Binding
	Logout      key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n/→", "다음"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p/←", "이전"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "list / categories"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open / filter / drop"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		FilterAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "전체"),
		),
		FilterGmail: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Gmail"),
		),
		FilterNaver: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "네이버"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "메일 동기화"),
		),
		Classify: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "AI 분류"),
		),
		ApplyLabels: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Gmail 라벨 적용"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "분류 변경"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move to category"),
		),
		Naver: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "네이버 메일 연결"),
		),
		Rules: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "발신자 규칙 상세"),
		),
		Logout: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "로그아웃"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Sync, k.Classify, k.Move, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage, k.Focus, k.Select, k.Back, k.Quit},
		{k.Command, k.Help, k.Refresh, k.FilterAll, k.FilterGmail, k.FilterNaver},
		{k.Sync, k.Classify, k.ApplyLabels, k.Edit, k.Move},
		{k.Naver, k.Rules, k.Logout},
	}
}
