package tui

type confirmModel struct {
	message string
}

func (m confirmModel) View() string {
	content := "Remove \"" + m.message + "\"?\n\n"
	content += "y yes    n no"
	return overlayBoxStyle.Render(content)
}
