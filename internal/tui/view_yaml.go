package tui

import (
	"fmt"
	"strings"
)

// yamlViewState holds the detail view of one pod, addressed by name so it
// can be re-resolved against each new snapshot.
type yamlViewState struct {
	podName string
	content string
	lines   []string
	offset  int
}

func (ys *yamlViewState) setContent(content string) {
	ys.content = content
	ys.lines = strings.Split(strings.TrimRight(content, "\n"), "\n")
	ys.offset = min(ys.offset, max(len(ys.lines)-1, 0))
}

func (ys *yamlViewState) scrollDown(amount, viewHeight int) {
	maxOffset := max(len(ys.lines)-viewHeight, 0)
	ys.offset = min(ys.offset+amount, maxOffset)
}

func (ys *yamlViewState) scrollUp(amount int) {
	ys.offset = max(ys.offset-amount, 0)
}

func (ys *yamlViewState) jumpToBottom(viewHeight int) {
	ys.offset = max(len(ys.lines)-viewHeight, 0)
}

func renderYAMLView(ys *yamlViewState, width, viewHeight int) string {
	if ys.content == "" {
		return "  No YAML available\n"
	}

	var b strings.Builder

	header := fmt.Sprintf("  pod/%s [%d lines]", ys.podName, len(ys.lines))
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	end := min(ys.offset+viewHeight, len(ys.lines))
	for i := ys.offset; i < end; i++ {
		b.WriteString("  ")
		b.WriteString(truncate(ys.lines[i], width-2))
		b.WriteString("\n")
	}

	return b.String()
}

func yamlHelpKeys() string {
	return helpLine(keys.Down, keys.Up, keys.PageDown, keys.Bottom, keys.Refresh, keys.Escape)
}
