package tui

import (
	"fmt"
	"strings"

	"github.com/Taishi66/podtree/internal/domain"
)

const (
	treeRootLabel   = "Pods"
	containersLabel = "Containers"
	loadingLabel    = "Loading..."
	emptyLabel      = "No pods in this namespace"
	branchMid       = "├─ "
	branchLast      = "└─ "
	branchPipe      = "│  "
	branchBlank     = "   "
)

// treeLine is one rendered row of the pods tree. pod is the index of the
// pod the row starts, or -1 for every other row.
type treeLine struct {
	text string
	pod  int
}

// podTreeLines lays out tree as rows. spinnerView is drawn in front of the
// loading leaf.
func podTreeLines(tree domain.Tree, spinnerView string) []treeLine {
	lines := []treeLine{{text: treeRootStyle.Render(treeRootLabel), pod: -1}}

	switch tree.State {
	case domain.TreeLoading:
		leaf := strings.TrimSpace(spinnerView + " " + loadingLabel)
		return append(lines, treeLine{text: branchLast + leaf, pod: -1})
	case domain.TreeEmpty:
		return append(lines, treeLine{text: branchLast + mutedStyle.Render(emptyLabel), pod: -1})
	}

	for i, p := range tree.Pods {
		last := i == len(tree.Pods)-1
		branch, indent := branchMid, branchPipe
		if last {
			branch, indent = branchLast, branchBlank
		}
		lines = append(lines, treeLine{text: branch + podHeader(p), pod: i})

		if len(p.Containers) == 0 {
			continue
		}
		lines = append(lines, treeLine{text: indent + branchLast + sectionStyle.Render(containersLabel), pod: -1})
		for j, c := range p.Containers {
			cb := branchMid
			if j == len(p.Containers)-1 {
				cb = branchLast
			}
			lines = append(lines, treeLine{text: indent + branchBlank + cb + containerLine(c), pod: -1})
		}
	}
	return lines
}

// podHeader renders a pod name followed by whichever decorations it has.
func podHeader(p domain.PodView) string {
	parts := []string{p.Name}
	if p.NameLabel != nil {
		parts = append(parts, mutedStyle.Render("name:")+*p.NameLabel)
	}
	if p.JobNameLabel != nil {
		parts = append(parts, mutedStyle.Render("job:")+*p.JobNameLabel)
	}
	if p.Namespace != "" {
		parts = append(parts, mutedStyle.Render("ns:")+p.Namespace)
	}
	return strings.Join(parts, "  ")
}

func containerLine(c domain.ContainerView) string {
	parts := []string{
		c.Name,
		mutedStyle.Render(c.Image),
		severityStyle(c.Severity).Render(c.StateLabel),
	}
	if c.RestartCount != nil {
		parts = append(parts, fmt.Sprintf("restarts:%d", *c.RestartCount))
	}
	if c.StartedAgo != "" {
		parts = append(parts, "started "+c.StartedAgo)
	}
	return strings.Join(parts, "  ")
}

// renderPodTree draws the rows visible in a window of maxVisible rows, kept
// so the selected pod's row is on screen.
func renderPodTree(lines []treeLine, cursor, width, maxVisible int) string {
	cursorLine := 0
	for i, l := range lines {
		if l.pod == cursor {
			cursorLine = i
			break
		}
	}

	start := 0
	if cursorLine >= maxVisible {
		start = cursorLine - maxVisible + 1
	}

	var b strings.Builder
	for i := start; i < len(lines) && i < start+maxVisible; i++ {
		line := "  " + lines[i].text
		if lines[i].pod >= 0 && lines[i].pod == cursor {
			b.WriteString(selectedStyle.Width(width).Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func podHelpKeys() string {
	return helpLine(keys.Down, keys.Up, keys.Top, keys.Bottom, keys.Open, keys.Refresh, keys.Quit)
}
