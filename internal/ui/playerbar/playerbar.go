// Package playerbar renders the now-playing panel from a status snapshot.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/swell/internal/status"
	"github.com/llehouerou/swell/internal/ui/render"
	"github.com/llehouerou/swell/internal/ui/styles"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	stopSymbol  = "■"

	filledBlock = "▓"
	emptyBlock  = "░"
)

// Height is the rendered height including the border.
const Height = 4

// Render returns the bordered player panel for the given outer width.
func Render(s status.Snapshot, width int) string {
	inner := max(width-4, 10) // border + padding

	title := trackLine(s)
	vol := RenderVolume(s.Volume)
	top := render.Row(render.TruncateEllipsis(title, inner-lipgloss.Width(vol)-1), vol, inner)

	bottom := RenderProgressBar(s, inner)
	return styles.T().S().Panel.Width(width - 2).Render(top + "\n" + bottom)
}

func trackLine(s status.Snapshot) string {
	st := styles.T().S()
	switch s.Media {
	case status.NoMedia:
		return st.Muted.Render("Nothing playing")
	case status.InvalidMedia:
		return st.Error.Render("Track unavailable: ") + st.Muted.Render(render.Sanitize(s.TrackURI))
	case status.Loading:
		return st.Warning.Render("Loading ") + st.Muted.Render(render.Sanitize(s.TrackURI))
	default:
		return st.Title.Render(render.Sanitize(s.TrackURI))
	}
}

// RenderProgressBar renders a block-style progress line.
// Format: ▶  1:23  ▓▓▓▓▓░░░░░  4:56
func RenderProgressBar(s status.Snapshot, width int) string {
	symbol := stopSymbol
	switch s.Playback {
	case status.Playing:
		symbol = playSymbol
	case status.Paused:
		symbol = pauseSymbol
	case status.Stopped:
	}

	if s.Position < 0 || s.Duration <= 0 {
		return symbol
	}

	posStr := formatDuration(s.Position)
	durStr := formatDuration(s.Duration)

	fixed := lipgloss.Width(symbol) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixed
	if barWidth < 3 {
		return symbol + "  " + posStr + " / " + durStr
	}

	ratio := float64(s.Position) / float64(s.Duration)
	filled := min(int(float64(barWidth)*ratio), barWidth)

	st := styles.T().S()
	bar := st.Success.Render(strings.Repeat(filledBlock, filled)) +
		st.Subtle.Render(strings.Repeat(emptyBlock, barWidth-filled))

	return symbol + "  " + posStr + "  " + bar + "  " + durStr
}

// RenderVolume renders the volume as a percentage of full scale.
func RenderVolume(v uint16) string {
	pct := int(uint32(v) * 100 / 0xFFFF)
	return styles.T().S().Muted.Render(fmt.Sprintf("vol %3d%%", pct))
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
