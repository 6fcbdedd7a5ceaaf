package ui

import "strings"

// wrapText greedily breaks s into lines no wider than maxWidth. Words
// longer than maxWidth get a line of their own.
func wrapText(m TextMeasurer, s string, maxWidth float32) (lines []string, width float32) {
	if maxWidth <= 0 {
		w, _ := m.Measure(s)
		return strings.Split(s, "\n"), w
	}
	spaceWidth, _ := m.Measure(" ")

	for _, raw := range strings.Split(s, "\n") {
		words := strings.Fields(raw)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := words[0]
		currentWidth, _ := m.Measure(current)
		for _, word := range words[1:] {
			wordWidth, _ := m.Measure(word)
			if currentWidth+spaceWidth+wordWidth > maxWidth {
				lines = append(lines, current)
				width = max(width, currentWidth)
				current = word
				currentWidth = wordWidth
			} else {
				current += " " + word
				currentWidth += spaceWidth + wordWidth
			}
		}
		lines = append(lines, current)
		width = max(width, currentWidth)
	}
	return lines, width
}
