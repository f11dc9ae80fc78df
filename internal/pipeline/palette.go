package pipeline

// Styling cycles through these lists by value index, wrapping around.
var (
	MarkerColors = []string{"blue", "red", "orange", "green", "gray", "purple", "cyan", "pink"}
	MarkerShapes = []string{"square", "circle", "diamond", "cross", "triangle-up", "pentagon", "x", "triangle-se", "hexagon"}
	LineDashes   = []string{"solid", "dash", "dot", "dashdot", "longdash", "longdashdot"}
)

func pick(list []string, index int) string {
	if len(list) == 0 || index < 0 {
		return ""
	}
	return list[index%len(list)]
}
