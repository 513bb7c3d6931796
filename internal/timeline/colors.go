package timeline

// Color classes shared with non-terminal frontends. The names mirror the
// web palette, not any particular terminal capability.
const (
	ColorTodo       = "gray"
	ColorInProgress = "blue"
	ColorInReview   = "yellow"
	ColorDone       = "green"
	ColorBlocked    = "red"
)

var statusColors = map[string]string{
	"To Do":       ColorTodo,
	"In Progress": ColorInProgress,
	"In Review":   ColorInReview,
	"Done":        ColorDone,
	"Resolved":    ColorDone,
	"Closed":      ColorDone,
	"Blocked":     ColorBlocked,
}

// StatusColor maps a status string to its color class. Statuses outside
// the fixed table but inside the resolver's "work started" alias set get
// the in-progress color; everything else falls back to the default. A bar
// is never omitted because its status is unrecognized.
func StatusColor(status string, cfg ResolverConfig) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	if cfg.IsStarted(status) {
		return ColorInProgress
	}
	return ColorTodo
}
