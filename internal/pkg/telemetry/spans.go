package telemetry

// Instrumentation scope and span attribute keys.
const (
	TracerName = "github.com/kerrokantasi/hearinggeo"

	AttrHearingID  = "hearing.id"
	AttrSessionID  = "editor.session_id"
	AttrShapeCount = "geometry.shape_count"
	AttrDrawKind   = "geometry.event_kind"
)
