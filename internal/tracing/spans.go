package tracing

// Span names.
const (
	SpanLoad           = "htmlload.load"
	SpanValidate       = "form.validate"
	SpanSnapshotSave   = "snapshot.save"
	SpanSnapshotLatest = "snapshot.latest"
	SpanSnapshotList   = "snapshot.list"
)

// Span attribute keys.
const (
	AttrPath         = "file.path"
	AttrCacheHit     = "cache.hit"
	AttrFormCount    = "form.count"
	AttrFormID       = "form.id"
	AttrControlCount = "form.control_count"
	AttrValid        = "form.valid"
	AttrSnapshotID   = "snapshot.id"
)
