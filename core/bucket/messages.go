package bucket

type (
	// Get reads a single key. Reply: GetResult.
	Get struct{ Key string }
	// Snapshot reads the whole bucket. Reply: map[string]any.
	Snapshot struct{}
	// Len counts the keys. Reply: int.
	Len struct{}

	// Put binds Key to Value. Cast only.
	Put struct {
		Key   string
		Value any
	}
	// Delete removes Key. Cast only.
	Delete struct{ Key string }

	GetResult struct {
		Value any
		Found bool
	}
)

func (Get) MsgType() string      { return "bucket.get" }
func (Snapshot) MsgType() string { return "bucket.snapshot" }
func (Len) MsgType() string      { return "bucket.len" }
func (Put) MsgType() string      { return "bucket.put" }
func (Delete) MsgType() string   { return "bucket.delete" }
