package replay

// Version is written into every recording
const Version = "1.0"

// FrameInput records input state for a single logic tick
type FrameInput struct {
	F int     `json:"f"`           // Frame number
	A float64 `json:"a,omitempty"` // Horizontal axis
	J bool    `json:"j,omitempty"` // JumpPressed
	K bool    `json:"k,omitempty"` // AttackPressed
}

// ReplayData contains all data needed to replay a session
type ReplayData struct {
	Version   string       `json:"version"`
	Stage     string       `json:"stage"`
	Backend   string       `json:"backend,omitempty"`
	FixedDt   float64      `json:"fixedDelta,omitempty"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}
