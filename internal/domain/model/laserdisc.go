package model

// VideoFormat is the analog video standard of a disc. Values are declared,
// not enforced.
type VideoFormat string

const (
	FormatNTSC VideoFormat = "NTSC"
	FormatPAL  VideoFormat = "PAL"
)

// RotationType is the disc playback mode. Values are declared, not enforced.
type RotationType string

const (
	RotationCAV RotationType = "CAV" // constant angular velocity
	RotationCLV RotationType = "CLV" // constant linear velocity
	RotationCAA RotationType = "CAA" // constant angular acceleration
)

// LaserDisc is one disc image in the collection.
type LaserDisc struct {
	ID       int64        `json:"id"`
	Filename string       `json:"filename"`
	Region   string       `json:"region"`
	Length   int          `json:"length"` // minutes
	Format   VideoFormat  `json:"format"`
	Rotation RotationType `json:"rotation"`
}

func (d LaserDisc) RecordID() int64 { return d.ID }

func (d LaserDisc) WithID(id int64) LaserDisc {
	d.ID = id
	return d
}

// LaserDiscKind returns the laser disc collection descriptor with a fresh seed.
func LaserDiscKind() Kind[LaserDisc] {
	return Kind[LaserDisc]{
		Name:  "laserdiscs",
		Label: "LaserDisc",
		Seed: []LaserDisc{
			{ID: 1, Filename: "dragons_lair.img", Region: "US", Length: 22, Format: FormatNTSC, Rotation: RotationCAV},
			{ID: 2, Filename: "space_ace.img", Region: "EU", Length: 18, Format: FormatPAL, Rotation: RotationCLV},
		},
	}
}
