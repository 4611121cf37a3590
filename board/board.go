// Package board holds the XZZPCB data model (spec.md §3): plain structs
// with no parsing behavior, in the teacher's style of separating its wire
// structs (Section, TableEntry, DiskSMART in ewf.go) from the code that
// fills them in.
package board

// Board is the root decode result: an ordered sequence of Entity values
// in file order (invariant/property P4). The recoverable errors recorded
// while producing it are not stored here; Decode returns them alongside.
type Board struct {
	Entities []Entity `json:"entities"`
}

// EntityKind discriminates the Entity union. Re-architected as a tagged
// variant per spec.md §9's design note (the source's closure-dispatch map
// becomes an exhaustive match on this kind in the decode/part packages).
type EntityKind string

const (
	KindArc     EntityKind = "arc"
	KindVia     EntityKind = "via"
	KindSegment EntityKind = "segment"
	KindText    EntityKind = "text"
	KindPart    EntityKind = "part"
)

// Entity is one outer-stream frame, decoded into exactly one of its
// payload fields according to Kind. Only one of Arc/Via/Segment/Text/Part
// is populated, matching Kind.
type Entity struct {
	Kind EntityKind `json:"kind"`

	Arc     *Arc     `json:"arc,omitempty"`
	Via     *Via     `json:"via,omitempty"`
	Segment *Segment `json:"segment,omitempty"`
	Text    *Text    `json:"text,omitempty"`
	Part    *Part    `json:"part,omitempty"`
}

// Arc is outer tag 0x01.
type Arc struct {
	Layer      uint32 `json:"layer"`
	CenterX    uint32 `json:"cx"`
	CenterY    uint32 `json:"cy"`
	Radius     int32  `json:"r"`
	AngleStart int32  `json:"angle_start"`
	AngleEnd   int32  `json:"angle_end"`
	Scale      int32  `json:"scale"`
	NetIndex   int32  `json:"net_index"`
}

// Via is outer tag 0x02.
type Via struct {
	X            int32  `json:"x"`
	Y            int32  `json:"y"`
	OuterRadius  int32  `json:"outer_radius"`
	InnerRadius  int32  `json:"inner_radius"`
	LayerA       uint32 `json:"layer_a"`
	LayerB       uint32 `json:"layer_b"`
	NetIndex     uint32 `json:"net_index"`
	Text         string `json:"text"`
}

// Segment is outer tag 0x05.
type Segment struct {
	Layer    uint32 `json:"layer"`
	X1       int32  `json:"x1"`
	Y1       int32  `json:"y1"`
	X2       int32  `json:"x2"`
	Y2       int32  `json:"y2"`
	Scale    int32  `json:"scale"`
	NetIndex uint32 `json:"net_index"`
}

// Text is outer tag 0x06. Unknown1, Divider, Empty and One are passed
// through opaquely per spec.md §9 — their semantics are unknown upstream
// and CORE must not invent an interpretation.
type Text struct {
	Unknown1 uint32 `json:"unknown1"`
	PosX     uint32 `json:"pos_x"`
	PosY     uint32 `json:"pos_y"`
	TextSize uint32 `json:"text_size"`
	Divider  uint32 `json:"divider"`
	Empty    uint32 `json:"empty"`
	One      uint16 `json:"one"`
	Body     string `json:"body"`
}

// Part is outer tag 0x07: a DES-decrypted DATA block. Ciphertext is always
// preserved; SubBlocks is empty when decryption fails (spec.md §4.3, §4.7
// "Failure semantics").
type Part struct {
	Header     PartHeader     `json:"header"`
	SubBlocks  []PartSubBlock `json:"sub_blocks"`
	Ciphertext []byte         `json:"ciphertext,omitempty"`
}

// PartHeader is the fixed-layout prefix of every decrypted DATA payload.
type PartHeader struct {
	PartSize   uint32 `json:"part_size"`
	PartX      uint32 `json:"part_x"`
	PartY      uint32 `json:"part_y"`
	Rotation   uint32 `json:"rotation"`
	Visibility uint8  `json:"visibility"`
	GroupName  string `json:"group_name"`
}

// PartSubBlockKind discriminates the PartSubBlock union.
type PartSubBlockKind string

const (
	KindPartArc   PartSubBlockKind = "part_arc"
	KindPartLine  PartSubBlockKind = "part_line"
	KindPartLabel PartSubBlockKind = "part_label"
	KindPinArray  PartSubBlockKind = "pin_array"
)

// PartSubBlock is one sub-block inside a decrypted Part payload.
type PartSubBlock struct {
	Kind PartSubBlockKind `json:"kind"`

	Arc      *PartArc   `json:"arc,omitempty"`
	Line     *PartLine  `json:"line,omitempty"`
	Label    *PartLabel `json:"label,omitempty"`
	PinArray *PinArray  `json:"pin_array,omitempty"`
}

// PartArc is part sub-tag 0x01.
type PartArc struct {
	Layer      uint32 `json:"layer"`
	X          uint32 `json:"x"`
	Y          uint32 `json:"y"`
	Radius     uint32 `json:"radius"`
	AngleStart uint32 `json:"angle_start"`
	AngleEnd   uint32 `json:"angle_end"`
	Scale      uint32 `json:"scale"`
	Extra      uint32 `json:"extra"`
}

// PartLine is part sub-tag 0x05.
type PartLine struct {
	Layer uint32 `json:"layer"`
	X1    uint32 `json:"x1"`
	Y1    uint32 `json:"y1"`
	X2    uint32 `json:"x2"`
	Y2    uint32 `json:"y2"`
	Scale uint32 `json:"scale"`
}

// PartLabel is part sub-tag 0x06. CORE only ever emits Label — no
// alternate "type_06_label" field is modeled, per spec.md §9.
type PartLabel struct {
	Layer        uint32 `json:"layer"`
	X            uint32 `json:"x"`
	Y            uint32 `json:"y"`
	FontSize     uint32 `json:"font_size"`
	FontScale    uint32 `json:"font_scale"`
	FontRotation uint32 `json:"font_rotation"`
	Visibility   uint8  `json:"visibility"`
	Label        string `json:"label"`
}

// PinArray is part sub-tag 0x09.
type PinArray struct {
	Pins []Pin `json:"pins"`
}

// Pin is one entry in a PinArray. Reserved preserves the 23-byte block the
// source labels "shape + repeated blocks" verbatim, per spec.md §9's open
// question — forward compatible in case it carries real sub-records.
type Pin struct {
	Un1           uint32  `json:"un1"`
	X             uint32  `json:"x"`
	Y             uint32  `json:"y"`
	InnerDiameter uint32  `json:"inner_diameter"`
	Rotation      uint32  `json:"rotation"`
	Name          string  `json:"name"`
	Width         uint32  `json:"width"`
	Height        uint32  `json:"height"`
	Shape         uint8   `json:"shape"`
	Reserved      [23]byte `json:"-"`
	NetIndex      uint32  `json:"net_index"`
	IsThruHole    bool    `json:"is_thru_hole"`
}
