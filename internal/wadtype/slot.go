package wadtype

// SlotKind identifies a special named lump recorded per archive.
type SlotKind uint8

const (
	SlotPalette SlotKind = iota
	SlotPatchNames
	SlotTexture1
	SlotTexture2
	SlotDehacked
	SlotAnimated
	SlotSwitches

	// NumSlotKinds is the number of special slots.
	NumSlotKinds = 7
)

var slotNames = [...]Name{
	SlotPalette:    "PLAYPAL",
	SlotPatchNames: "PNAMES",
	SlotTexture1:   "TEXTURE1",
	SlotTexture2:   "TEXTURE2",
	SlotDehacked:   "DEHACKED",
	SlotAnimated:   "ANIMATED",
	SlotSwitches:   "SWITCHES",
}

// LumpName returns the lump name that fills the slot.
func (s SlotKind) LumpName() Name {
	if int(s) < len(slotNames) {
		return slotNames[s]
	}
	return ""
}

// String returns the slot's lump name.
func (s SlotKind) String() string {
	return string(s.LumpName())
}

// SlotForName returns the special slot a lump name fills, if any.
func SlotForName(n Name) (SlotKind, bool) {
	for i, sn := range slotNames {
		if sn == n {
			return SlotKind(i), true
		}
	}
	return 0, false
}
