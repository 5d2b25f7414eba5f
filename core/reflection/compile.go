package reflection

// Named paragraph styles and bullet preset of the target document format.
const (
	StyleHeading1 = "HEADING_1"
	StyleHeading2 = "HEADING_2"

	BulletPresetDiscCircleSquare = "BULLET_DISC_CIRCLE_SQUARE"
)

type EditOpKind uint8

const (
	OpInsertText EditOpKind = iota
	OpSetParagraphStyle
	OpSetBulletList
)

// Range is a half-open [Start, End) index range in the coordinate space of
// the target document after all prior operations have been applied.
type Range struct {
	Start int64
	End   int64
}

// EditOp is one atomic document edit. Operations must be applied in the
// exact emission order; the meaning of every index depends on it.
type EditOp struct {
	Kind   EditOpKind
	At     int64  // OpInsertText
	Text   string // OpInsertText
	Range  Range  // style ops
	Style  string // OpSetParagraphStyle
	Preset string // OpSetBulletList
}

// CompileBlocks turns an ordered block sequence into the edit operations
// that reproduce it in an initially empty document. The insertion cursor
// starts at 1 (index 0 is the document's implicit root) and only moves
// forward. An empty block list compiles to an empty, legal batch.
func CompileBlocks(blocks []Block) []EditOp {
	var ops []EditOp
	cursor := int64(1)

	for _, b := range blocks {
		insertText := "\n"
		if b.Kind != BlockEmpty {
			insertText = b.Text + "\n"
		}

		ops = append(ops, EditOp{Kind: OpInsertText, At: cursor, Text: insertText})
		start, end := cursor, cursor+int64(len([]rune(insertText)))

		switch b.Kind {
		case BlockHeading1:
			ops = append(ops, EditOp{
				Kind:  OpSetParagraphStyle,
				Range: Range{Start: start, End: end},
				Style: StyleHeading1,
			})
		case BlockHeading2:
			ops = append(ops, EditOp{
				Kind:  OpSetParagraphStyle,
				Range: Range{Start: start, End: end},
				Style: StyleHeading2,
			})
		case BlockBullet:
			ops = append(ops, EditOp{
				Kind:   OpSetBulletList,
				Range:  Range{Start: start, End: end},
				Preset: BulletPresetDiscCircleSquare,
			})
		}

		cursor = end
	}
	return ops
}
