package reflection

import "strings"

type BlockKind uint8

const (
	BlockParagraph BlockKind = iota
	BlockHeading1
	BlockHeading2
	BlockBullet
	BlockEmpty
)

// Block is one classified unit of rendered text. Immutable once produced.
type Block struct {
	Kind BlockKind
	Text string
}

// ParseBlocks segments rendered template text into an ordered block
// sequence. Consecutive blank lines collapse to a single BlockEmpty; a
// trailing paragraph without a terminating blank line is still flushed.
func ParseBlocks(text string) []Block {
	if text == "" {
		return nil
	}
	// a final trailing newline terminates the last line, it does not open
	// a new empty one
	text = strings.TrimSuffix(text, "\n")

	var (
		blocks    []Block
		paragraph []string
		emptyRun  int
	)

	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		joined := strings.TrimSpace(strings.Join(paragraph, "\n"))
		if joined != "" {
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: joined})
		}
		paragraph = paragraph[:0]
		emptyRun = 0
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimRight(rawLine, " \t\r")
		stripped := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(stripped, "## "):
			flush()
			blocks = append(blocks, Block{Kind: BlockHeading2, Text: strings.TrimSpace(stripped[3:])})
			emptyRun = 0
		case strings.HasPrefix(stripped, "# "):
			flush()
			blocks = append(blocks, Block{Kind: BlockHeading1, Text: strings.TrimSpace(stripped[2:])})
			emptyRun = 0
		case strings.HasPrefix(stripped, "- "):
			flush()
			blocks = append(blocks, Block{Kind: BlockBullet, Text: strings.TrimSpace(stripped[2:])})
			emptyRun = 0
		case stripped == "":
			flush()
			if emptyRun == 0 {
				blocks = append(blocks, Block{Kind: BlockEmpty})
			}
			emptyRun++
		default:
			paragraph = append(paragraph, line)
			emptyRun = 0
		}
	}
	flush()
	return blocks
}
