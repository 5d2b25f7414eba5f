package reflection

import (
	"reflect"
	"testing"
)

func TestParseBlocks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Block
	}{
		{name: "empty input", in: "", want: nil},
		{name: "single trailing newline only", in: "\n", want: []Block{{Kind: BlockEmpty}}},
		{
			name: "headings bullets and paragraphs",
			in:   "# A\n\nHello\nWorld\n\n\n- item",
			want: []Block{
				{Kind: BlockHeading1, Text: "A"},
				{Kind: BlockEmpty},
				{Kind: BlockParagraph, Text: "Hello\nWorld"},
				{Kind: BlockEmpty},
				{Kind: BlockBullet, Text: "item"},
			},
		},
		{
			name: "heading2 before heading1 prefix",
			in:   "## Sub\n# Top",
			want: []Block{
				{Kind: BlockHeading2, Text: "Sub"},
				{Kind: BlockHeading1, Text: "Top"},
			},
		},
		{
			name: "blank run collapses",
			in:   "a\n\n\n\nb",
			want: []Block{
				{Kind: BlockParagraph, Text: "a"},
				{Kind: BlockEmpty},
				{Kind: BlockParagraph, Text: "b"},
			},
		},
		{
			name: "trailing paragraph is flushed",
			in:   "# T\nlast line",
			want: []Block{
				{Kind: BlockHeading1, Text: "T"},
				{Kind: BlockParagraph, Text: "last line"},
			},
		},
		{
			name: "whitespace only lines count as blank",
			in:   "a\n   \t\nb",
			want: []Block{
				{Kind: BlockParagraph, Text: "a"},
				{Kind: BlockEmpty},
				{Kind: BlockParagraph, Text: "b"},
			},
		},
		{
			name: "final newline terminates the last line",
			in:   "- one\n- two\n",
			want: []Block{
				{Kind: BlockBullet, Text: "one"},
				{Kind: BlockBullet, Text: "two"},
			},
		},
		{
			name: "marker without space is a paragraph",
			in:   "#nope\n-dash",
			want: []Block{
				{Kind: BlockParagraph, Text: "#nope\n-dash"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseBlocks(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseBlocks() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
