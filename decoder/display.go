// display.go
package decoder

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/stephenlclarke/fix42/fix"
)

func terminalWidth() int {
	if w, _, err := getTermSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// PrintDictionarySummary writes a one-line overview of the dictionary.
func PrintDictionarySummary(w io.Writer, d *Dictionary) {
	fmt.Fprintf(w, "Version: %s   Fields: %d   Messages: %d\n", d.Version, len(d.fields), len(d.messages))
}

func printField(w io.Writer, field FieldNode, indent int) {
	printIndent(w, indent)
	fmt.Fprintf(w, "%-4d: %s (%s)%s\n", field.Field.Number, field.Field.Name, field.Field.Type, formatRequired(field.Required))
}

// PrintStringColumns lays items out column-major to fit the terminal.
func PrintStringColumns(w io.Writer, items []string) {
	printColumns(w, items, terminalWidth(), 0)
}

func printColumns(w io.Writer, items []string, width, indent int) {
	if len(items) == 0 {
		return
	}

	maxLen := 0
	for _, s := range items {
		maxLen = max(maxLen, len(s))
	}

	cols := max((width-indent)/(maxLen+2), 1)
	rows := (len(items) + cols - 1) / cols

	for r := 0; r < rows; r++ {
		printIndent(w, indent)
		for c := 0; c < cols; c++ {
			if i := c*rows + r; i < len(items) {
				fmt.Fprintf(w, "%-*s", maxLen+2, items[i])
			}
		}
		fmt.Fprintln(w)
	}
}

func printIndent(w io.Writer, level int) {
	io.WriteString(w, strings.Repeat(" ", level))
}

func printEnum(w io.Writer, enum, description string, indent int) {
	printIndent(w, indent+4)
	fmt.Fprintf(w, "%s : %s\n", enum, description)
}

func formatRequired(required bool) string {
	if required {
		return " - (Y)"
	}
	return ""
}

func printEnums(w io.Writer, values []Value, column bool, indent int) {
	if !column {
		for _, v := range values {
			printEnum(w, v.Enum, v.Description, indent)
		}
		return
	}

	sorted := append([]Value(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Enum < sorted[j].Enum })

	items := make([]string, len(sorted))
	for i, v := range sorted {
		items[i] = fmt.Sprintf("%s: %s", v.Enum, v.Description)
	}
	printColumns(w, items, terminalWidth(), indent)
}

func ListAllTags(w io.Writer, d *Dictionary) {
	for _, f := range d.Fields() {
		fmt.Fprintf(w, "%-4d: %s (%s)\n", f.Number, f.Name, f.Type)
	}
}

func PrintTagsInColumns(w io.Writer, d *Dictionary) {
	fields := d.Fields()
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = fmt.Sprintf("%-4d: %s (%s)", f.Number, f.Name, f.Type)
	}
	PrintStringColumns(w, lines)
}

// PrintTagDetails prints a field's header and, if verbose, its enum values.
func PrintTagDetails(w io.Writer, field Field, verbose, column bool) {
	fmt.Fprintf(w, "%-4d: %s (%s)\n", field.Number, field.Name, field.Type)
	if verbose {
		printEnums(w, field.Values, column, 4)
	}
}

func ListAllMessages(w io.Writer, d *Dictionary) {
	for _, m := range d.Messages() {
		fmt.Fprintf(w, "%-4s: %s (%s)\n", m.MsgType, m.Name, m.MsgCat)
	}
}

func PrintMessagesInColumns(w io.Writer, d *Dictionary) {
	msgs := d.Messages()
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = fmt.Sprintf("%2s: %s (%s)", m.MsgType, m.Name, m.MsgCat)
	}
	PrintStringColumns(w, lines)
}

// DisplayMessage prints the layout of one message. For the MsgType field
// only the enum that names this message is shown.
func DisplayMessage(w io.Writer, d *Dictionary, msg MessageDef, verbose, includeHeader, includeTrailer, column bool) {
	const indent = 4

	fmt.Fprintf(w, "Message: %s (%s)\n", msg.Name, msg.MsgType)

	section := func(title string, fields []FieldNode) {
		printIndent(w, indent)
		fmt.Fprintf(w, "%s\n", title)
		for _, f := range fields {
			printField(w, f, indent+4)
			if !verbose {
				continue
			}
			if fix.Tag(f.Field.Number) == fix.TagMsgType {
				printEnum(w, msg.MsgType, d.GetEnumDescription(fix.TagMsgType, msg.MsgType), indent+6)
				continue
			}
			printEnums(w, f.Field.Values, column, indent+6)
		}
	}

	if includeHeader {
		section("Header", d.Header())
	}
	section("Body", msg.Fields)
	if includeTrailer {
		section("Trailer", d.Trailer())
	}
}
