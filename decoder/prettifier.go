/*
fixdecoder — FIX protocol decoder tools
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package decoder

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/stephenlclarke/fix42/fix"
	"golang.org/x/term"
)

var (
	loadDictionary   = LoadDictionary
	splitFields      = splitLenient
	streamLogFunc    = streamLog
	getTermSize      = term.GetSize // allow override in tests
	enableValidation = false        // controlled by -validate flag
)

var (
	stdin         io.Reader = os.Stdin
	decodeOptions fix.DecodeOptions
)

var fixMessagePattern = regexp.MustCompile(`8=FIX.*?\x0110=\d{3}\x01`)

var (
	ColourReset = "\033[0m"
	ColourLine  = "\033[38;5;244m"
	ColourTag   = "\033[38;5;81m"
	ColourName  = "\033[38;5;151m"
	ColourValue = "\033[38;5;228m"
	ColourEnum  = "\033[38;5;214m"
	ColourFile  = "\033[95m"
	ColourError = "\033[31m"
	ColourMsg   = "\033[97m"
	ColourTitle = "\033[31m"
)

func DisableColours() {
	ColourReset = ""
	ColourLine = ""
	ColourTag = ""
	ColourName = ""
	ColourValue = ""
	ColourEnum = ""
	ColourFile = ""
	ColourError = ""
	ColourMsg = ""
	ColourTitle = ""
}

func SetValidation(enabled bool) {
	enableValidation = enabled
}

// SetDecodeOptions controls how -validate decodes each message.
func SetDecodeOptions(opts fix.DecodeOptions) {
	decodeOptions = opts
}

// Prettify renders one field per line with its name and, for enumerated
// fields, the meaning of the value.
func Prettify(msg string, dict *Dictionary) string {
	var sb strings.Builder

	for _, fv := range splitFields(msg) {
		name := dict.GetFieldName(fv.Tag)
		desc := dict.GetEnumDescription(fv.Tag, fv.Value)

		fmt.Fprintf(&sb, "    %s%4d%s (%s%s%s): %s%s%s",
			ColourTag, int(fv.Tag), ColourReset,
			ColourName, name, ColourReset,
			ColourValue, fv.Value, ColourReset,
		)

		if desc != "" {
			fmt.Fprintf(&sb, " (%s%s%s)", ColourEnum, desc, ColourReset)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func splitLenient(msg string) []fix.RawField {
	return fix.TokenizeLenient([]byte(msg))
}

// PrettifyFiles decodes every FIX message found in the given files, or in
// stdin when paths is empty or "-". It returns the process exit code.
func PrettifyFiles(paths []string, out io.Writer, errOut io.Writer, obfuscator *fix.Obfuscator) int {
	dict, err := loadDictionary()
	if err != nil {
		fmt.Fprintln(errOut, ColourError+"Cannot load dictionary: "+err.Error()+ColourReset)
		return 1
	}

	if len(paths) == 0 {
		paths = []string{"-"}
	}

	hadError := false
	for _, path := range paths {
		var (
			r io.Reader
			c io.Closer // nil when reading stdin
		)

		if path == "-" {
			fmt.Fprint(out, "Processing: (stdin)\n\n")
			r = stdin
		} else {
			fmt.Fprint(out, "Processing: ", ColourFile, path, ColourReset, "\n\n")

			f, err := os.Open(path)
			if err != nil {
				fmt.Fprintln(errOut, ColourError+"Cannot open file: "+err.Error()+ColourReset)
				hadError = true
				continue
			}
			r, c = f, f
		}

		if err := streamLogFunc(r, out, dict, obfuscator); err != nil {
			fmt.Fprintln(errOut, ColourError+"Error reading input: "+err.Error()+ColourReset)
			hadError = true
		}

		if c != nil {
			c.Close()
		}
	}

	if hadError {
		return 1
	}
	return 0
}

func streamLog(in io.Reader, out io.Writer, dict *Dictionary, obfuscator *fix.Obfuscator) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	separator := ColourTitle + strings.Repeat("=", terminalWidth()) + ColourReset + "\n"

	for scanner.Scan() {
		handleLogLine(scanner.Text(), out, dict, obfuscator, separator)
	}

	return scanner.Err()
}

func handleLogLine(line string, out io.Writer, dict *Dictionary, obfuscator *fix.Obfuscator, separator string) {
	matches := fixMessagePattern.FindAllStringIndex(line, -1)

	if len(matches) == 0 {
		fmt.Fprint(out, ColourLine, line, ColourReset, "\n")
		return
	}

	fixMessages, colouredLine := extractFixMessagesAndFormat(line, matches, obfuscator)
	fmt.Fprint(out, colouredLine)
	fmt.Fprint(out, separator)

	for _, msg := range fixMessages {
		processFixMessage(msg, out, dict, obfuscator, separator)
	}
}

// processFixMessage prints the message with sensitive values hidden but
// validates what was actually received.
func processFixMessage(msg string, out io.Writer, dict *Dictionary, obfuscator *fix.Obfuscator, separator string) {
	fmt.Fprint(out, Prettify(obfuscator.Apply(msg), dict))

	if enableValidation {
		errors := ValidateFixMessage(msg, dict, decodeOptions)
		if len(errors) > 0 {
			fmt.Fprint(out, separator)

			for _, err := range errors {
				fmt.Fprintf(out, "%s== %s%s\n", ColourError, err, ColourReset)
			}
		}
	}

	fmt.Fprint(out, separator)
}

func extractFixMessagesAndFormat(line string, matches [][]int, obfuscator *fix.Obfuscator) ([]string, string) {
	var (
		output      strings.Builder
		lastIndex   int
		fixMessages []string
	)

	for _, match := range matches {
		start, end := match[0], match[1]
		fixPart := line[start:end]

		output.WriteString(ColourLine + line[lastIndex:start] + ColourMsg + obfuscator.Apply(fixPart))
		fixMessages = append(fixMessages, fixPart)
		lastIndex = end
	}

	output.WriteString(ColourLine + line[lastIndex:] + ColourReset + "\n")

	return fixMessages, output.String()
}
