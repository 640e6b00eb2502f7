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
package fix

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"
)

// SensitiveTags is the default set of tags whose values identify a firm,
// an account or an order.
var SensitiveTags = map[Tag]string{
	TagAccount:      "Account",
	TagClOrdID:      "ClOrdID",
	TagOrderID:      "OrderID",
	TagOrigClOrdID:  "OrigClOrdID",
	TagExecID:       "ExecID",
	TagSenderCompID: "SenderCompID",
	TagTargetCompID: "TargetCompID",
}

// Obfuscator replaces values of sensitive tags with stable aliases such as
// Account0001. The same tag=value always maps to the same alias for the
// lifetime of the Obfuscator. It is safe for concurrent use.
type Obfuscator struct {
	enabled bool
	tags    map[Tag]string

	mu       sync.Mutex
	aliasMap map[string]string // "tag=value" -> alias
	counter  map[Tag]int
}

// NewObfuscator copies tags; a nil map selects SensitiveTags.
func NewObfuscator(tags map[Tag]string, enabled bool) *Obfuscator {
	if tags == nil {
		tags = SensitiveTags
	}
	cp := make(map[Tag]string, len(tags))
	maps.Copy(cp, tags)

	return &Obfuscator{
		enabled:  enabled,
		tags:     cp,
		aliasMap: make(map[string]string),
		counter:  make(map[Tag]int),
	}
}

func (o *Obfuscator) Enabled() bool { return o != nil && o.enabled }

// Apply returns line unchanged when the obfuscator is nil or disabled.
func (o *Obfuscator) Apply(line string) string {
	if !o.Enabled() {
		return line
	}
	return o.ObfuscateLine(line)
}

// ObfuscateLine rewrites one SOH-delimited line. Fragments that are not
// tag=value pairs are left as they are. Lengths change, so BodyLength and
// CheckSum in the result no longer hold; use ObfuscateMessage when the
// output has to stay a valid message.
func (o *Obfuscator) ObfuscateLine(line string) string {
	fields := strings.Split(line, string(SOH))

	for i, f := range fields {
		tagStr, val, ok := splitOnce(f)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(tagStr)
		if err != nil {
			continue
		}
		if alias, ok := o.alias(Tag(n), val); ok {
			fields[i] = tagStr + "=" + alias
		}
	}

	return strings.Join(fields, string(SOH))
}

// ObfuscateMessage returns a rebuilt copy of m with sensitive values
// replaced and the derived fields recomputed.
func (o *Obfuscator) ObfuscateMessage(m *Message) (*Message, error) {
	fields, err := Tokenize(m.Encode())
	if err != nil {
		return nil, err
	}

	b := FromMessage(m)
	for _, f := range fields {
		if alias, ok := o.alias(f.Tag, f.Value); ok {
			b.Set(f.Tag, alias)
		}
	}
	return b.Build()
}

func (o *Obfuscator) alias(tag Tag, val string) (string, bool) {
	name, sensitive := o.tags[tag]
	if !sensitive {
		return "", false
	}
	key := tag.String() + "=" + val

	o.mu.Lock()
	defer o.mu.Unlock()

	alias, exists := o.aliasMap[key]
	if !exists {
		o.counter[tag]++
		alias = fmt.Sprintf("%s%04d", name, o.counter[tag])
		o.aliasMap[key] = alias
		logger.Debug("new alias", "tag", int(tag), "name", name, "alias", alias)
	}
	return alias, true
}

// splitOnce splits on the first '=' or SOH.
func splitOnce(s string) (left, right string, ok bool) {
	idx := strings.IndexAny(s, "=\x01")
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}
