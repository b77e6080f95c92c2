package document

import (
	"bufio"
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/ankit-chaubey/metasift/core"
)

// dscFields maps the DSC header comments we keep to their draft fields.
var dscFields = map[string]func(d *core.Draft, v string){
	"%%Title:": func(d *core.Draft, v string) { d.Title = v },
	"%%For:":   func(d *core.Draft, v string) { d.Author = v },
}

// epsBinaryHeader starts a DOS EPS file with a binary preview.
var epsBinaryHeader = []byte{0xC5, 0xD0, 0xD3, 0xC6}

func isPostScript(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%!PS")) || bytes.HasPrefix(data, epsBinaryHeader)
}

// ─── PostScript ──────────────────────────────────────────────────────────────

func extractPostScript(data []byte, d *core.Draft, log zerolog.Logger) error {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	sc.Split(scanPostScriptLines)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "%%EndComments") {
			break
		}
		for prefix, set := range dscFields {
			if strings.HasPrefix(line, prefix) {
				set(d, decodeDSCText(strings.TrimSpace(line[len(prefix):])))
			}
		}
	}
	if err := sc.Err(); err != nil {
		log.Debug().Err(err).Msg("postscript header scan stopped")
	}

	if packet := extractXMPPacket(data); len(packet) > 0 {
		if utf8.Valid(packet) {
			d.XMP = string(packet)
		} else {
			log.Debug().Msg("postscript XMP packet is not UTF-8")
		}
	}
	return nil
}

// scanPostScriptLines splits on LF, CR or CRLF; PostScript allows all three.
func scanPostScriptLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		if data[i] == '\r' && i+1 == len(data) && !atEOF {
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// decodeDSCText strips the parentheses DSC writers put around text values.
func decodeDSCText(s string) string {
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		s = s[1 : len(s)-1]
		s = strings.ReplaceAll(s, `\(`, "(")
		s = strings.ReplaceAll(s, `\)`, ")")
		s = strings.ReplaceAll(s, `\\`, `\`)
	}
	return s
}

// extractXMPPacket finds an XMP packet embedded in raw file bytes:
// <?xpacket begin=...?> ... <?xpacket end=...?>, or a bare x:xmpmeta element.
func extractXMPPacket(data []byte) []byte {
	start := bytes.Index(data, []byte("<?xpacket begin="))
	if start < 0 {
		start = bytes.Index(data, []byte("<x:xmpmeta"))
	}
	if start < 0 {
		return nil
	}
	end := bytes.Index(data[start:], []byte("<?xpacket end="))
	if end < 0 {
		end = bytes.Index(data[start:], []byte("</x:xmpmeta>"))
		if end >= 0 {
			end += len("</x:xmpmeta>")
		}
	} else {
		end += len("<?xpacket end=")
		endClose := bytes.Index(data[start+end:], []byte("?>"))
		if endClose >= 0 {
			end += endClose + 2
		}
	}
	if end < 0 {
		return nil
	}
	return data[start : start+end]
}
