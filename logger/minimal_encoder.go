package logger

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

type palette struct {
	fg        string
	time      string
	component []string
	id        string
	number    string
	stage     string
	path      string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

var themes = map[string]palette{
	"gruvbox": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;108m",
		component: []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
		id:        "\x1b[38;5;109m",
		number:    "\x1b[38;5;175m",
		stage:     "\x1b[38;5;208m",
		path:      "\x1b[38;5;142m",
		warn:      "\x1b[38;5;214m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;88m",
	},
	"everforest": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;107m",
		component: []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
		id:        "\x1b[38;5;109m",
		number:    "\x1b[38;5;108m",
		stage:     "\x1b[38;5;208m",
		path:      "\x1b[38;5;107m",
		warn:      "\x1b[38;5;179m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;52m",
	},
}

var currentTheme = "everforest"

// SetTheme selects a console color scheme; unknown names are ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

// HasTheme reports whether theme names a known color scheme.
func HasTheme(theme string) bool {
	_, ok := themes[theme]
	return ok
}

func colors() palette {
	return themes[currentTheme]
}

// colorComponent picks a stable color per logger name.
func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	choices := colors().component
	return choices[hash%len(choices)]
}

var bracketPattern = regexp.MustCompile(`\[([^\]]+)\]|'([^']+)'`)

// colorizeMessage highlights "[stage]" markers and quoted 'names' in a message.
func colorizeMessage(msg string) string {
	p := colors()
	var result strings.Builder
	last := 0
	for _, m := range bracketPattern.FindAllStringIndex(msg, -1) {
		if m[0] > last {
			result.WriteString(p.fg + msg[last:m[0]] + colorReset)
		}
		color := p.stage
		if msg[m[0]] == '\'' {
			color = p.path
		}
		result.WriteString(color + msg[m[0]:m[1]] + colorReset)
		last = m[1]
	}
	if last < len(msg) {
		result.WriteString(p.fg + msg[last:] + colorReset)
	}
	return result.String()
}

// minimalEncoder is a compact console encoder:
//
//	13:04:35  compile  Rendered unit  Widget.idl header 3ms
type minimalEncoder struct {
	zapcore.Encoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()
	p := colors()

	final.AppendString(p.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	if lvl := levelColorString(ent.Level); lvl != "" {
		final.AppendString("  ")
		final.AppendString(lvl)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorizeMessage(ent.Message))

	if values := extractFieldValues(fields); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString labels WARN and above; debug and info lines carry no label.
func levelColorString(level zapcore.Level) string {
	p := colors()
	switch level {
	case zapcore.WarnLevel:
		return colorBold + p.warnBg + p.warn + "WARN" + colorReset
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + p.errBg + p.err + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens dotted names: compile.batch -> c.batch
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

func getFieldValue(field zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	field.AddTo(enc)
	v, ok := enc.Fields[field.Key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// extractFieldValues renders well-known fields as bare values and every other
// field as key=value.
//
//	{"file": "/idl/Widget.idl", "unit": "header", "duration_ms": 3} -> "/idl/Widget.idl header 3ms"
func extractFieldValues(fields []zapcore.Field) string {
	p := colors()
	var values []string
	for _, field := range fields {
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		switch field.Key {
		case FieldFile, FieldImport, FieldOutput, FieldTemplate:
			values = append(values, p.path+val+colorReset)
		case FieldJobID:
			if len(val) > 8 {
				val = val[:8]
			}
			values = append(values, p.id+val+colorReset)
		case FieldInterface, FieldUnit, FieldStage:
			values = append(values, p.fg+val+colorReset)
		case FieldCount:
			values = append(values, p.number+val+colorReset)
		case FieldDurationMS:
			values = append(values, p.number+val+colorReset+"ms")
		case FieldError:
			values = append(values, p.err+field.Key+"="+val+colorReset)
		default:
			values = append(values, field.Key+"="+val)
		}
	}
	return strings.Join(values, " ")
}
