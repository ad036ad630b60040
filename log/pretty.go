package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

func forced(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()

	return c
}

var (
	keyColor    = forced(color.FgHiBlack)
	stringColor = forced(color.FgCyan)
	numberColor = forced(color.FgYellow)
	trueColor   = forced(color.FgGreen)
	falseColor  = forced(color.FgRed)
	timeColor   = forced(color.FgBlue)
	spanColor   = forced(color.FgMagenta)
	nullColor   = forced(color.FgHiBlack)
)

func levelColor(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return falseColor
	case l >= slog.LevelWarn:
		return numberColor
	case l >= slog.LevelInfo:
		return trueColor
	default:
		return timeColor
	}
}

// prettyHandler writes colorized records, either as key=value pairs on one
// line or as an indented JSON-like object. Groups are flattened into dotted
// keys.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	json   bool
	prefix string
	attrs  []slog.Attr
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	json bool,
) *prettyHandler {
	return &prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w, json: json}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}

	return level >= min
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = append(fields, h.builtin(slog.Time(slog.TimeKey, r.Time)))
	}

	fields = append(fields, h.builtin(slog.Any(slog.LevelKey, r.Level)))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = append(fields, h.builtin(slog.String(
				slog.SourceKey, src.File+":"+strconv.Itoa(src.Line),
			)))
		}
	}

	fields = append(fields, h.builtin(slog.String(slog.MessageKey, r.Message)))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.flatten(fields, h.prefix, a)

		return true
	})

	buf := new(bytes.Buffer)

	if h.json {
		h.writeJSON(buf, r.Level, fields)
	} else {
		h.writeText(buf, r.Level, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)

	for _, a := range attrs {
		c.attrs = h.flatten(c.attrs, h.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) builtin(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr != nil {
		return h.opts.ReplaceAttr(nil, a)
	}

	return a
}

// flatten appends a to dst, expanding groups into prefixed keys and dropping
// empty attributes.
func (h *prettyHandler) flatten(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return dst
		}

		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range group {
			dst = h.flatten(dst, prefix, g)
		}

		return dst
	}

	if h.opts.ReplaceAttr != nil && prefix != "" {
		a = h.opts.ReplaceAttr(strings.Split(strings.TrimSuffix(prefix, "."), "."), a)
	} else if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Equal(slog.Attr{}) {
		return dst
	}

	a.Key = prefix + a.Key

	return append(dst, a)
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(keyColor.Sprint(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.value(level, a))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	buf.WriteString("{\n")

	for i, a := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(keyColor.Sprint(a.Key))
		buf.WriteString(": ")
		buf.WriteString(h.value(level, a))
	}

	buf.WriteString("\n}\n")
}

func (h *prettyHandler) value(level slog.Level, a slog.Attr) string {
	v := a.Value

	if a.Key == slog.LevelKey {
		return levelColor(level).Sprint(v.String())
	}

	switch v.Kind() {
	case slog.KindString:
		return stringColor.Sprint(v.String())
	case slog.KindInt64:
		return numberColor.Sprint(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return numberColor.Sprint(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return numberColor.Sprint(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return trueColor.Sprint("true")
		}

		return falseColor.Sprint("false")
	case slog.KindDuration:
		return spanColor.Sprint(v.Duration().String())
	case slog.KindTime:
		return timeColor.Sprint(v.Time().String())
	case slog.KindAny:
		if v.Any() == nil {
			return nullColor.Sprint("null")
		}

		if err, ok := v.Any().(error); ok {
			return falseColor.Sprint(err.Error())
		}

		return stringColor.Sprint(fmt.Sprint(v.Any()))
	default:
		return stringColor.Sprint(v.String())
	}
}
