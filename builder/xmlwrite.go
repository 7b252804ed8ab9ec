package builder

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"ddexcore/model"
)

func escText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;")
	return r.Replace(s)
}

func writeLeaf(buf *bytes.Buffer, tag, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(buf, "<%s>%s</%s>", tag, escText(text), tag)
}

func writeLeafAttr(buf *bytes.Buffer, tag, text string, attrs map[string]string) {
	if text == "" {
		return
	}
	buf.WriteByte('<')
	buf.WriteString(tag)
	for k, v := range attrs {
		if v == "" {
			continue
		}
		fmt.Fprintf(buf, ` %s="%s"`, k, escAttr(v))
	}
	buf.WriteByte('>')
	buf.WriteString(escText(text))
	fmt.Fprintf(buf, "</%s>", tag)
}

func writeDate(buf *bytes.Buffer, tag string, t time.Time) {
	if t.IsZero() {
		return
	}
	writeLeaf(buf, tag, t.Format("2006-01-02"))
}

func writeExtensions(buf *bytes.Buffer, exts []model.Extension) {
	for _, e := range exts {
		buf.Write(e.RawXML)
	}
}

func writeTitles(buf *bytes.Buffer, tag string, titles model.TitleSet) {
	for _, t := range titles {
		attrs := map[string]string{}
		if t.Locale != "" {
			attrs["LanguageAndScriptCode"] = t.Locale
		}
		writeLeafAttr(buf, tag, t.Text, attrs)
	}
}
