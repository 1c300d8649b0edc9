package text

import (
	"sync"

	"github.com/go-text/typesetting/language"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/easel"
)

// Layout draws every script with simple left-to-right pen advances. That is
// correct for Latin-like scripts and wrong for scripts needing contextual
// shaping or reordering; those degrade visibly, so the first occurrence of
// each is logged.

// simpleScripts are rendered correctly by plain pen advances.
var simpleScripts = map[language.Script]bool{
	language.Latin:    true,
	language.Cyrillic: true,
	language.Greek:    true,
}

var (
	complexScriptOnce sync.Once
	rtlOnce           sync.Once
)

// reportScripts warns once per process about text that simple layout
// cannot shape faithfully: complex scripts and right-to-left paragraphs.
func reportScripts(str string) {
	for _, r := range str {
		if r < 0x80 {
			continue
		}
		s := language.LookupScript(r)
		if s == language.Common || s == language.Inherited || simpleScripts[s] {
			continue
		}
		complexScriptOnce.Do(func() {
			easel.Logger().Warn("text contains a script needing complex shaping, rendering with simple advances",
				"rune", string(r))
		})
		break
	}

	var p bidi.Paragraph
	if _, err := p.SetString(str); err != nil {
		return
	}
	if ordering, err := p.Order(); err == nil {
		for i := 0; i < ordering.NumRuns(); i++ {
			run := ordering.Run(i)
			if run.Direction() == bidi.RightToLeft {
				rtlOnce.Do(func() {
					easel.Logger().Warn("text contains right-to-left runs, rendering left-to-right")
				})
				return
			}
		}
	}
}
