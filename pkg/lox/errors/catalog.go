package errors

import (
	"strings"
	"sync"
	"text/template"
)

// Def describes one catalog entry. Message and hints are text/template
// sources rendered against the data passed to New.
type Def struct {
	Class   ErrorClass
	Message string
	Hints   []string
}

// Catalog maps error codes to their definitions.
var Catalog = map[string]Def{
	"LEX-0001": {ClassLex, "Unexpected character.", []string{`{{printf "%q" .Char}} is not a valid character`}},
	"LEX-0002": {ClassLex, "Unterminated string.", nil},

	"PARSE-0001": {ClassParse, "Expect '{{.Expected}}' after {{.After}}.", nil},
	"PARSE-0002": {ClassParse, "Expect expression.", nil},
	"PARSE-0003": {ClassParse, "Expect end of expression.", nil},
}

type compiledDef struct {
	class   ErrorClass
	message *template.Template
	hints   []*template.Template
}

var (
	compileOnce sync.Once
	compiled    map[string]compiledDef
)

// compileCatalog parses every template once. A missing key is an execution
// error so a hint whose data was not supplied is dropped.
func compileCatalog() {
	compiled = make(map[string]compiledDef, len(Catalog))
	for code, def := range Catalog {
		c := compiledDef{
			class:   def.Class,
			message: template.Must(template.New(code).Option("missingkey=error").Parse(def.Message)),
		}
		for _, h := range def.Hints {
			c.hints = append(c.hints, template.Must(template.New(code).Option("missingkey=error").Parse(h)))
		}
		compiled[code] = c
	}
}

// New creates a LoxError from the catalog. An unknown code yields a parse
// error whose message is data["message"], or the code itself.
func New(code string, data map[string]any) *LoxError {
	compileOnce.Do(compileCatalog)

	def, ok := compiled[code]
	if !ok {
		msg := code
		if m, ok := data["message"].(string); ok {
			msg = m
		}
		return &LoxError{Class: ClassParse, Code: code, Message: msg, Data: data}
	}

	msg, ok := execute(def.message, data)
	if !ok {
		msg = Catalog[code].Message
	}

	var hints []string
	for _, h := range def.hints {
		if rendered, ok := execute(h, data); ok && rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &LoxError{
		Class:   def.class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

func execute(tmpl *template.Template, data map[string]any) (string, bool) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", false
	}
	return sb.String(), true
}

// NewAtLine creates a LoxError positioned on a source line.
func NewAtLine(code string, line int, data map[string]any) *LoxError {
	err := New(code, data)
	err.Line = line
	return err
}
