// Package gen renders the assembly protocol methods for discovered shapes.
//
// The generated methods are equivalent to what reqforge.Shape computes by
// reflection, without the per-call reflection.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"

	"github.com/broady/reqforge/internal/discover"
	"github.com/broady/reqforge/internal/tags"
)

var methodConsts = map[string]string{
	"GET":     "MethodGet",
	"POST":    "MethodPost",
	"PUT":     "MethodPut",
	"DELETE":  "MethodDelete",
	"PATCH":   "MethodPatch",
	"HEAD":    "MethodHead",
	"OPTIONS": "MethodOptions",
}

var bodyConsts = map[string]string{
	"json":      "BodyJSON",
	"form":      "BodyForm",
	"multipart": "BodyMultipart",
	"none":      "BodyNone",
}

type fileData struct {
	Package     string
	NeedStrings bool
	Shapes      []shapeData
}

type shapeData struct {
	Name         string
	Method       string
	Body         string
	Path         string
	PathFields   []discover.Field
	QueryFields  []discover.Field
	HeaderFields []discover.Field
	Omit         []string
}

var fileTemplate = template.Must(template.New("file").Funcs(template.FuncMap{
	"quote":       strconv.Quote,
	"placeholder": func(name string) string { return strconv.Quote("{" + name + "}") },
	"quoteAll": func(keys []string) string {
		quoted := make([]string, len(keys))
		for i, k := range keys {
			quoted[i] = strconv.Quote(k)
		}
		return strings.Join(quoted, ", ")
	},
}).Parse(`// Code generated by reqforge gen. DO NOT EDIT.

package {{.Package}}

import (
{{- if .NeedStrings}}
	"strings"
{{end}}
	"github.com/broady/reqforge"
)
{{range .Shapes}}{{template "shape" .}}{{end}}

{{- define "shape"}}
// Method implements reqforge.Request.
func (r *{{.Name}}) Method() reqforge.Method { return reqforge.{{.Method}} }

// Endpoint implements reqforge.Request.
func (r *{{.Name}}) Endpoint() string {
{{- if .PathFields}}
	path := {{quote .Path}}
{{- range .PathFields}}
	path = strings.ReplaceAll(path, {{placeholder .Key}}, reqforge.PathValue(r.{{.Name}}))
{{- end}}
	return path
{{- else}}
	return {{quote .Path}}
{{- end}}
}
{{- if .QueryFields}}

// QueryParams implements reqforge.QuerySource.
func (r *{{.Name}}) QueryParams() *reqforge.Params {
	p := reqforge.NewParams()
{{- range .QueryFields}}
	reqforge.AddParam(p, {{quote .Key}}, r.{{.Name}})
{{- end}}
	return reqforge.NilIfEmpty(p)
}
{{- end}}
{{- if .HeaderFields}}

// Headers implements reqforge.HeaderSource.
func (r *{{.Name}}) Headers() any {
	h := reqforge.NewParams()
{{- range .HeaderFields}}
	reqforge.AddParam(h, {{quote .Key}}, r.{{.Name}})
{{- end}}
	if h.Len() == 0 {
		return nil
	}
	return h
}
{{- end}}

// BodyKind implements reqforge.BodyKinder.
func (r *{{.Name}}) BodyKind() reqforge.BodyKind { return reqforge.{{.Body}} }
{{- if .Omit}}

// Payload implements reqforge.PayloadSource.
func (r *{{.Name}}) Payload() any { return reqforge.OmitKeys(r, {{quoteAll .Omit}}) }
{{- end}}
{{end}}`))

// Generate renders the methods of shapes as a gofmt-ed Go file in package pkg.
func Generate(pkg string, shapes []discover.Shape) ([]byte, error) {
	data := fileData{Package: pkg}
	for i := range shapes {
		s := &shapes[i]
		method, ok := methodConsts[s.Method]
		if !ok {
			return nil, fmt.Errorf("%s: unsupported HTTP method: %s", s.Name, s.Method)
		}
		body, ok := bodyConsts[s.Body]
		if !ok {
			return nil, fmt.Errorf("%s: unsupported body type: %s", s.Name, s.Body)
		}
		sd := shapeData{
			Name:         s.Name,
			Method:       method,
			Body:         body,
			Path:         s.Path,
			PathFields:   s.Roles(tags.RolePath),
			QueryFields:  s.Roles(tags.RoleQuery),
			HeaderFields: s.Roles(tags.RoleHeader),
			Omit:         s.NonBodyKeys(),
		}
		if len(sd.PathFields) > 0 {
			data.NeedStrings = true
		}
		data.Shapes = append(data.Shapes, sd)
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w\n%s", err, buf.Bytes())
	}
	return src, nil
}
