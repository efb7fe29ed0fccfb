// Package discover finds reqforge request shapes in Go packages.
//
// A shape is any named struct type with a blank field carrying a request tag:
//
//	type GetUser struct {
//		_  struct{} `request:"method=GET,path=/users/{id}"`
//		ID uint64   `path:"id"`
//	}
//
// The tag is the marker; no directives are needed. Tags are read with the
// same parser the runtime uses, so a shape accepted here resolves at runtime.
package discover

import (
	"fmt"
	"go/build"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"reflect"
	"slices"
	"sort"

	"github.com/broady/reqforge/internal/tags"
	"golang.org/x/tools/go/packages"
)

// GeneratedFile is the name of the file written by reqforge gen. Its
// previous content is ignored when a package is scanned.
const GeneratedFile = "reqforge_gen.go"

// protocolMethods are the methods generated for each shape.
var protocolMethods = []string{"Method", "Endpoint", "QueryParams", "Headers", "BodyKind", "Payload"}

// Field is one exported field of a shape.
type Field struct {
	Name string // Go field name
	Role string // tags.Role* constant; RoleBody for untagged fields
	Key  string // placeholder, query parameter or header name
	// JSONName is the document key, empty when the field is excluded from JSON.
	JSONName string
}

// Shape is a discovered request shape.
type Shape struct {
	Name   string
	Method string
	Path   string
	Body   string // json when the tag leaves it unset
	Fields []Field
	Pos    token.Position
}

// Roles returns the fields with the given role in declaration order.
func (s *Shape) Roles(role string) []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Role == role {
			out = append(out, f)
		}
	}
	return out
}

// NonBodyKeys returns the document keys of every path, query and header field.
func (s *Shape) NonBodyKeys() []string {
	var keys []string
	for _, f := range s.Fields {
		if f.Role != tags.RoleBody && f.JSONName != "" {
			keys = append(keys, f.JSONName)
		}
	}
	return keys
}

// Warnings reports placeholders without a path field and path fields
// absent from the template. Neither prevents generation.
func (s *Shape) Warnings() []string {
	var warnings []string
	placeholders := tags.Placeholders(s.Path)
	keys := make(map[string]bool)
	for _, f := range s.Roles(tags.RolePath) {
		keys[f.Key] = true
		if !slices.Contains(placeholders, f.Key) {
			warnings = append(warnings, fmt.Sprintf("%s: path field %s has no {%s} placeholder in %q", s.Name, f.Name, f.Key, s.Path))
		}
	}
	for _, p := range placeholders {
		if !keys[p] {
			warnings = append(warnings, fmt.Sprintf("%s: placeholder {%s} has no path field and is sent verbatim", s.Name, p))
		}
	}
	return warnings
}

// Result contains discovered shapes and package info.
type Result struct {
	Shapes []Shape
	// Manual lists shapes skipped because they implement the assembly
	// protocol by hand.
	Manual      []string
	PackageName string
	PackagePath string
	ModulePath  string
	Dir         string // directory containing the package
}

// Find scans a Go package for request shapes.
//
// The pattern follows go command semantics:
//   - "." for current directory
//   - Import path like "github.com/foo/bar"
//   - Absolute or relative directory path
func Find(pattern string) (*Result, error) {
	return FindDir(pattern, "")
}

// FindDir is like Find but allows specifying a working directory.
func FindDir(pattern, dir string) (*Result, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles |
			packages.NeedTypes | packages.NeedModule,
		Dir: dir,
	}

	// Hide a stale generated file so the package type-checks without it.
	if build.IsLocalImport(pattern) || filepath.IsAbs(pattern) {
		pkgDir := pattern
		if !filepath.IsAbs(pkgDir) {
			pkgDir = filepath.Join(dir, pattern)
		}
		if stub, path, ok := stubGenerated(filepath.Join(pkgDir, GeneratedFile)); ok {
			cfg.Overlay = map[string][]byte{path: stub}
		}
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", pattern)
	}

	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found matching %q; specify a single package", pattern)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkg.Errors[0])
	}

	result, err := Inspect(pkg.Fset, pkg.Types)
	if err != nil {
		return nil, err
	}
	if pkg.Module != nil {
		result.ModulePath = pkg.Module.Path
	}
	if len(pkg.GoFiles) > 0 {
		result.Dir = filepath.Dir(pkg.GoFiles[0])
	}
	return result, nil
}

// stubGenerated returns an empty replacement for an existing generated file,
// keeping only its package clause.
func stubGenerated(path string) ([]byte, string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", false
	}
	f, err := parser.ParseFile(token.NewFileSet(), abs, nil, parser.PackageClauseOnly)
	if err != nil {
		return nil, "", false
	}
	return []byte("package " + f.Name.Name + "\n"), abs, true
}

// Inspect returns the shapes declared in a type-checked package, sorted by
// name. The first invalid shape aborts the scan.
func Inspect(fset *token.FileSet, pkg *types.Package) (*Result, error) {
	result := &Result{
		PackageName: pkg.Name(),
		PackagePath: pkg.Path(),
	}

	scope := pkg.Scope()
	names := scope.Names()
	sort.Strings(names)
	for _, name := range names {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}
		attrs, ok := requestAttrs(st)
		if !ok {
			continue
		}

		pos := fset.Position(tn.Pos())
		if named.TypeParams().Len() > 0 {
			return nil, fmt.Errorf("%s: %s: generic shapes are not supported", pos, name)
		}
		if hasProtocol(fset, named) {
			result.Manual = append(result.Manual, name)
			continue
		}

		shape, err := inspectShape(name, attrs, st)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", pos, name, err)
		}
		shape.Pos = pos
		result.Shapes = append(result.Shapes, *shape)
	}
	return result, nil
}

// requestAttrs returns the raw request tag of the first blank field carrying one.
func requestAttrs(st *types.Struct) (string, bool) {
	for i := 0; i < st.NumFields(); i++ {
		if st.Field(i).Name() != "_" {
			continue
		}
		if v, ok := reflect.StructTag(st.Tag(i)).Lookup(tags.RequestTag); ok {
			return v, true
		}
	}
	return "", false
}

// hasProtocol reports whether named declares Method or Endpoint outside
// the generated file.
func hasProtocol(fset *token.FileSet, named *types.Named) bool {
	for _, m := range []string{"Method", "Endpoint"} {
		obj, _, _ := types.LookupFieldOrMethod(named, true, named.Obj().Pkg(), m)
		fn, ok := obj.(*types.Func)
		if !ok {
			continue
		}
		if filepath.Base(fset.Position(fn.Pos()).Filename) != GeneratedFile {
			return true
		}
	}
	return false
}

func inspectShape(name, attrs string, st *types.Struct) (*Shape, error) {
	req, err := tags.ParseRequest(attrs)
	if err != nil {
		return nil, err
	}
	shape := &Shape{
		Name:   name,
		Method: req.Method,
		Path:   req.Path,
		Body:   req.Body,
	}
	if shape.Body == "" {
		shape.Body = "json"
	}

	seenAttrs := false
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))

		if v.Name() == "_" {
			if _, ok := tag.Lookup(tags.RequestTag); ok {
				if seenAttrs {
					return nil, fmt.Errorf("multiple %s attribute fields", tags.RequestTag)
				}
				seenAttrs = true
			}
			continue
		}
		if !v.Exported() {
			continue
		}
		if slices.Contains(protocolMethods, v.Name()) {
			return nil, fmt.Errorf("field %s collides with a generated method", v.Name())
		}

		ft, err := tags.ParseField(tag)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", v.Name(), err)
		}
		role := ft.Role
		if role == "" {
			role = tags.RoleBody
		}
		if role != tags.RoleBody {
			if v.Embedded() {
				return nil, fmt.Errorf("field %s: embedded fields cannot be %s fields", v.Name(), role)
			}
			if !supportedParamType(v.Type()) {
				return nil, fmt.Errorf("field %s: unsupported %s field type %s", v.Name(), role, v.Type())
			}
		}

		jsonName, inJSON := tags.JSONName(tag, v.Name())
		f := Field{Name: v.Name(), Role: role, Key: ft.Name}
		if inJSON {
			f.JSONName = jsonName
		}
		if f.Key == "" {
			f.Key = f.JSONName
			if !inJSON {
				f.Key = v.Name()
			}
		}
		shape.Fields = append(shape.Fields, f)
	}
	return shape, nil
}

// supportedParamType mirrors reqforge.SupportedParamType on go/types types.
func supportedParamType(t types.Type) bool {
	if obj, _, _ := types.LookupFieldOrMethod(t, true, nil, "ParamValue"); obj != nil {
		if _, ok := obj.(*types.Func); ok {
			return true
		}
	}
	switch u := t.Underlying().(type) {
	case *types.Pointer:
		return supportedParamType(u.Elem())
	case *types.Basic:
		if u.Kind() == types.Uintptr {
			return false
		}
		return u.Info()&(types.IsString|types.IsInteger|types.IsBoolean) != 0
	}
	return false
}

// Select returns the shapes with the given names, or all shapes when names
// is empty.
func Select(shapes []Shape, names []string) ([]Shape, error) {
	if len(names) == 0 {
		return shapes, nil
	}
	var out []Shape
	for _, name := range names {
		i := slices.IndexFunc(shapes, func(s Shape) bool { return s.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("shape %q not found", name)
		}
		out = append(out, shapes[i])
	}
	return out, nil
}
