package reqforge

import (
	"reflect"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	desc, err := Resolve(reflect.TypeFor[createPost]())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if desc.Method != MethodPost {
		t.Errorf("expected POST, got %s", desc.Method)
	}
	if desc.Path != "/api/users/{id}/posts" {
		t.Errorf("unexpected path %s", desc.Path)
	}
	if desc.Body != BodyJSON {
		t.Errorf("expected default body json, got %s", desc.Body)
	}

	want := []struct {
		field string
		role  Role
		name  string
		json  string
	}{
		{"ID", RolePath, "id", "id"},
		{"Draft", RoleQuery, "draft", "draft"},
		{"IncludeComments", RoleQuery, "include_comments", "includeComments"},
		{"Page", RoleQuery, "page", "page"},
		{"Auth", RoleHeader, "Authorization", ""},
		{"Title", RoleBody, "title", "title"},
		{"Tags", RoleBody, "tags", "tags"},
	}
	if len(desc.Fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(desc.Fields))
	}
	for i, w := range want {
		f := desc.Fields[i]
		if f.Field != w.field || f.Role != w.role || f.Name != w.name || f.JSONName != w.json {
			t.Errorf("field %d: got {%s %s %s %q}, want {%s %s %s %q}",
				i, f.Field, f.Role, f.Name, f.JSONName, w.field, w.role, w.name, w.json)
		}
	}

	if got := desc.Placeholders(); len(got) != 1 || got[0] != "id" {
		t.Errorf("unexpected placeholders %v", got)
	}
	if got := desc.nonBodyKeys(); strings.Join(got, ",") != "id,draft,includeComments,page" {
		t.Errorf("unexpected non-body keys %v", got)
	}
}

func TestResolvePointer(t *testing.T) {
	desc, err := Resolve(reflect.TypeFor[*listUsers]())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if desc.Body != BodyNone {
		t.Errorf("expected body none, got %s", desc.Body)
	}
	if f := desc.Fields[0]; f.Name != "page" || f.JSONName != "Page" {
		t.Errorf("unexpected field %+v", f)
	}
}

type tileRequest struct {
	_ struct{} `request:"method=GET,path=/tiles/{z},{x},body=none"`
	Z int      `path:"z"`
	X int      `path:"x"`
}

type matrixRequest struct {
	_  struct{} `request:"method=GET,path='/maps;layers=a,b/{id}',body=none"`
	ID string   `path:"id"`
}

func TestResolveCommaInPath(t *testing.T) {
	desc, err := Resolve(reflect.TypeFor[tileRequest]())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if desc.Path != "/tiles/{z},{x}" || desc.Body != BodyNone {
		t.Errorf("unexpected descriptor %s %s", desc.Path, desc.Body)
	}
	if got := strings.Join(desc.Placeholders(), ","); got != "z,x" {
		t.Errorf("unexpected placeholders %s", got)
	}
	if got := MustShape[tileRequest]().Endpoint(&tileRequest{Z: 3, X: 5}); got != "/tiles/3,5" {
		t.Errorf("unexpected endpoint %s", got)
	}

	desc, err = Resolve(reflect.TypeFor[matrixRequest]())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if desc.Path != "/maps;layers=a,b/{id}" {
		t.Errorf("unexpected path %s", desc.Path)
	}
	if got := MustShape[matrixRequest]().Endpoint(&matrixRequest{ID: "eu"}); got != "/maps;layers=a,b/eu" {
		t.Errorf("unexpected endpoint %s", got)
	}
}

func TestResolveErrors(t *testing.T) {
	type noAttrs struct {
		ID int `path:""`
	}
	type badMethod struct {
		_ struct{} `request:"method=FETCH,path=/x"`
	}
	type badBody struct {
		_ struct{} `request:"method=GET,path=/x,body=xml"`
	}
	type noPath struct {
		_ struct{} `request:"method=GET"`
	}
	type unknownAttr struct {
		_ struct{} `request:"method=GET,path=/x,cache=yes"`
	}
	type twoAttrs struct {
		_ struct{} `request:"method=GET,path=/x"`
		_ struct{} `request:"method=GET,path=/y"`
	}
	type twoRoles struct {
		_  struct{} `request:"method=GET,path=/x/{id}"`
		ID int      `path:"" query:"id"`
	}
	type badType struct {
		_      struct{}          `request:"method=GET,path=/x"`
		Filter map[string]string `query:"filter"`
	}
	type Embedded struct{ Name string }
	type embeddedRole struct {
		_        struct{} `request:"method=GET,path=/x"`
		Embedded `query:""`
	}

	tests := []struct {
		name    string
		typ     reflect.Type
		wantErr string
	}{
		{"missing attributes", reflect.TypeFor[noAttrs](), "missing request attributes"},
		{"unsupported method", reflect.TypeFor[badMethod](), "unsupported HTTP method: FETCH"},
		{"unsupported body", reflect.TypeFor[badBody](), "unsupported body type: xml"},
		{"missing path", reflect.TypeFor[noPath](), `missing required "path" attribute`},
		{"unknown attribute", reflect.TypeFor[unknownAttr](), `unknown request attribute "cache"`},
		{"multiple attribute fields", reflect.TypeFor[twoAttrs](), "multiple request attribute fields"},
		{"two roles", reflect.TypeFor[twoRoles](), "field ID: field carries both"},
		{"unsupported type", reflect.TypeFor[badType](), "unsupported query field type"},
		{"embedded role", reflect.TypeFor[embeddedRole](), "embedded fields cannot be query fields"},
		{"not a struct", reflect.TypeFor[string](), "only structs are supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.typ)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !IsCode(err, CodeDefinition) {
				t.Errorf("expected %s error, got %v", CodeDefinition, err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	if m, err := ParseMethod("PATCH"); err != nil || m != MethodPatch {
		t.Errorf("ParseMethod(PATCH) = %v, %v", m, err)
	}
	if _, err := ParseMethod("get"); err == nil {
		t.Error("expected lowercase method to be rejected")
	}
}

func TestParseBodyKind(t *testing.T) {
	if k, err := ParseBodyKind(""); err != nil || k != BodyJSON {
		t.Errorf("ParseBodyKind(\"\") = %v, %v", k, err)
	}
	if k, err := ParseBodyKind("multipart"); err != nil || k != BodyMultipart {
		t.Errorf("ParseBodyKind(multipart) = %v, %v", k, err)
	}
	if _, err := ParseBodyKind("xml"); !IsCode(err, CodeDefinition) {
		t.Errorf("expected definition error, got %v", err)
	}
	if BodyKind("").String() != "json" {
		t.Error("expected the zero BodyKind to print as json")
	}
}
