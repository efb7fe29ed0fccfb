package tags

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    Request
		wantErr string
	}{
		{
			name:  "all attributes",
			value: "method=POST,path=/users/{id}/posts,body=form",
			want:  Request{Method: "POST", Path: "/users/{id}/posts", Body: "form"},
		},
		{
			name:  "whitespace",
			value: " method = GET , path = /ping ",
			want:  Request{Method: "GET", Path: "/ping"},
		},
		{
			name:  "comma in path",
			value: "method=GET,path=/tiles/{z},{x},body=none",
			want:  Request{Method: "GET", Path: "/tiles/{z},{x}", Body: "none"},
		},
		{
			name:  "comma in trailing path",
			value: "method=GET,path=/tiles/{z}, {x}",
			want:  Request{Method: "GET", Path: "/tiles/{z},{x}"},
		},
		{
			name:  "quoted path",
			value: "method=GET,path='/a;x=1,y=2',body=none",
			want:  Request{Method: "GET", Path: "/a;x=1,y=2", Body: "none"},
		},
		{name: "unterminated quote", value: "method=GET,path='/a,b", wantErr: "unterminated quote"},
		{name: "unquoted key after path", value: "method=GET,path=/a,y=2", wantErr: `unknown request attribute "y"`},
		{name: "empty", value: "  ", wantErr: "empty request attributes"},
		{name: "malformed", value: "method", wantErr: "expected key=value"},
		{name: "duplicate", value: "method=GET,method=POST,path=/", wantErr: `duplicate request attribute "method"`},
		{name: "unknown", value: "method=GET,path=/,timeout=3", wantErr: `unknown request attribute "timeout"`},
		{name: "missing method", value: "path=/x", wantErr: `missing required "method" attribute`},
		{name: "missing path", value: "method=GET", wantErr: `missing required "path" attribute`},
		{name: "bad method", value: "method=TRACE,path=/x", wantErr: "unsupported HTTP method: TRACE"},
		{name: "bad body", value: "method=GET,path=/x,body=xml", wantErr: "unsupported body type: xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequest(tt.value)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %q", tt.wantErr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		tag     reflect.StructTag
		want    Field
		wantErr string
	}{
		{tag: `json:"title"`, want: Field{}},
		{tag: `path:""`, want: Field{Role: RolePath}},
		{tag: `query:"include_comments"`, want: Field{Role: RoleQuery, Name: "include_comments"}},
		{tag: `header:"X-Request-Id" json:"-"`, want: Field{Role: RoleHeader, Name: "X-Request-Id"}},
		{tag: `body:""`, want: Field{Role: RoleBody}},
		{tag: `path:"" query:""`, wantErr: `both "path" and "query"`},
		{tag: `query:"a,b"`, wantErr: "malformed query tag"},
		{tag: `path:"{id}"`, wantErr: "malformed path tag"},
		{tag: `body:"payload"`, wantErr: "body tag takes no name"},
	}

	for _, tt := range tests {
		got, err := ParseField(tt.tag)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseField(%s): expected error containing %q, got %v", tt.tag, tt.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseField(%s): unexpected error: %v", tt.tag, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseField(%s) = %+v, want %+v", tt.tag, got, tt.want)
		}
	}
}

func TestJSONName(t *testing.T) {
	tests := []struct {
		tag    reflect.StructTag
		name   string
		inJSON bool
	}{
		{``, "Title", true},
		{`json:"title"`, "title", true},
		{`json:",omitempty"`, "Title", true},
		{`json:"title,omitempty"`, "title", true},
		{`json:"-"`, "", false},
		{`json:"-,"`, "-", true},
	}
	for _, tt := range tests {
		name, ok := JSONName(tt.tag, "Title")
		if name != tt.name || ok != tt.inJSON {
			t.Errorf("JSONName(%s) = %q, %v; want %q, %v", tt.tag, name, ok, tt.name, tt.inJSON)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/users", nil},
		{"/users/{id}/posts", []string{"id"}},
		{"/{org}/{repo}/copy/{org}", []string{"org", "repo"}},
		{"/files/{name}.json", []string{"name"}},
		{"/broken/{id", nil},
		{"/empty/{}", nil},
	}
	for _, tt := range tests {
		if got := Placeholders(tt.path); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Placeholders(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
