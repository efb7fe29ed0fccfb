package reqforge

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestDecodeRoundTrip(t *testing.T) {
	s := MustShape[createPost]()
	page := 3
	in := &createPost{
		ID:              42,
		Draft:           Some(true),
		IncludeComments: Some(false),
		Page:            &page,
		Auth:            "Bearer t",
		Title:           "Hello",
		Tags:            []string{"a", "b"},
	}

	out, err := TryBuild("https://api.example.com/v2", s.Bind(in))
	if err != nil {
		t.Fatalf("TryBuild: %v", err)
	}
	req, err := out.NewHTTPRequest(t.Context())
	if err != nil {
		t.Fatalf("NewHTTPRequest: %v", err)
	}

	got, err := s.Decode(req)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.ID != 42 || got.Auth != "Bearer t" || got.Title != "Hello" || len(got.Tags) != 2 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Page == nil || *got.Page != 3 {
		t.Errorf("expected page=3, got %v", got.Page)
	}
	if v, ok := got.IncludeComments.Get(); !ok || v {
		t.Errorf("expected include_comments=false, got %v", got.IncludeComments)
	}
}

func TestDecodeForm(t *testing.T) {
	s := MustShape[loginForm]()
	remember := false
	out := Build("https://api.example.com", s.Bind(&loginForm{
		Username: "ann",
		Password: "123",
		Remember: &remember,
		Scopes:   []string{"read"},
	}))
	req, err := out.NewHTTPRequest(t.Context())
	if err != nil {
		t.Fatalf("NewHTTPRequest: %v", err)
	}

	got, err := s.Decode(req)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// The numeric-looking password stays a string.
	if got.Username != "ann" || got.Password != "123" {
		t.Errorf("unexpected credentials %+v", got)
	}
	if got.Remember == nil || *got.Remember {
		t.Errorf("expected remember=false, got %v", got.Remember)
	}
	if len(got.Scopes) != 1 || got.Scopes[0] != "read" {
		t.Errorf("unexpected scopes %v", got.Scopes)
	}
}

func TestDecodeMultipart(t *testing.T) {
	s := MustShape[uploadAvatar]()
	out := Build("https://api.example.com", s.Bind(&uploadAvatar{User: "u7", Caption: "hi"}))
	req, err := out.NewHTTPRequest(t.Context())
	if err != nil {
		t.Fatalf("NewHTTPRequest: %v", err)
	}
	got, err := s.Decode(req)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.User != "u7" || got.Caption != "hi" {
		t.Errorf("unexpected value %+v", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	s := MustShape[createPost]()
	tests := []struct {
		name string
		req  *http.Request
		code ErrorCode
		want string
	}{
		{
			name: "path mismatch",
			req:  httptest.NewRequest("POST", "/api/accounts/1/posts", strings.NewReader(`{"title":"t"}`)),
			code: CodeInvalidRequest,
			want: "does not match template",
		},
		{
			name: "path too short",
			req:  httptest.NewRequest("POST", "/posts", nil),
			code: CodeInvalidRequest,
			want: "does not match template",
		},
		{
			name: "bad path value",
			req:  jsonRequest("/api/users/abc/posts", `{"title":"t"}`),
			code: CodeInvalidRequest,
			want: "decode parameters",
		},
		{
			name: "malformed JSON",
			req:  jsonRequest("/api/users/1/posts", `{"title":`),
			code: CodeSerialization,
		},
		{
			name: "unsupported content type",
			req: func() *http.Request {
				r := httptest.NewRequest("POST", "/api/users/1/posts", strings.NewReader("<x/>"))
				r.Header.Set("Content-Type", "application/xml")
				return r
			}(),
			code: CodeInvalidRequest,
			want: "unsupported content type",
		},
		{
			name: "validation",
			req:  jsonRequest("/api/users/1/posts", `{"tags":["a"]}`),
			code: CodeInvalidRequest,
			want: "Title: required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Decode(tt.req)
			if !IsCode(err, tt.code) {
				t.Fatalf("expected %s error, got %v", tt.code, err)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestDecodeBodyTooLarge(t *testing.T) {
	s := MustShape[createPost]()
	body := `{"title":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	_, err := s.Decode(jsonRequest("/api/users/1/posts", body))
	if !IsCode(err, CodeInvalidRequest) {
		t.Fatalf("expected invalid_request error, got %v", err)
	}
	if !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("unexpected error %q", err.Error())
	}
}

func TestDecodeFormInvalidValue(t *testing.T) {
	s := MustShape[loginForm]()
	r := httptest.NewRequest("POST", "/login", strings.NewReader(url.Values{"remember": {"maybe"}}.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if _, err := s.Decode(r); !IsCode(err, CodeSerialization) {
		t.Fatalf("expected serialization error, got %v", err)
	}
}

func TestMatchSegment(t *testing.T) {
	tests := []struct {
		tmpl, seg, name, value string
		ok                     bool
	}{
		{"users", "users", "", "", true},
		{"users", "posts", "", "", false},
		{"{id}", "42", "id", "42", true},
		{"{id}.json", "42.json", "id", "42", true},
		{"v{major}", "v2", "major", "2", true},
		{"{id}.json", "42.xml", "", "", false},
	}
	for _, tt := range tests {
		name, value, ok := matchSegment(tt.tmpl, tt.seg)
		if name != tt.name || value != tt.value || ok != tt.ok {
			t.Errorf("matchSegment(%q, %q) = %q, %q, %v", tt.tmpl, tt.seg, name, value, ok)
		}
	}
}

func jsonRequest(path, body string) *http.Request {
	r := httptest.NewRequest("POST", path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}
