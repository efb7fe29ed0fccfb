package reqforge_test

import (
	"fmt"

	"github.com/broady/reqforge"
)

type ListPosts struct {
	_ struct{} `request:"method=GET,path=/api/users/{id}/posts,body=none"`

	ID              uint64                  `path:"id"`
	Draft           reqforge.Optional[bool] `query:"draft"`
	IncludeComments reqforge.Optional[bool] `query:"include_comments"`
	Page            reqforge.Optional[int]  `query:"page"`
	RequestID       string                  `header:"X-Request-Id"`
}

var listPosts = reqforge.MustShape[ListPosts]()

func ExampleShape_Bind() {
	out, err := reqforge.TryBuild("https://api.example.com/", listPosts.Bind(&ListPosts{
		ID:              123,
		Draft:           reqforge.Some(true),
		IncludeComments: reqforge.Some(false),
		RequestID:       "r-1",
	}))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out)
	v, _ := out.Headers.Get("X-Request-Id")
	fmt.Println("X-Request-Id:", v)
	fmt.Println("body:", out.Body != nil)
	// Output:
	// GET https://api.example.com/api/users/123/posts?draft=true&include_comments=false
	// X-Request-Id: r-1
	// body: false
}

func ExampleBuildHeaders() {
	_, err := reqforge.BuildHeaders(map[string]string{"X-Trace": "a\r\nInjected: 1"})
	fmt.Println(err)
	// Output:
	// header: header "X-Trace": "a\r\nInjected: 1" - invalid header value
}

func ExampleJoinURL() {
	fmt.Println(reqforge.JoinURL("https://api.example.com/", "/test/endpoint"))
	fmt.Println(reqforge.JoinURL("https://api.example.com", ""))
	// Output:
	// https://api.example.com/test/endpoint
	// https://api.example.com
}
